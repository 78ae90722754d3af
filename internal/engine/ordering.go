package engine

import "github.com/fgantt/shogi-engine/internal/shogi"

// Move ordering priorities, as distinct scoring bands so each heuristic
// dominates the next without overlap.
const (
	TTMoveScore     = 10000000
	GoodCaptureBase = 1000000
	KillerScore1    = 900000
	KillerScore2    = 800000
)

// MoveOrderer carries killer moves, history, and capture history state
// across a whole search, reset once per "new game" via Clear. History
// counters age themselves by halving when they hit their bound.
type MoveOrderer struct {
	killers [MaxPly][2]shogi.Move

	// history is indexed [fromOrDropPiece][to]; drops use index 81+PieceType
	// so quiet drops also accumulate a history score without a separate
	// table.
	history [81 + 14][81]int

	// captureHistory indexed [attackerPieceType][toSquare][capturedPieceType]
	captureHistory [14][81][14]int
}

func NewMoveOrderer() *MoveOrderer {
	mo := &MoveOrderer{}
	mo.Clear()
	return mo
}

func (mo *MoveOrderer) Clear() {
	mo.history = [81 + 14][81]int{}
	mo.captureHistory = [14][81][14]int{}
	for i := range mo.killers {
		mo.killers[i][0] = shogi.NoMove
		mo.killers[i][1] = shogi.NoMove
	}
}

func historyIndex(m shogi.Move) int {
	if m.IsDrop() {
		return 81 + int(m.Piece)
	}
	return int(m.From)
}

// ScoreMoves assigns an ordering score to every move in the list: TT move,
// SEE-split captures, killers, history, promotion, with pos needed to run
// SEE on each capture.
func (mo *MoveOrderer) ScoreMoves(pos *shogi.Position, moves *shogi.MoveList, ply int, ttMove shogi.Move) []int {
	scores := make([]int, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		scores[i] = mo.scoreMove(pos, moves.Get(i), ply, ttMove)
	}
	return scores
}

func (mo *MoveOrderer) scoreMove(pos *shogi.Position, m shogi.Move, ply int, ttMove shogi.Move) int {
	if m == ttMove {
		return TTMoveScore
	}

	if m.IsCapture() {
		victimValue := pieceValue(m.Captured)
		attackerValue := pieceValue(m.Piece)
		mvvLva := int(victimValue)*8 - int(attackerValue)

		see := SEE(pos, m)
		var score int
		if see >= 0 {
			score = GoodCaptureBase + mvvLva
		} else {
			score = -GoodCaptureBase + mvvLva
		}
		score += mo.captureHistory[m.Piece][m.To][m.Captured] / 4
		return score
	}

	if m.IsPromotion() {
		return 50000 + int(m.Piece)*100
	}

	if m == mo.killers[ply][0] {
		return KillerScore1
	}
	if m == mo.killers[ply][1] {
		return KillerScore2
	}

	hist := mo.history[historyIndex(m)][m.To]
	if hist > 500000 {
		hist = 500000
	}
	return hist
}

// PickMove selects the best remaining move at or after `index` and swaps it
// into place, enabling lazy incremental sorting (a full sort up front would
// waste work on moves a beta cutoff never reaches).
func PickMove(moves *shogi.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

func (mo *MoveOrderer) UpdateKillers(m shogi.Move, ply int) {
	if ply >= MaxPly || m.IsCapture() {
		return
	}
	if mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

func (mo *MoveOrderer) UpdateHistory(m shogi.Move, depth int, isGood bool) {
	idx := historyIndex(m)
	bonus := depth * depth
	if isGood {
		mo.history[idx][m.To] += bonus
		if mo.history[idx][m.To] > 400000 {
			for i := range mo.history {
				for j := range mo.history[i] {
					mo.history[i][j] /= 2
				}
			}
		}
	} else {
		mo.history[idx][m.To] -= bonus
		if mo.history[idx][m.To] < -400000 {
			mo.history[idx][m.To] = -400000
		}
	}
}

func (mo *MoveOrderer) UpdateCaptureHistory(attacker shogi.PieceType, to shogi.Square, captured shogi.PieceType, depth int, isGood bool) {
	if captured == shogi.NoPieceType {
		return
	}
	bonus := depth * depth
	if isGood {
		mo.captureHistory[attacker][to][captured] += bonus
		if mo.captureHistory[attacker][to][captured] > 400000 {
			mo.scaleCaptureHistory()
		}
	} else {
		mo.captureHistory[attacker][to][captured] -= bonus
		if mo.captureHistory[attacker][to][captured] < -400000 {
			mo.captureHistory[attacker][to][captured] = -400000
		}
	}
}

func (mo *MoveOrderer) scaleCaptureHistory() {
	for i := range mo.captureHistory {
		for j := range mo.captureHistory[i] {
			for k := range mo.captureHistory[i][j] {
				mo.captureHistory[i][j][k] /= 2
			}
		}
	}
}
