package engine

import "github.com/fgantt/shogi-engine/internal/shogi"

// EndgameEvaluator scores king activity, endgame-enhanced passed pawns,
// piece coordination, and simple mating patterns. The caller
// (IntegratedEvaluator) gates invocation by phase < 64; the component
// itself is a total function and may be called unconditionally.
type EndgameEvaluator struct{}

func NewEndgameEvaluator() *EndgameEvaluator { return &EndgameEvaluator{} }

var boardCenter = shogi.NewSquare(4, 4)

func (e *EndgameEvaluator) Evaluate(pos *shogi.Position, side shogi.Color) TaperedScore {
	var total TaperedScore
	total = total.Add(kingActivity(pos, side)).Sub(kingActivity(pos, side.Other()))
	total = total.Add(endgamePassedPawns(pos, side)).Sub(endgamePassedPawns(pos, side.Other()))
	total = total.Add(pieceCoordination(pos, side)).Sub(pieceCoordination(pos, side.Other()))
	total = total.Add(matingPatterns(pos, side)).Sub(matingPatterns(pos, side.Other()))
	return total
}

// kingActivity rewards a king that has moved toward the board interior,
// scaling as (4 - chebyshev_distance_to_center) * 15, purely eg.
func kingActivity(pos *shogi.Position, c shogi.Color) TaperedScore {
	k := pos.KingSquare[c]
	if k == shogi.NoSquare {
		return TaperedScore{}
	}
	d := shogi.ChebyshevDistance(k, boardCenter)
	bonus := (4 - d) * 15
	if bonus < 0 {
		bonus = 0
	}
	return TaperedScore{MG: 0, EG: int32(bonus)}
}

func endgamePassedPawns(pos *shogi.Position, c shogi.Color) TaperedScore {
	var mg, eg int32
	enemy := c.Other()
	fileHasEnemyPawn := [9]bool{}
	for sq := shogi.Square(0); sq < 81; sq++ {
		p := pos.Board[sq]
		if p != shogi.NoPiece && p.Color() == enemy && p.Type() == shogi.Pawn {
			fileHasEnemyPawn[sq.File()] = true
		}
	}
	ownKing := pos.KingSquare[c]
	enemyKing := pos.KingSquare[enemy]
	for sq := shogi.Square(0); sq < 81; sq++ {
		p := pos.Board[sq]
		if p == shogi.NoPiece || p.Color() != c || p.Type() != shogi.Pawn {
			continue
		}
		if fileHasEnemyPawn[sq.File()] {
			continue
		}
		adv := sq.RelativeRank(c)
		mg += int32(adv*adv) * 8
		eg += int32(adv*adv) * 20
		if ownKing != shogi.NoSquare && shogi.ChebyshevDistance(ownKing, sq) <= 2 {
			eg += 40
		}
		if enemyKing != shogi.NoSquare && shogi.ChebyshevDistance(enemyKing, sq) >= 4 {
			eg += 50
		}
	}
	return TaperedScore{MG: mg, EG: eg}
}

// pieceCoordination rewards rook-bishop proximity, doubled rooks on a shared
// rank/file, and a major piece within 3 of the opponent's king.
func pieceCoordination(pos *shogi.Position, c shogi.Color) TaperedScore {
	var mg, eg int32
	var rooks, bishops []shogi.Square
	for sq := shogi.Square(0); sq < 81; sq++ {
		p := pos.Board[sq]
		if p == shogi.NoPiece || p.Color() != c {
			continue
		}
		switch p.Type().Demote() {
		case shogi.Rook:
			rooks = append(rooks, sq)
		case shogi.Bishop:
			bishops = append(bishops, sq)
		}
	}
	for _, r := range rooks {
		for _, b := range bishops {
			if shogi.ChebyshevDistance(r, b) <= 4 {
				mg += 6
				eg += 10
			}
		}
	}
	if len(rooks) == 2 {
		if rooks[0].File() == rooks[1].File() || rooks[0].Rank() == rooks[1].Rank() {
			mg += 10
			eg += 16
		}
	}
	enemyKing := pos.KingSquare[c.Other()]
	if enemyKing != shogi.NoSquare {
		for _, r := range rooks {
			if shogi.ChebyshevDistance(r, enemyKing) <= 3 {
				eg += 25
			}
		}
		for _, b := range bishops {
			if shogi.ChebyshevDistance(b, enemyKing) <= 3 {
				eg += 25
			}
		}
	}
	return TaperedScore{MG: mg, EG: eg}
}

// matingPatterns recognizes a handful of simple, cheap-to-detect endgame
// motifs: a back-rank-trapped enemy king with few escape squares, a
// rook/lance sharing a file with an edge-bound king (a "ladder" threat), and
// a bishop+rook both within striking distance of a cornered king.
func matingPatterns(pos *shogi.Position, c shogi.Color) TaperedScore {
	enemy := c.Other()
	ek := pos.KingSquare[enemy]
	if ek == shogi.NoSquare {
		return TaperedScore{}
	}
	var mg, eg int32

	backRank := 8
	if enemy == shogi.White {
		backRank = 0
	}
	if ek.Rank() == backRank {
		escapes := 0
		for df := -1; df <= 1; df++ {
			for dr := -1; dr <= 1; dr++ {
				f, r := ek.File()+df, ek.Rank()+dr
				if f < 0 || f > 8 || r < 0 || r > 8 || (df == 0 && dr == 0) {
					continue
				}
				if pos.Board[shogi.NewSquare(f, r)] == shogi.NoPiece {
					escapes++
				}
			}
		}
		if escapes <= 2 {
			eg += 60
		}
	}

	onEdge := ek.File() == 0 || ek.File() == 8
	nearCorner := shogi.ChebyshevDistance(ek, shogi.NewSquare(0, 0)) <= 2 ||
		shogi.ChebyshevDistance(ek, shogi.NewSquare(8, 0)) <= 2 ||
		shogi.ChebyshevDistance(ek, shogi.NewSquare(0, 8)) <= 2 ||
		shogi.ChebyshevDistance(ek, shogi.NewSquare(8, 8)) <= 2

	hasRookOrBishopNear := 0
	for sq := shogi.Square(0); sq < 81; sq++ {
		p := pos.Board[sq]
		if p == shogi.NoPiece || p.Color() != c {
			continue
		}
		switch p.Type().Demote() {
		case shogi.Rook, shogi.Lance:
			if onEdge && sq.File() == ek.File() {
				eg += 30
			}
		}
		if (p.Type().Demote() == shogi.Rook || p.Type().Demote() == shogi.Bishop) &&
			shogi.ChebyshevDistance(sq, ek) <= 3 {
			hasRookOrBishopNear++
		}
	}
	if nearCorner && hasRookOrBishopNear >= 2 {
		eg += 40
	}

	return TaperedScore{MG: mg, EG: eg}
}
