package engine

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/fgantt/shogi-engine/internal/shogi"
)

// nodeCheckMask bounds how often the search polls the external stop flag and
// the wall clock: a cheap flag read at every recursion, a real check only
// every 4096 nodes in deep subtrees.
const nodeCheckMask = 4095

// SearchInstance owns everything a single search thread mutates: the
// evaluator, transposition table, move orderer (killers/history), repetition
// history, and optional stats. It is created once per engine thread, reset
// on "new game", and never shared across threads: parallel search means
// one SearchInstance per worker, not shared mutable state.
type SearchInstance struct {
	pos     *shogi.Position
	eval    *IntegratedEvaluator
	tt      *TranspositionTable
	orderer *MoveOrderer
	history *GameHistory

	nodes    uint64
	seldepth int

	// stopFlag is the cheap, locally cached view of extStop, refreshed only
	// every nodeCheckMask+1 nodes by stopped(). Every recursion can branch on
	// it directly without touching the atomic.
	stopFlag     bool
	extStop      *atomic.Bool
	deadline     time.Time
	hasTimeLimit bool

	contempt int32 // score returned on a detected repetition; 0 by default

	stats *SearchStats
}

// NewSearchInstance wires a fresh search instance around a shared evaluator
// and transposition table. orderer and history are private per-instance
// state that a parallel worker must never share with another instance.
func NewSearchInstance(eval *IntegratedEvaluator, tt *TranspositionTable) *SearchInstance {
	return &SearchInstance{
		eval:    eval,
		tt:      tt,
		orderer: NewMoveOrderer(),
		history: NewGameHistory(),
		stats:   &SearchStats{},
	}
}

// NewGame resets all per-game state: TT age, caches, killers/history, and
// repetition history.
func (s *SearchInstance) NewGame() {
	s.tt.Clear()
	s.eval.Reset()
	if s.eval.Correction != nil {
		s.eval.Correction.Clear()
	}
	s.orderer.Clear()
	s.history.Reset()
	s.stats.Reset()
}

// prepare attaches the instance to a position and external stop flag ahead
// of a root search; must be called before Negamax.
func (s *SearchInstance) prepare(pos *shogi.Position, extStop *atomic.Bool, deadline time.Time, hasDeadline bool) {
	s.pos = pos
	s.extStop = extStop
	s.deadline = deadline
	s.hasTimeLimit = hasDeadline
	s.stopFlag = false
	s.nodes = 0
	s.seldepth = 0
}

// stopped is the one expensive check, throttled to every nodeCheckMask+1
// nodes; everywhere else the search reads the cached s.stopFlag directly.
func (s *SearchInstance) stopped() bool {
	if s.stopFlag {
		return true
	}
	if s.nodes&nodeCheckMask != 0 {
		return false
	}
	if s.extStop != nil && s.extStop.Load() {
		s.stopFlag = true
		return true
	}
	if s.hasTimeLimit && time.Now().After(s.deadline) {
		s.stopFlag = true
		return true
	}
	return false
}

// lmrReduction computes R = floor(log(depth) * log(i) / 2), clamped to
// [1, depth-2]. A lookup-table alternative is left to a future tuning pass.
func lmrReduction(depth, i int) int {
	r := int(math.Log(float64(depth)) * math.Log(float64(i)) / 2)
	maxR := depth - 2
	if maxR < 1 {
		maxR = 1
	}
	if r < 1 {
		r = 1
	}
	if r > maxR {
		r = maxR
	}
	return r
}

// Negamax runs the per-node search state machine: stop check, repetition,
// mate-distance pruning, TT probe, quiescence at the frontier, null-move
// pruning, internal iterative deepening, move ordering, and the per-move
// loop with check extensions, late move reductions, and re-searches.
// Returns a score in [-MateScore, MateScore]; ply is the
// distance from the search root, depth the remaining plies to search,
// allowNull whether a null move is permitted at this node (disabled for one
// ply after a null move, and always at the root).
func (s *SearchInstance) Negamax(depth int, alpha, beta int32, ply int, allowNull bool) int32 {
	if s.stopped() {
		return 0
	}
	if ply >= MaxPly {
		return s.eval.Evaluate(s.pos, s.pos.SideToMove)
	}
	s.nodes++
	s.stats.recordNode()
	if ply > s.seldepth {
		s.seldepth = ply
	}

	// Repetition: the current hash was already pushed by the caller's
	// MakeMove, so >=4 total occurrences means >=3 prior.
	if ply > 0 && s.history.IsRepetition(s.pos.Hash) {
		return s.contempt
	}

	// Mate distance pruning (step 3): a mate found closer to the root than
	// the current ply can't be beaten, and vice versa.
	if ply > 0 {
		if a := -MateScore + int32(ply); a > alpha {
			alpha = a
		}
		if b := MateScore - int32(ply); b < beta {
			beta = b
		}
		if alpha >= beta {
			return alpha
		}
	}

	// Transposition probe (step 4).
	var ttMove shogi.Move
	if entry, found := s.tt.Probe(s.pos.Hash); found {
		s.stats.recordTTProbe(true)
		ttMove = entry.BestMove
		if int(entry.Depth) >= depth {
			score := AdjustScoreFromTT(int32(entry.Score), ply)
			switch entry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score > alpha {
					alpha = score
				}
			case TTUpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	} else {
		s.stats.recordTTProbe(false)
	}

	// Terminal: drop to quiescence at the search frontier (step 5).
	if depth <= 0 {
		return s.quiescence(ply, 0, alpha, beta)
	}

	inCheck := shogi.IsInCheck(s.pos, s.pos.SideToMove)

	// Null-move pruning (step 6): give the opponent a free move and see if
	// they still fail to catch up; unsound in check or in pawn-only
	// material (zugzwang risk).
	if allowNull && !inCheck && ply > 0 && depth >= 3 && s.pos.HasNonPawnMaterial(s.pos.SideToMove) {
		R := 2
		if depth >= 6 {
			R = 3
		}
		s.stats.recordNullMoveTry()
		prevHash := s.pos.MakeNullMove()
		nullScore := -s.Negamax(depth-1-R, -beta, -beta+1, ply+1, false)
		s.pos.UnmakeNullMove(prevHash)

		if s.stopFlag {
			return 0
		}
		if nullScore >= beta {
			// Verification re-search near mate scores: a null-move cutoff
			// that claims a near-mate advantage is re-checked with a real
			// move before being trusted, since zugzwang-immune positions
			// can otherwise manufacture phantom mates.
			if beta >= MateThreshold {
				verify := s.Negamax(depth-R, alpha, beta, ply, false)
				if verify >= beta {
					s.stats.recordNullMoveCut()
					return beta
				}
			} else {
				s.stats.recordNullMoveCut()
				return beta
			}
		}
	}

	// Internal iterative deepening (step 7): seed a hash move when none is
	// known and the remaining depth is deep enough to make the shallow
	// search worthwhile.
	if ttMove == shogi.NoMove && depth >= 4 {
		s.Negamax(depth-2, alpha, beta, ply, allowNull)
		if s.stopFlag {
			return 0
		}
		if entry, found := s.tt.Probe(s.pos.Hash); found {
			ttMove = entry.BestMove
		}
	}

	// Move generation + ordering (step 8).
	moves := shogi.GenerateLegalMoves(s.pos)
	if moves.Len() == 0 {
		// Shogi has no reachable stalemate in legal play: a side with no
		// legal move is always in checkmate, so there's no separate
		// stalemate branch to handle here.
		return -MateScore + int32(ply)
	}
	scores := s.orderer.ScoreMoves(s.pos, moves, ply, ttMove)

	bestScore := int32(-MateScore - 1)
	bestMove := shogi.NoMove
	flag := TTUpperBound

	killer1, killer2 := s.orderer.killers[ply][0], s.orderer.killers[ply][1]

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		isCapture := move.IsCapture()
		isPromotion := move.IsPromotion()
		isKiller := move == killer1 || move == killer2
		isTTMove := move == ttMove

		undo := s.pos.MakeMove(move)
		s.history.Push(s.pos.Hash)

		givesCheck := shogi.IsInCheck(s.pos, s.pos.SideToMove)
		extension := 0
		if givesCheck {
			// Check extension (step 9): search the full nominal depth
			// rather than depth-1.
			extension = 1
		}
		newDepth := depth - 1 + extension

		var score int32
		switch {
		case i == 0:
			score = -s.Negamax(newDepth, -beta, -alpha, ply+1, true)
		default:
			reduced := false
			if i >= 4 && depth >= 3 && !isCapture && !isPromotion && !givesCheck &&
				!isKiller && !isTTMove && !inCheck {
				s.stats.recordLMRTry()
				r := lmrReduction(depth, i)
				rd := newDepth - r
				if rd < 1 {
					rd = 1
				}
				score = -s.Negamax(rd, -(alpha + 1), -alpha, ply+1, true)
				if score > alpha {
					s.stats.recordLMRResearch()
				} else {
					reduced = true
				}
			}
			if !reduced {
				score = -s.Negamax(newDepth, -(alpha + 1), -alpha, ply+1, true)
				if score > alpha && score < beta {
					// PV search (step 9): the zero-window probe exceeded
					// alpha, so re-search with the full window.
					score = -s.Negamax(newDepth, -beta, -alpha, ply+1, true)
				}
			}
		}

		s.history.Pop()
		s.pos.UnmakeMove(move, undo)

		if s.stopFlag {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			flag = TTExact
		}

		if alpha >= beta {
			s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(score, ply), TTLowerBound, move)
			if move.IsQuiet() {
				s.orderer.UpdateKillers(move, ply)
				s.orderer.UpdateHistory(move, depth, true)
				for j := 0; j < i; j++ {
					prior := moves.Get(j)
					if prior.IsQuiet() {
						s.orderer.UpdateHistory(prior, depth, false)
					}
				}
			} else {
				s.orderer.UpdateCaptureHistory(move.Piece, move.To, move.Captured, depth, true)
			}
			s.stats.recordBetaCutoff(i == 0)
			return beta
		}
	}

	// TT store (step 11): Exact if alpha improved over the window we
	// entered with, UpperBound if every move failed low.
	s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)

	// Feed the search-vs-static error back into the correction table; only
	// exact, non-mate scores at quiet nodes say anything about the static
	// eval's accuracy.
	if s.eval.Correction != nil && !inCheck && flag == TTExact &&
		bestScore > -MateThreshold && bestScore < MateThreshold {
		static := s.eval.Evaluate(s.pos, s.pos.SideToMove)
		s.eval.Correction.Observe(s.pos, bestScore, static, depth)
	}

	return bestScore
}
