package engine

import "github.com/fgantt/shogi-engine/internal/shogi"

// quiescence extends the search along capture/promotion lines only, to
// avoid the horizon effect at the leaves of the main search. Generalized to
// Shogi's drop-free capture set (drops cannot capture) and promotion-bonus
// accounting. qdepth counts plies past the main search frontier; the
// capture/promotion-only move set terminates on its own, the cap is a
// safety net.
func (s *SearchInstance) quiescence(ply, qdepth int, alpha, beta int32) int32 {
	const maxQuiescencePly = 32
	if ply >= MaxPly || qdepth > maxQuiescencePly {
		return s.eval.Evaluate(s.pos, s.pos.SideToMove)
	}

	if s.stopped() {
		return 0
	}
	s.nodes++
	s.stats.recordQNode()

	standPat := s.eval.Evaluate(s.pos, s.pos.SideToMove)

	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	const bigDelta = int32(1300) // a dragon's value, the largest single capture swing
	if standPat+bigDelta < alpha {
		return alpha
	}

	moves := shogi.GenerateCapturesAndChecks(s.pos)
	scores := s.orderer.ScoreMoves(s.pos, moves, ply, shogi.NoMove)

	inCheck := shogi.IsInCheck(s.pos, s.pos.SideToMove)

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		if !inCheck && move.IsCapture() {
			captureValue := pieceValue(move.Captured)
			if move.Promote {
				captureValue += pieceValue(move.Piece.Promote()) - pieceValue(move.Piece)
			}
			if standPat+captureValue+200 < alpha {
				continue
			}
			if SEE(s.pos, move) < 0 {
				continue
			}
		}

		undo := s.pos.MakeMove(move)
		s.history.Push(s.pos.Hash)
		score := -s.quiescence(ply+1, qdepth+1, -beta, -alpha)
		s.history.Pop()
		s.pos.UnmakeMove(move, undo)

		if s.stopFlag {
			return 0
		}

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
