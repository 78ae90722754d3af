package engine

import "github.com/fgantt/shogi-engine/internal/shogi"

// seeValue is the material value table SEE swaps against — plain piece
// values, independent of phase, since the exchange sequence itself doesn't
// interpolate.
var seeValue = [14]int32{
	100, 430, 450, 640, 690, 890, 1040, 15000,
	660, 640, 640, 670, 1150, 1300,
}

func pieceValue(pt shogi.PieceType) int32 {
	if pt >= shogi.NoPieceType {
		return 0
	}
	return seeValue[pt]
}

// SEE estimates the net material result, from the moving side's perspective,
// of the capture sequence starting with m, grounded in the reference
// engine's swap-algorithm implementation (eval.go). Drops never initiate an
// exchange that removes an existing attacker from the board the way a board
// move does, but they can still be the first "capture" in the sequence the
// same as any other move — what they never do is get swapped away
// themselves mid-sequence, since nothing already stands on their origin
// square.
func SEE(pos *shogi.Position, m shogi.Move) int32 {
	if !m.IsCapture() {
		return 0
	}
	gain := pieceValue(m.Captured)
	if m.Promote {
		gain += pieceValue(m.Piece.Promote()) - pieceValue(m.Piece)
	}

	scratch := pos.Copy()
	attackerType := m.Piece
	if m.Promote {
		attackerType = m.Piece.Promote()
	}
	us := pos.SideToMove

	if !m.IsDrop() {
		scratch.Board[m.From] = shogi.NoPiece
	}
	scratch.Board[m.To] = shogi.NewPiece(attackerType, us)

	return seeSwap(scratch, m.To, us.Other(), gain, pieceValue(attackerType))
}

// seeSwap simulates the alternating recapture sequence on `target`,
// returning the negamax-resolved final gain from the perspective of the side
// that just moved into `target`. occValue is the value of the piece
// currently standing on target — what the next recapture wins.
func seeSwap(pos *shogi.Position, target shogi.Square, side shogi.Color, initialGain, occValue int32) int32 {
	var gains [32]int32
	gains[0] = initialGain
	d := 0

	for {
		sq, attacker := leastValuableAttacker(pos, target, side)
		if sq == shogi.NoSquare {
			break
		}
		d++
		gains[d] = occValue - gains[d-1]
		if max32(-gains[d-1], gains[d]) < 0 {
			break
		}
		occValue = pieceValue(attacker.Type())
		pos.Board[sq] = shogi.NoPiece
		pos.Board[target] = attacker
		side = side.Other()
		if d >= len(gains)-1 {
			break
		}
	}

	for ; d > 0; d-- {
		gains[d-1] = -max32(-gains[d-1], gains[d])
	}
	return gains[0]
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// leastValuableAttacker scans for the cheapest piece of color `side` that
// currently attacks `target`, consulting the shared attacksFrom primitive
// indirectly via IsSquareAttacked-style enumeration; among attackers of
// equal value, the one on the lowest square index is chosen.
func leastValuableAttacker(pos *shogi.Position, target shogi.Square, side shogi.Color) (shogi.Square, shogi.Piece) {
	bestSq := shogi.NoSquare
	var bestPiece shogi.Piece
	bestVal := int32(1 << 30)

	for sq := shogi.Square(0); sq < 81; sq++ {
		p := pos.Board[sq]
		if p == shogi.NoPiece || p.Color() != side {
			continue
		}
		if !attacks(pos, sq, p, target) {
			continue
		}
		v := pieceValue(p.Type())
		if v < bestVal {
			bestVal = v
			bestSq = sq
			bestPiece = p
		}
	}
	return bestSq, bestPiece
}

// attacks reports whether the piece p standing on `from` attacks `target` on
// the current board, reusing the same step/slide rules as move generation.
func attacks(pos *shogi.Position, from shogi.Square, p shogi.Piece, target shogi.Square) bool {
	hit := false
	shogi.VisitAttacks(pos, from, p.Type(), p.Color(), func(to shogi.Square, blocked bool) {
		if to == target {
			hit = true
		}
	})
	return hit
}
