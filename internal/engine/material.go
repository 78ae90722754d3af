package engine

import "github.com/fgantt/shogi-engine/internal/shogi"

// boardPieceValue gives tapered (mg, eg) values for a piece sitting on the
// board, indexed by shogi.PieceType. Promoted pieces have their own entries
// rather than being derived from their base type. Values are tuning
// artifacts; these are a plausible default fixed at construction, which
// SetBoardValue and SetHandValue can override at runtime.
var boardPieceValue = [14]TaperedScore{
	shogi.Pawn:      {90, 100},
	shogi.Lance:     {300, 320},
	shogi.Knight:    {320, 330},
	shogi.Silver:    {500, 480},
	shogi.Gold:      {540, 540},
	shogi.Bishop:    {800, 820},
	shogi.Rook:      {950, 980},
	shogi.King:      {0, 0},
	shogi.ProPawn:   {550, 550},
	shogi.ProLance:  {530, 530},
	shogi.ProKnight: {530, 530},
	shogi.ProSilver: {540, 540},
	shogi.Horse:     {1020, 1050},
	shogi.Dragon:    {1150, 1200},
}

// handPieceValue gives the premium tapered value of holding a droppable
// piece type in hand (drop flexibility is worth more than the same piece
// pinned to a square), indexed by shogi.HandIndex.
var handPieceValue = [7]TaperedScore{
	0: {100, 110}, // Pawn
	1: {330, 350}, // Lance
	2: {350, 360}, // Knight
	3: {550, 530}, // Silver
	4: {590, 590}, // Gold
	5: {880, 900}, // Bishop
	6: {1050, 1080}, // Rook
}

// MaterialEvaluator scores tapered piece values on-board and in-hand, fixed
// at construction from a tuned default, overridable at runtime.
type MaterialEvaluator struct {
	boardValue [14]TaperedScore
	handValue  [7]TaperedScore
}

func NewMaterialEvaluator() *MaterialEvaluator {
	m := &MaterialEvaluator{}
	m.boardValue = boardPieceValue
	m.handValue = handPieceValue
	return m
}

// SetBoardValue overrides a single board piece type's tapered value.
func (m *MaterialEvaluator) SetBoardValue(pt shogi.PieceType, v TaperedScore) {
	m.boardValue[pt] = v
}

// SetHandValue overrides a single hand piece type's tapered value.
func (m *MaterialEvaluator) SetHandValue(pt shogi.PieceType, v TaperedScore) {
	if hi := shogi.HandIndex(pt); hi >= 0 {
		m.handValue[hi] = v
	}
}

// Evaluate computes eval_material(board, side, hand) → TaperedScore: for
// each piece type, on-board and in-hand counts for both sides are summed,
// multiplied by tapered value, and the opponent's contribution is negated
// so the result is from side's perspective.
func (m *MaterialEvaluator) Evaluate(pos *shogi.Position, side shogi.Color) TaperedScore {
	counts := pos.PieceCounts()
	opp := side.Other()

	var total TaperedScore
	for pt := shogi.PieceType(0); pt < 14; pt++ {
		v := m.boardValue[pt]
		total = total.Add(v.MulInt(counts[side][pt]))
		total = total.Sub(v.MulInt(counts[opp][pt]))
	}

	for _, pt := range shogi.HandPieceTypes {
		hi := shogi.HandIndex(pt)
		v := m.handValue[hi]
		total = total.Add(v.MulInt(pos.HandCount(side, pt)))
		total = total.Sub(v.MulInt(pos.HandCount(opp, pt)))
	}

	return total
}
