package engine

import "github.com/fgantt/shogi-engine/internal/shogi"

// pstTable holds one (mg, eg) bonus grid per piece type, authored from
// Black's perspective; White's score is read via the square rotated 180
// degrees (Square.Mirror). King carries zero-valued entries (king safety is handled as a
// separate feature). 14 piece types x 81 squares x {mg, eg}.
type pstTable [14][81]TaperedScore

var pst pstTable

func init() {
	initPST()
}

// initPST derives each piece type's table from a small set of shape
// parameters (forward-advancement weight, center-affinity weight) rather
// than hand-authoring 14*81 literals. Default PST values are tuning
// artifacts, so a formula-derived default consistent with each piece's
// movement character is a reasonable starting point. The table is
// package-private and has no override API.
func initPST() {
	type shape struct {
		forwardMG, forwardEG float64 // bonus per rank advanced toward promotion
		centerMG, centerEG   float64 // bonus for file/rank centrality
	}
	shapes := map[shogi.PieceType]shape{
		shogi.Pawn:      {forwardMG: 1.5, forwardEG: 2.5, centerMG: 0.5, centerEG: 0.5},
		shogi.Lance:     {forwardMG: 1.0, forwardEG: 2.0, centerMG: 0.2, centerEG: 0.2},
		shogi.Knight:    {forwardMG: 1.2, forwardEG: 1.2, centerMG: 1.0, centerEG: 1.0},
		shogi.Silver:    {forwardMG: 2.0, forwardEG: 1.5, centerMG: 2.0, centerEG: 1.5},
		shogi.Gold:      {forwardMG: 1.5, forwardEG: 1.0, centerMG: 2.5, centerEG: 2.0},
		shogi.Bishop:    {forwardMG: 1.0, forwardEG: 1.0, centerMG: 3.5, centerEG: 3.0},
		shogi.Rook:      {forwardMG: 1.0, forwardEG: 1.5, centerMG: 3.0, centerEG: 3.0},
		shogi.King:      {},
		shogi.ProPawn:   {forwardMG: 0.5, forwardEG: 0.5, centerMG: 2.5, centerEG: 2.0},
		shogi.ProLance:  {forwardMG: 0.5, forwardEG: 0.5, centerMG: 2.5, centerEG: 2.0},
		shogi.ProKnight: {forwardMG: 0.5, forwardEG: 0.5, centerMG: 2.5, centerEG: 2.0},
		shogi.ProSilver: {forwardMG: 0.5, forwardEG: 0.5, centerMG: 2.5, centerEG: 2.0},
		shogi.Horse:     {forwardMG: 0.8, forwardEG: 0.8, centerMG: 4.0, centerEG: 4.0},
		shogi.Dragon:    {forwardMG: 0.8, forwardEG: 1.2, centerMG: 4.0, centerEG: 4.0},
	}

	for pt, sh := range shapes {
		for sq := shogi.Square(0); sq < 81; sq++ {
			file, rank := sq.File(), sq.Rank()
			// Black advances toward rank 0; rank 8 is its own camp.
			advance := float64(8 - rank)
			centerFile := 4.0 - absf(float64(file)-4.0)
			centerRank := 4.0 - absf(float64(rank)-4.0)
			centrality := centerFile + centerRank
			mg := sh.forwardMG*advance + sh.centerMG*centrality
			eg := sh.forwardEG*advance + sh.centerEG*centrality
			pst[pt][sq] = TaperedScore{MG: int32(mg), EG: int32(eg)}
		}
	}
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// PSTEvaluator does a per-occupied-square lookup against pstTable, with
// White's squares rotated 180 degrees.
type PSTEvaluator struct{}

func NewPSTEvaluator() *PSTEvaluator { return &PSTEvaluator{} }

func (e *PSTEvaluator) Evaluate(pos *shogi.Position, side shogi.Color) TaperedScore {
	var total TaperedScore
	for sq := shogi.Square(0); sq < 81; sq++ {
		piece := pos.Board[sq]
		if piece == shogi.NoPiece {
			continue
		}
		lookup := sq
		if piece.Color() == shogi.White {
			lookup = sq.Mirror()
		}
		v := pst[piece.Type()][lookup]
		if piece.Color() == side {
			total = total.Add(v)
		} else {
			total = total.Sub(v)
		}
	}
	return total
}
