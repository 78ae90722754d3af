package engine

import "github.com/fgantt/shogi-engine/internal/shogi"

// FeatureFlags lets each of the five position-feature sub-components be
// switched on or off independently.
type FeatureFlags struct {
	KingSafety    bool
	PawnStructure bool
	Mobility      bool
	CenterControl bool
	Development   bool
}

func DefaultFeatureFlags() FeatureFlags {
	return FeatureFlags{true, true, true, true, true}
}

// FeatureEvaluator scores five tapered sub-components: king safety, pawn
// structure, mobility, center control, and development.
type FeatureEvaluator struct {
	Flags FeatureFlags
}

func NewFeatureEvaluator() *FeatureEvaluator {
	return &FeatureEvaluator{Flags: DefaultFeatureFlags()}
}

func (e *FeatureEvaluator) Evaluate(pos *shogi.Position, side shogi.Color) TaperedScore {
	var total TaperedScore
	if e.Flags.KingSafety {
		total = total.Add(kingSafety(pos, side)).Sub(kingSafety(pos, side.Other()))
	}
	if e.Flags.PawnStructure {
		total = total.Add(pawnStructure(pos, side)).Sub(pawnStructure(pos, side.Other()))
	}
	if e.Flags.Mobility {
		total = total.Add(mobility(pos, side)).Sub(mobility(pos, side.Other()))
	}
	if e.Flags.CenterControl {
		total = total.Add(centerControl(pos, side)).Sub(centerControl(pos, side.Other()))
	}
	if e.Flags.Development {
		total = total.Add(development(pos, side)).Sub(development(pos, side.Other()))
	}
	return total
}

// kingSafety sums piece-shield bonuses within the 3x3 box around the king,
// a pawn-cover bonus directly in front, and penalties per enemy attacker
// within 3 squares and per empty square in the box.
func kingSafety(pos *shogi.Position, c shogi.Color) TaperedScore {
	k := pos.KingSquare[c]
	if k == shogi.NoSquare {
		return TaperedScore{}
	}
	var mg, eg int32
	kf, kr := k.File(), k.Rank()
	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			if df == 0 && dr == 0 {
				continue
			}
			f, r := kf+df, kr+dr
			if f < 0 || f > 8 || r < 0 || r > 8 {
				continue
			}
			sq := shogi.NewSquare(f, r)
			p := pos.Board[sq]
			if p != shogi.NoPiece && p.Color() == c {
				mg += 8
				eg += 3
			} else if p == shogi.NoPiece {
				mg -= 4
				eg -= 1
			}
		}
	}
	f := forwardFor(c)
	shieldSq := shogi.NewSquare(kf, kr+f)
	if shieldSq.IsValid() {
		p := pos.Board[shieldSq]
		if p != shogi.NoPiece && p.Color() == c && (p.Type() == shogi.Pawn || p.Type() == shogi.Lance) {
			mg += 15
			eg += 5
		}
	}

	attackers := 0
	them := c.Other()
	for df := -3; df <= 3; df++ {
		for dr := -3; dr <= 3; dr++ {
			f, r := kf+df, kr+dr
			if f < 0 || f > 8 || r < 0 || r > 8 {
				continue
			}
			sq := shogi.NewSquare(f, r)
			p := pos.Board[sq]
			if p != shogi.NoPiece && p.Color() == them {
				if shogi.ChebyshevDistance(sq, k) <= 3 {
					attackers++
				}
			}
		}
	}
	mg -= int32(attackers) * 12
	eg -= int32(attackers) * 6

	return TaperedScore{MG: mg, EG: eg}
}

func forwardFor(c shogi.Color) int {
	if c == shogi.Black {
		return -1
	}
	return 1
}

// pawnStructure rewards pawn chains and advancement, and penalizes isolated
// or doubled pawns (larger penalty in eg); advancement bonus is linear in mg
// and quadratic for passed pawns (no enemy pawn blocking the file ahead) in
// eg.
func pawnStructure(pos *shogi.Position, c shogi.Color) TaperedScore {
	var mg, eg int32
	fileHasOwn := [9]bool{}
	fileHasEnemy := [9]bool{}

	for sq := shogi.Square(0); sq < 81; sq++ {
		p := pos.Board[sq]
		if p == shogi.NoPiece || p.Type() != shogi.Pawn {
			continue
		}
		if p.Color() == c {
			fileHasOwn[sq.File()] = true
		} else {
			fileHasEnemy[sq.File()] = true
		}
	}

	for sq := shogi.Square(0); sq < 81; sq++ {
		p := pos.Board[sq]
		if p == shogi.NoPiece || p.Type() != shogi.Pawn || p.Color() != c {
			continue
		}
		file := sq.File()
		adv := sq.RelativeRank(c) // 0 at own camp, 8 at far edge
		mg += int32(adv) * 2

		passed := !fileHasEnemy[file]
		if passed {
			eg += int32(adv*adv) / 4
		} else {
			eg += int32(adv)
		}

		isolated := true
		if file > 0 && fileHasOwn[file-1] {
			isolated = false
		}
		if file < 8 && fileHasOwn[file+1] {
			isolated = false
		}
		if isolated {
			mg -= 8
			eg -= 16
		}

		// Chain bonus: another own pawn diagonally behind.
		behind := sq.Rank() - forwardFor(c)
		for _, df := range []int{-1, 1} {
			f := file + df
			if f < 0 || f > 8 || behind < 0 || behind > 8 {
				continue
			}
			bsq := shogi.NewSquare(f, behind)
			bp := pos.Board[bsq]
			if bp != shogi.NoPiece && bp.Color() == c && bp.Type() == shogi.Pawn {
				mg += 6
				eg += 4
			}
		}
	}

	// Doubled pawns: more than one own pawn on the same file.
	for file := 0; file < 9; file++ {
		n := 0
		for rank := 0; rank < 9; rank++ {
			p := pos.Board[shogi.NewSquare(file, rank)]
			if p != shogi.NoPiece && p.Color() == c && p.Type() == shogi.Pawn {
				n++
			}
		}
		if n > 1 {
			mg -= int32(n-1) * 10
			eg -= int32(n-1) * 20
		}
	}

	return TaperedScore{MG: mg, EG: eg}
}

// mobility counts pseudo-legal destination squares and adds a flat per-move
// bonus plus an extra bonus for moves that attack/capture. Pseudo-legal
// (not check-filtered) counts are used so both sides' mobility can be
// measured without a side-switching null move.
func mobility(pos *shogi.Position, c shogi.Color) TaperedScore {
	quiet, captures := shogi.PseudoMobility(pos, c)
	mg := int32(quiet)*2 + int32(captures)*5
	eg := int32(quiet)*4 + int32(captures)*6
	return TaperedScore{MG: mg, EG: eg}
}

// centerControl rewards piece-type-specific occupation of the central 3x3
// box (full bonus) and the extended 5x5 center (half bonus).
func centerControl(pos *shogi.Position, c shogi.Color) TaperedScore {
	var mg, eg int32
	centerBonus := map[shogi.PieceType]int32{
		shogi.Pawn: 2, shogi.Silver: 6, shogi.Gold: 6,
		shogi.Bishop: 10, shogi.Rook: 10, shogi.Knight: 4, shogi.Lance: 2,
	}
	for sq := shogi.Square(0); sq < 81; sq++ {
		p := pos.Board[sq]
		if p == shogi.NoPiece || p.Color() != c {
			continue
		}
		bonus, ok := centerBonus[p.Type().Demote()]
		if !ok {
			continue
		}
		f, r := sq.File(), sq.Rank()
		if f >= 3 && f <= 5 && r >= 3 && r <= 5 {
			mg += bonus
			eg += bonus
		} else if f >= 2 && f <= 6 && r >= 2 && r <= 6 {
			mg += bonus / 2
			eg += bonus / 2
		}
	}
	return TaperedScore{MG: mg, EG: eg}
}

// development rewards major/minor pieces that have moved off their starting
// rank, weighted toward mg.
func development(pos *shogi.Position, c shogi.Color) TaperedScore {
	startRank := 8
	if c == shogi.White {
		startRank = 0
	}
	var mg, eg int32
	for sq := shogi.Square(0); sq < 81; sq++ {
		p := pos.Board[sq]
		if p == shogi.NoPiece || p.Color() != c {
			continue
		}
		switch p.Type() {
		case shogi.Silver, shogi.Knight, shogi.Bishop, shogi.Rook, shogi.Gold:
			if sq.Rank() != startRank {
				mg += 10
				eg += 2
			}
		}
	}
	return TaperedScore{MG: mg, EG: eg}
}
