package engine

import "github.com/fgantt/shogi-engine/internal/shogi"

// OpeningEvaluator scores development, center control, castle formation,
// tempo, and opening-specific penalties. Gated by the caller on phase >= 192.
type OpeningEvaluator struct{}

func NewOpeningEvaluator() *OpeningEvaluator { return &OpeningEvaluator{} }

func (e *OpeningEvaluator) Evaluate(pos *shogi.Position, side shogi.Color, moveCount int) TaperedScore {
	var total TaperedScore
	total = total.Add(openingDevelopment(pos, side, moveCount)).Sub(openingDevelopment(pos, side.Other(), moveCount))
	total = total.Add(openingCenterControl(pos, side)).Sub(openingCenterControl(pos, side.Other()))
	total = total.Add(castleFormation(pos, side)).Sub(castleFormation(pos, side.Other()))
	total = total.Add(openingPenalties(pos, side, moveCount)).Sub(openingPenalties(pos, side.Other(), moveCount))

	if pos.SideToMove == side {
		total.MG += 10
	} else {
		total.MG -= 10
	}

	return total
}

func openingDevelopment(pos *shogi.Position, c shogi.Color, moveCount int) TaperedScore {
	startRank := 8
	if c == shogi.White {
		startRank = 0
	}
	developed := 0
	for sq := shogi.Square(0); sq < 81; sq++ {
		p := pos.Board[sq]
		if p == shogi.NoPiece || p.Color() != c {
			continue
		}
		switch p.Type() {
		case shogi.Silver, shogi.Knight, shogi.Bishop, shogi.Rook:
			if sq.Rank() != startRank {
				developed++
			}
		}
	}
	mg := int32(developed) * 12
	if moveCount < 10 {
		mg += int32(developed) * int32(10-moveCount)
	}
	return TaperedScore{MG: mg, EG: int32(developed) * 2}
}

func openingCenterControl(pos *shogi.Position, c shogi.Color) TaperedScore {
	bonus := map[shogi.PieceType]int32{
		shogi.Pawn: 3, shogi.Silver: 5, shogi.Gold: 4, shogi.Bishop: 8, shogi.Rook: 8,
	}
	var mg int32
	for sq := shogi.Square(0); sq < 81; sq++ {
		p := pos.Board[sq]
		if p == shogi.NoPiece || p.Color() != c {
			continue
		}
		b, ok := bonus[p.Type().Demote()]
		if !ok {
			continue
		}
		f, r := sq.File(), sq.Rank()
		if f >= 2 && f <= 6 && r >= 2 && r <= 6 {
			mg += b
		}
	}
	return TaperedScore{MG: mg, EG: 0}
}

// castleFormation rewards a king tucked into a corner sector with gold/
// silver pieces nearby and an intact pawn shield — the shogi analogue of a
// chess castle (e.g. the anaguma/yagura family of formations, recognized
// here only by shape, not by name).
func castleFormation(pos *shogi.Position, c shogi.Color) TaperedScore {
	k := pos.KingSquare[c]
	if k == shogi.NoSquare {
		return TaperedScore{}
	}
	backRank := 8
	if c == shogi.White {
		backRank = 0
	}
	var mg int32
	if shogi.ChebyshevDistance(k, shogi.NewSquare(0, backRank)) <= 2 ||
		shogi.ChebyshevDistance(k, shogi.NewSquare(8, backRank)) <= 2 {
		mg += 20
	}
	nearby := 0
	for df := -2; df <= 2; df++ {
		for dr := -2; dr <= 2; dr++ {
			f, r := k.File()+df, k.Rank()+dr
			if f < 0 || f > 8 || r < 0 || r > 8 {
				continue
			}
			p := pos.Board[shogi.NewSquare(f, r)]
			if p != shogi.NoPiece && p.Color() == c && (p.Type() == shogi.Gold || p.Type() == shogi.Silver) {
				nearby++
			}
		}
	}
	mg += int32(nearby) * 8

	f := forwardFor(c)
	shield := shogi.NewSquare(k.File(), k.Rank()+f)
	if shield.IsValid() {
		p := pos.Board[shield]
		if p != shogi.NoPiece && p.Color() == c && p.Type() == shogi.Pawn {
			mg += 10
		}
	}
	return TaperedScore{MG: mg, EG: 0}
}

// openingPenalties penalizes an undeveloped rook past move 8, an
// undeveloped bishop past move 6, and a king left out of its castle early.
func openingPenalties(pos *shogi.Position, c shogi.Color, moveCount int) TaperedScore {
	startRank := 8
	if c == shogi.White {
		startRank = 0
	}
	var mg int32
	for sq := shogi.Square(0); sq < 81; sq++ {
		p := pos.Board[sq]
		if p == shogi.NoPiece || p.Color() != c {
			continue
		}
		if sq.Rank() != startRank {
			continue
		}
		switch p.Type() {
		case shogi.Rook:
			if moveCount > 8 {
				mg -= 15
			}
		case shogi.Bishop:
			if moveCount > 6 {
				mg -= 12
			}
		}
	}
	k := pos.KingSquare[c]
	if k != shogi.NoSquare && k.Rank() == startRank && k.File() >= 3 && k.File() <= 5 && moveCount > 12 {
		mg -= 10
	}
	return TaperedScore{MG: mg, EG: 0}
}
