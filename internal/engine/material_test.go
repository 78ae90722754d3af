package engine

import (
	"testing"

	"github.com/fgantt/shogi-engine/internal/shogi"
)

func TestMaterialEvaluateStartingPositionIsBalanced(t *testing.T) {
	m := NewMaterialEvaluator()
	pos := shogi.NewPosition()

	black := m.Evaluate(pos, shogi.Black)
	white := m.Evaluate(pos, shogi.White)

	if black != (TaperedScore{}) {
		t.Errorf("starting position material for Black = %+v, want zero", black)
	}
	if white != (TaperedScore{}) {
		t.Errorf("starting position material for White = %+v, want zero", white)
	}
}

func TestMaterialEvaluateIsAntisymmetric(t *testing.T) {
	m := NewMaterialEvaluator()
	pos, err := shogi.ParseSFEN("4k4/9/9/9/9/9/4R4/9/4K4 b - 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}

	black := m.Evaluate(pos, shogi.Black)
	white := m.Evaluate(pos, shogi.White)

	if black.MG != -white.MG || black.EG != -white.EG {
		t.Errorf("material should be antisymmetric between sides: black=%+v white=%+v", black, white)
	}
	if black.MG <= 0 {
		t.Error("Black, up a rook, should have positive material")
	}
}

func TestMaterialSetBoardValueOverride(t *testing.T) {
	m := NewMaterialEvaluator()
	m.SetBoardValue(shogi.Rook, TaperedScore{MG: 1, EG: 1})

	pos, err := shogi.ParseSFEN("4k4/9/9/9/9/9/4R4/9/4K4 b - 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}
	if got := m.Evaluate(pos, shogi.Black); got.MG != 1 {
		t.Errorf("overridden rook value not reflected in evaluation, got %+v", got)
	}
}

func TestMaterialHandPieceCountsContribute(t *testing.T) {
	m := NewMaterialEvaluator()
	pos := shogi.NewPosition()
	pos.Hand[shogi.Black][shogi.HandIndex(shogi.Rook)] = 1

	got := m.Evaluate(pos, shogi.Black)
	if got.MG <= 0 {
		t.Errorf("a spare rook in hand should make material positive, got %+v", got)
	}
}
