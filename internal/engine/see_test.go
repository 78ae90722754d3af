package engine

import (
	"testing"

	"github.com/fgantt/shogi-engine/internal/shogi"
)

func TestSEENonCaptureIsZero(t *testing.T) {
	pos := shogi.NewPosition()
	m := shogi.Move{From: shogi.NewSquare(2, 6), To: shogi.NewSquare(2, 5), Piece: shogi.Pawn, Captured: shogi.NoPieceType}
	if got := SEE(pos, m); got != 0 {
		t.Errorf("SEE of a non-capture = %d, want 0", got)
	}
}

func TestSEEFreePawnCaptureIsPositive(t *testing.T) {
	// A Black pawn takes an undefended White pawn; a clean material gain.
	pos, err := shogi.ParseSFEN("4k4/9/9/9/4p4/4P4/9/9/4K4 b - 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}
	m := shogi.Move{From: shogi.NewSquare(4, 5), To: shogi.NewSquare(4, 4), Piece: shogi.Pawn, Captured: shogi.Pawn}
	if got := SEE(pos, m); got <= 0 {
		t.Errorf("SEE of an undefended pawn capture = %d, want positive", got)
	}
}

func TestSEELosingCaptureIsNegative(t *testing.T) {
	// A Black rook grabs a White pawn defended by another White pawn; the
	// pawn recaptures the rook, so the exchange loses rook-for-pawn.
	pos, err := shogi.ParseSFEN("4k4/9/9/4p4/4p4/9/9/9/4RK3 b - 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}
	m := shogi.Move{From: shogi.NewSquare(4, 8), To: shogi.NewSquare(4, 4), Piece: shogi.Rook, Captured: shogi.Pawn}
	if got := SEE(pos, m); got >= 0 {
		t.Errorf("SEE of rook takes defended pawn = %d, want negative (rook recaptured by pawn)", got)
	}
}

func TestSEEEvenExchangeIsZero(t *testing.T) {
	// Pawn takes pawn, rook recaptures pawn: a dead-even trade.
	pos, err := shogi.ParseSFEN("4k4/9/9/4r4/4p4/4P4/9/9/4K4 b - 1")
	if err != nil {
		t.Fatalf("ParseSFEN: %v", err)
	}
	m := shogi.Move{From: shogi.NewSquare(4, 5), To: shogi.NewSquare(4, 4), Piece: shogi.Pawn, Captured: shogi.Pawn}
	if got := SEE(pos, m); got != 0 {
		t.Errorf("SEE of pawn-for-pawn with a rook recapture = %d, want 0", got)
	}
}

func TestPieceValueOrdering(t *testing.T) {
	if pieceValue(shogi.Pawn) >= pieceValue(shogi.Rook) {
		t.Error("pawn should be worth less than a rook")
	}
	if pieceValue(shogi.King) <= pieceValue(shogi.Rook) {
		t.Error("king should be worth more than any other piece for SEE purposes")
	}
}
