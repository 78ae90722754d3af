package shogi

import "testing"

func TestMoveStringBoardMove(t *testing.T) {
	m := Move{From: NewSquare(2, 6), To: NewSquare(2, 5), Piece: Pawn}
	if got, want := m.String(), "7g7f"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMoveStringPromotion(t *testing.T) {
	m := Move{From: NewSquare(1, 1), To: NewSquare(7, 7), Piece: Bishop, Promote: true}
	if got, want := m.String(), "8b2h+"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMoveStringDrop(t *testing.T) {
	m := Move{From: NoSquare, To: NewSquare(4, 4), Piece: Pawn}
	if got, want := m.String(), "P*5e"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMoveStringNoMove(t *testing.T) {
	if got, want := NoMove.String(), "resign"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMovePredicates(t *testing.T) {
	drop := Move{From: NoSquare, To: NewSquare(4, 4), Piece: Pawn, Captured: NoPieceType}
	if !drop.IsDrop() {
		t.Error("drop move should report IsDrop")
	}
	if !drop.IsQuiet() {
		t.Error("a drop onto an empty square is quiet")
	}

	capture := Move{From: NewSquare(0, 0), To: NewSquare(1, 1), Piece: Rook, Captured: Pawn}
	if !capture.IsCapture() || capture.IsQuiet() {
		t.Error("capture move should report IsCapture and not IsQuiet")
	}

	promo := Move{From: NewSquare(0, 0), To: NewSquare(1, 1), Piece: Pawn, Promote: true}
	if !promo.IsPromotion() || promo.IsQuiet() {
		t.Error("promotion move should report IsPromotion and not IsQuiet")
	}
}

func TestMoveListAddGetLen(t *testing.T) {
	var ml MoveList
	m1 := Move{From: NewSquare(0, 0), To: NewSquare(0, 1), Piece: Lance}
	m2 := Move{From: NewSquare(1, 0), To: NewSquare(1, 1), Piece: Knight}

	ml.Add(m1)
	ml.Add(m2)

	if ml.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ml.Len())
	}
	if ml.Get(0) != m1 || ml.Get(1) != m2 {
		t.Error("Get() did not return moves in insertion order")
	}
	if !ml.Contains(m1) || !ml.Contains(m2) {
		t.Error("Contains() should find both added moves")
	}

	ml.Clear()
	if ml.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", ml.Len())
	}
}

func TestMoveListSwap(t *testing.T) {
	var ml MoveList
	m1 := Move{From: NewSquare(0, 0), To: NewSquare(0, 1), Piece: Lance}
	m2 := Move{From: NewSquare(1, 0), To: NewSquare(1, 1), Piece: Knight}
	ml.Add(m1)
	ml.Add(m2)

	ml.Swap(0, 1)
	if ml.Get(0) != m2 || ml.Get(1) != m1 {
		t.Error("Swap() did not exchange the two entries")
	}
}
