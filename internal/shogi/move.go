package shogi

import "fmt"

// Move represents either a board move (From valid) or a drop (From ==
// NoSquare, Piece gives the dropped type). Captured is filled in by the move
// generator and read by Position.MakeMove, move ordering and SEE; a Move
// built by hand must set it to NoPieceType for a non-capture. Moves are
// compared with ==, so Captured is part of move identity.
type Move struct {
	From     Square
	To       Square
	Piece    PieceType // moving piece's base type before promotion
	Promote  bool
	Captured PieceType // NoPieceType if none
}

// NoMove is the null/invalid move sentinel.
var NoMove = Move{From: NoSquare, To: NoSquare, Piece: NoPieceType, Captured: NoPieceType}

func (m Move) IsDrop() bool {
	return m.From == NoSquare
}

func (m Move) IsCapture() bool {
	return m.Captured != NoPieceType
}

func (m Move) IsPromotion() bool {
	return m.Promote
}

// IsQuiet reports whether this move is neither a capture nor a promotion;
// quiet moves are the only ones eligible for killer/history bookkeeping.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// String renders USI move notation: "7g7f", "8h2b+", or a drop "P*5e".
func (m Move) String() string {
	if m == NoMove {
		return "resign"
	}
	if m.IsDrop() {
		return fmt.Sprintf("%s*%s", m.Piece.String(), m.To.String())
	}
	s := m.From.String() + m.To.String()
	if m.Promote {
		s += "+"
	}
	return s
}

// MoveList is a fixed-capacity move buffer to avoid per-node allocation in
// move generation and ordering.
type MoveList struct {
	moves [600]Move // Shogi branching factor is higher than chess; generous cap
	count int
}

func (ml *MoveList) Add(m Move) {
	if ml.count >= len(ml.moves) {
		return
	}
	ml.moves[ml.count] = m
	ml.count++
}

func (ml *MoveList) Len() int           { return ml.count }
func (ml *MoveList) Get(i int) Move     { return ml.moves[i] }
func (ml *MoveList) Set(i int, m Move)  { ml.moves[i] = m }
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}
func (ml *MoveList) Clear() { ml.count = 0 }

func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo captures everything MakeMove mutates so UnmakeMove can restore the
// position byte-for-byte.
type UndoInfo struct {
	Captured  Piece
	Hash      uint64
	FromPiece Piece // piece that was on From before moving (pre-promotion form)
}
