package shogi

import "fmt"

// Position represents a complete Shogi position: the 9x9 board, each side's
// hand, side to move, and an incrementally maintained Zobrist hash.
type Position struct {
	Board [81]Piece
	Hand  [2][7]int8 // indexed by HandIndex(pieceType)

	SideToMove Color
	Hash       uint64
	Ply        int

	KingSquare [2]Square
}

// NewPosition returns the standard Shogi starting position.
func NewPosition() *Position {
	p := &Position{}
	p.Clear()

	place := func(pt PieceType, c Color, files ...int) {
		rank := 0
		if c == Black {
			rank = 8
		}
		for _, f := range files {
			p.setPiece(NewPiece(pt, c), NewSquare(f, rank))
		}
	}
	// Back rank.
	place(Lance, White, 0, 8)
	place(Knight, White, 1, 7)
	place(Silver, White, 2, 6)
	place(Gold, White, 3, 5)
	place(King, White, 4)
	place(Lance, Black, 0, 8)
	place(Knight, Black, 1, 7)
	place(Silver, Black, 2, 6)
	place(Gold, Black, 3, 5)
	place(King, Black, 4)

	p.setPiece(NewPiece(Rook, White), NewSquare(1, 1))
	p.setPiece(NewPiece(Bishop, White), NewSquare(7, 1))
	p.setPiece(NewPiece(Bishop, Black), NewSquare(1, 7))
	p.setPiece(NewPiece(Rook, Black), NewSquare(7, 7))

	for f := 0; f < 9; f++ {
		p.setPiece(NewPiece(Pawn, White), NewSquare(f, 2))
		p.setPiece(NewPiece(Pawn, Black), NewSquare(f, 6))
	}

	p.SideToMove = Black
	p.Hash = p.computeHash()
	return p
}

// Clear resets the position to an empty board with no hand pieces.
func (p *Position) Clear() {
	*p = Position{}
	for i := range p.Board {
		p.Board[i] = NoPiece
	}
	p.KingSquare[Black] = NoSquare
	p.KingSquare[White] = NoSquare
}

// Copy returns a deep copy (Position has no pointer/slice fields so a value
// copy already suffices).
func (p *Position) Copy() *Position {
	np := *p
	return &np
}

func (p *Position) PieceAt(sq Square) Piece {
	return p.Board[sq]
}

func (p *Position) IsEmpty(sq Square) bool {
	return p.Board[sq] == NoPiece
}

func (p *Position) HandCount(c Color, pt PieceType) int {
	hi := HandIndex(pt)
	if hi < 0 {
		return 0
	}
	return int(p.Hand[c][hi])
}

func (p *Position) setPiece(piece Piece, sq Square) {
	p.Board[sq] = piece
	if piece.Type() == King {
		p.KingSquare[piece.Color()] = sq
	}
}

func (p *Position) computeHash() uint64 {
	var h uint64
	for sq := Square(0); sq < 81; sq++ {
		piece := p.Board[sq]
		if piece != NoPiece {
			h ^= ZobristPiece(piece.Color(), piece.Type(), sq)
		}
	}
	for c := Black; c <= White; c++ {
		for hi := 0; hi < 7; hi++ {
			h ^= ZobristHand(c, hi, int(p.Hand[c][hi]))
		}
	}
	if p.SideToMove == White {
		h ^= ZobristSideToMove()
	}
	return h
}

// PieceCounts returns per-color, per-type on-board piece counts, used by the
// phase calculator's material fingerprint.
func (p *Position) PieceCounts() [2][14]int {
	var counts [2][14]int
	for sq := Square(0); sq < 81; sq++ {
		piece := p.Board[sq]
		if piece != NoPiece {
			counts[piece.Color()][piece.Type()]++
		}
	}
	return counts
}

// MakeMove applies m and returns the information needed to undo it. The
// caller must pass the same Move value to UnmakeMove.
func (p *Position) MakeMove(m Move) UndoInfo {
	us := p.SideToMove
	undo := UndoInfo{Hash: p.Hash}

	if m.IsDrop() {
		hi := HandIndex(m.Piece)
		oldCount := int(p.Hand[us][hi])
		p.Hash ^= ZobristHand(us, hi, oldCount)
		p.Hand[us][hi]--
		p.Hash ^= ZobristHand(us, hi, oldCount-1)

		piece := NewPiece(m.Piece, us)
		p.setPiece(piece, m.To)
		p.Hash ^= ZobristPiece(us, m.Piece, m.To)
	} else {
		moving := p.Board[m.From]
		undo.FromPiece = moving
		undo.Captured = NoPiece
		p.Hash ^= ZobristPiece(us, moving.Type(), m.From)
		p.Board[m.From] = NoPiece

		if m.Captured != NoPieceType {
			capturedPiece := p.Board[m.To]
			undo.Captured = capturedPiece
			p.Hash ^= ZobristPiece(them(us), m.Captured, m.To)

			base := m.Captured.Demote()
			hi := HandIndex(base)
			oldCount := int(p.Hand[us][hi])
			p.Hash ^= ZobristHand(us, hi, oldCount)
			p.Hand[us][hi]++
			p.Hash ^= ZobristHand(us, hi, oldCount+1)
		}

		finalType := m.Piece
		if m.Promote {
			finalType = m.Piece.Promote()
		}
		newPiece := NewPiece(finalType, us)
		p.setPiece(newPiece, m.To)
		p.Hash ^= ZobristPiece(us, finalType, m.To)
	}

	p.SideToMove = them(us)
	p.Hash ^= ZobristSideToMove()
	p.Ply++

	return undo
}

// UnmakeMove reverses a previously applied move; m and undo must be the
// exact pair returned by/passed to the matching MakeMove call.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	p.SideToMove = them(p.SideToMove)
	us := p.SideToMove
	p.Ply--

	if m.IsDrop() {
		p.Board[m.To] = NoPiece
		hi := HandIndex(m.Piece)
		p.Hand[us][hi]++
	} else {
		p.Board[m.To] = undo.Captured
		if undo.Captured != NoPiece {
			base := m.Captured.Demote()
			hi := HandIndex(base)
			p.Hand[us][hi]--
		}
		p.setPiece(undo.FromPiece, m.From)
	}

	p.Hash = undo.Hash
}

func them(c Color) Color { return c.Other() }

// MakeNullMove passes the turn without moving a piece, used by null-move
// pruning. Returns the hash to restore on UnmakeNullMove.
func (p *Position) MakeNullMove() uint64 {
	prevHash := p.Hash
	p.SideToMove = them(p.SideToMove)
	p.Hash ^= ZobristSideToMove()
	p.Ply++
	return prevHash
}

func (p *Position) UnmakeNullMove(prevHash uint64) {
	p.SideToMove = them(p.SideToMove)
	p.Ply--
	p.Hash = prevHash
}

// HasNonPawnMaterial reports whether color c holds any piece other than
// pawns/tokin on the board or in hand — null-move pruning is unsound in
// pawn-only endgames (zugzwang risk).
func (p *Position) HasNonPawnMaterial(c Color) bool {
	for sq := Square(0); sq < 81; sq++ {
		piece := p.Board[sq]
		if piece == NoPiece || piece.Color() != c {
			continue
		}
		pt := piece.Type().Demote()
		if pt != Pawn && pt != King {
			return true
		}
	}
	for _, pt := range HandPieceTypes {
		if pt == Pawn {
			continue
		}
		if p.Hand[c][HandIndex(pt)] > 0 {
			return true
		}
	}
	return false
}

func (p *Position) String() string {
	s := "\n"
	for rank := 0; rank < 9; rank++ {
		for file := 0; file < 9; file++ {
			piece := p.Board[NewSquare(file, rank)]
			s += fmt.Sprintf("%3s", piece.String())
		}
		s += "\n"
	}
	s += fmt.Sprintf("side to move: %s  hash: %016x\n", p.SideToMove, p.Hash)
	return s
}
