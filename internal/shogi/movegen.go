package shogi

// forward returns the rank delta a pawn/lance/knight/silver/gold of color c
// considers "forward". Black advances toward rank 0; White toward rank 8.
func forward(c Color) int {
	if c == Black {
		return -1
	}
	return 1
}

type offset struct{ df, dr int }

// stepOffsets returns the fixed move offsets for non-sliding piece types.
// Sliding types (Lance, Bishop, Rook, Horse, Dragon) are handled by
// slideDirs/slideDirsFor instead, except Horse/Dragon's extra single-step
// directions which are appended here.
func stepOffsets(pt PieceType, c Color) []offset {
	f := forward(c)
	switch pt {
	case King:
		return []offset{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
	case Gold, ProPawn, ProLance, ProKnight, ProSilver:
		return []offset{{0, f}, {-1, f}, {1, f}, {-1, 0}, {1, 0}, {0, -f}}
	case Silver:
		return []offset{{0, f}, {-1, f}, {1, f}, {-1, -f}, {1, -f}}
	case Knight:
		return []offset{{-1, 2 * f}, {1, 2 * f}}
	case Pawn:
		return []offset{{0, f}}
	case Horse:
		return []offset{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} // orthogonal single steps
	case Dragon:
		return []offset{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} // diagonal single steps
	default:
		return nil
	}
}

// slideDirs returns the sliding directions for piece types that move any
// distance along a ray (Lance is color-dependent; Bishop/Rook/Horse/Dragon
// are not).
func slideDirs(pt PieceType, c Color) []offset {
	switch pt {
	case Lance:
		return []offset{{0, forward(c)}}
	case Bishop, Horse:
		return []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	case Rook, Dragon:
		return []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	default:
		return nil
	}
}

func isSliding(pt PieceType) bool {
	switch pt {
	case Lance, Bishop, Rook, Horse, Dragon:
		return true
	default:
		return false
	}
}

// promotionZone reports whether rank (0-8) is within color c's promotion
// zone (the three ranks furthest from c's own camp).
func promotionZone(c Color, rank int) bool {
	if c == Black {
		return rank <= 2
	}
	return rank >= 6
}

// mustPromote reports whether a piece of type pt landing on `rank` for color
// c has no legal moves left unless promoted (pawn/lance on the far rank,
// knight on the far two ranks) and therefore promotion is forced.
func mustPromote(pt PieceType, c Color, rank int) bool {
	switch pt {
	case Pawn, Lance:
		return rank == farRank(c)
	case Knight:
		r := farRank(c)
		if c == Black {
			return rank <= r+1
		}
		return rank >= r-1
	default:
		return false
	}
}

func farRank(c Color) int {
	if c == Black {
		return 0
	}
	return 8
}

// attacksFrom yields every square a piece of type pt and color c standing
// on `from` attacks or could move to on the current board, with
// blocking-aware sliding.
func attacksFrom(pos *Position, from Square, pt PieceType, c Color, yield func(to Square, blocked bool)) {
	ff, fr := from.File(), from.Rank()
	for _, o := range stepOffsets(pt, c) {
		nf, nr := ff+o.df, fr+o.dr
		if nf < 0 || nf > 8 || nr < 0 || nr > 8 {
			continue
		}
		to := NewSquare(nf, nr)
		yield(to, false)
	}
	for _, d := range slideDirs(pt, c) {
		nf, nr := ff+d.df, fr+d.dr
		for nf >= 0 && nf <= 8 && nr >= 0 && nr <= 8 {
			to := NewSquare(nf, nr)
			occupied := pos.Board[to] != NoPiece
			yield(to, occupied)
			if occupied {
				break
			}
			nf += d.df
			nr += d.dr
		}
	}
}

// VisitAttacks is the exported form of attacksFrom, used outside the
// package by move-ordering/SEE code that needs to ask "does the piece on
// `from` attack a particular square" without re-deriving the step/slide
// tables.
func VisitAttacks(pos *Position, from Square, pt PieceType, c Color, yield func(to Square, blocked bool)) {
	attacksFrom(pos, from, pt, c, yield)
}

// PseudoMobility counts, for color c, the number of pseudo-legal
// destination squares reachable by c's pieces (quiet) and how many of those
// land on an enemy-occupied square (captures). It does not filter for
// leaving c's own king in check and does not depend on whose turn it is —
// used by the mobility evaluation feature, which needs both sides' mobility
// without mutating the position via a side-switching null move.
func PseudoMobility(pos *Position, c Color) (quiet, captures int) {
	for from := Square(0); from < 81; from++ {
		p := pos.Board[from]
		if p == NoPiece || p.Color() != c {
			continue
		}
		attacksFrom(pos, from, p.Type(), c, func(to Square, blocked bool) {
			target := pos.Board[to]
			if target != NoPiece && target.Color() == c {
				return
			}
			if target != NoPiece {
				captures++
			} else {
				quiet++
			}
		})
	}
	return
}

// IsSquareAttacked reports whether `sq` is attacked by any piece of color by.
func IsSquareAttacked(pos *Position, sq Square, by Color) bool {
	for s := Square(0); s < 81; s++ {
		p := pos.Board[s]
		if p == NoPiece || p.Color() != by {
			continue
		}
		hit := false
		attacksFrom(pos, s, p.Type(), by, func(to Square, blocked bool) {
			if to == sq {
				hit = true
			}
		})
		if hit {
			return true
		}
	}
	return false
}

// IsInCheck reports whether color c's king is currently attacked.
func IsInCheck(pos *Position, c Color) bool {
	k := pos.KingSquare[c]
	if k == NoSquare {
		return false
	}
	return IsSquareAttacked(pos, k, c.Other())
}

// generatePseudoLegal appends every pseudo-legal move (board moves and
// drops) for the side to move, without filtering moves that leave the own
// king in check.
func generatePseudoLegal(pos *Position, ml *MoveList, capturesAndChecksOnly bool) {
	us := pos.SideToMove
	them := us.Other()

	for from := Square(0); from < 81; from++ {
		p := pos.Board[from]
		if p == NoPiece || p.Color() != us {
			continue
		}
		pt := p.Type()
		attacksFrom(pos, from, pt, us, func(to Square, blocked bool) {
			target := pos.Board[to]
			if target != NoPiece && target.Color() == us {
				return
			}
			captured := NoPieceType
			if target != NoPiece {
				captured = target.Type()
			}
			rank := to.Rank()
			canPromote := pt.CanPromote() && (promotionZone(us, rank) || promotionZone(us, from.Rank()))
			forced := pt.CanPromote() && mustPromote(pt, us, rank)

			if capturesAndChecksOnly && captured == NoPieceType {
				// still consider promotions as "noisy" for quiescence
				if !canPromote {
					return
				}
			}

			if canPromote && !forced {
				ml.Add(Move{From: from, To: to, Piece: pt, Promote: true, Captured: captured})
			}
			if !forced {
				ml.Add(Move{From: from, To: to, Piece: pt, Promote: false, Captured: captured})
			} else {
				ml.Add(Move{From: from, To: to, Piece: pt, Promote: true, Captured: captured})
			}
		})
	}

	if capturesAndChecksOnly {
		return
	}

	generateDrops(pos, us, them, ml)
}

// generateDrops appends legal drop moves, honoring nifu (no second
// unpromoted pawn by the same color on a file) and the rank restrictions
// that make a dropped pawn/lance/knight immediately immobile.
func generateDrops(pos *Position, us, them Color, ml *MoveList) {
	for _, pt := range HandPieceTypes {
		hi := HandIndex(pt)
		if pos.Hand[us][hi] <= 0 {
			continue
		}
		pawnFiles := [9]bool{}
		if pt == Pawn {
			for sq := Square(0); sq < 81; sq++ {
				p := pos.Board[sq]
				if p != NoPiece && p.Color() == us && p.Type() == Pawn {
					pawnFiles[sq.File()] = true
				}
			}
		}
		for to := Square(0); to < 81; to++ {
			if pos.Board[to] != NoPiece {
				continue
			}
			if mustPromote(pt, us, to.Rank()) {
				continue // would have no legal moves; illegal drop
			}
			if pt == Pawn && pawnFiles[to.File()] {
				continue // nifu
			}
			ml.Add(Move{From: NoSquare, To: to, Piece: pt, Captured: NoPieceType})
		}
	}
}

// GenerateLegalMoves returns every move that does not leave the side to
// move's own king in check.
func GenerateLegalMoves(pos *Position) *MoveList {
	var pseudo MoveList
	generatePseudoLegal(pos, &pseudo, false)

	ml := &MoveList{}
	us := pos.SideToMove
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		undo := pos.MakeMove(m)
		if !IsInCheck(pos, us) {
			ml.Add(m)
		}
		pos.UnmakeMove(m, undo)
	}
	return ml
}

// GenerateCapturesAndChecks returns captures and promotions only, for
// quiescence search. A full giving-check filter over drops is intentionally
// not attempted here (out of the core's scope per the board contract); the
// negamax core treats "gives check" via IsInCheck after the move is made.
func GenerateCapturesAndChecks(pos *Position) *MoveList {
	var pseudo MoveList
	generatePseudoLegal(pos, &pseudo, true)

	ml := &MoveList{}
	us := pos.SideToMove
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		undo := pos.MakeMove(m)
		if !IsInCheck(pos, us) {
			ml.Add(m)
		}
		pos.UnmakeMove(m, undo)
	}
	return ml
}
