package board

// Board is the piece placement: one bitboard per (color, role) plus the
// derived union sets. It is a comparable value and serves as the key of
// SeenPositions.
type Board struct {
	Pieces   [2][6]Bitboard // [Color][Role]
	Occupied [2]Bitboard    // all pieces of each color
	All      Bitboard       // all pieces on the board
}

// PieceAt returns the piece on sq, or NoPiece if it is empty.
func (b *Board) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if b.All&bb == 0 {
		return NoPiece
	}
	c := White
	if b.Occupied[Black]&bb != 0 {
		c = Black
	}
	for r := Pawn; r <= King; r++ {
		if b.Pieces[c][r]&bb != 0 {
			return Piece{Role: r, Color: c}
		}
	}
	return NoPiece
}

// RoleAt returns the role of the piece of color c on sq, NoRole if there is none.
func (b *Board) RoleAt(sq Square, c Color) Role {
	bb := SquareBB(sq)
	if b.Occupied[c]&bb == 0 {
		return NoRole
	}
	for r := Pawn; r <= King; r++ {
		if b.Pieces[c][r]&bb != 0 {
			return r
		}
	}
	return NoRole
}

// King returns the king square of color c, NoSquare if it has none.
func (b *Board) King(c Color) Square {
	return b.Pieces[c][King].LSB()
}

func (b *Board) put(p Piece, sq Square) {
	bb := SquareBB(sq)
	b.Pieces[p.Color][p.Role] |= bb
	b.Occupied[p.Color] |= bb
	b.All |= bb
}

func (b *Board) remove(p Piece, sq Square) {
	bb := SquareBB(sq)
	b.Pieces[p.Color][p.Role] &^= bb
	b.Occupied[p.Color] &^= bb
	b.All &^= bb
}

// shift moves a piece of the given role between two squares.
func (b *Board) shift(c Color, r Role, from, to Square) {
	moveBB := SquareBB(from) | SquareBB(to)
	b.Pieces[c][r] ^= moveBB
	b.Occupied[c] ^= moveBB
	b.All ^= moveBB
}

// SeenPositions is the set of boards that occurred in the actual game.
type SeenPositions map[Board]struct{}

// NewSeenPositions returns a set holding the given boards.
func NewSeenPositions(boards ...Board) SeenPositions {
	s := make(SeenPositions, len(boards))
	for _, b := range boards {
		s.Add(b)
	}
	return s
}

// Add records a board.
func (s SeenPositions) Add(b Board) {
	s[b] = struct{}{}
}

// Contains reports whether the board has been seen.
func (s SeenPositions) Contains(b Board) bool {
	_, ok := s[b]
	return ok
}

// Clone returns an independent copy, used as the read-only snapshot of a search.
func (s SeenPositions) Clone() SeenPositions {
	c := make(SeenPositions, len(s))
	for b := range s {
		c[b] = struct{}{}
	}
	return c
}
