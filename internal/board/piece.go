package board

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// Fold returns w for White and b for Black.
func (c Color) Fold(w, b int) int {
	if c == White {
		return w
	}
	return b
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Role is the kind of a chess piece.
type Role uint8

const (
	Pawn Role = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoRole Role = 6
)

// Char returns the lowercase letter used for the role in FEN and move notation.
func (r Role) Char() byte {
	if r >= NoRole {
		return ' '
	}
	return "pnbrqk"[r]
}

func (r Role) String() string {
	switch r {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// roleFromChar maps a lowercase letter back to its role.
func roleFromChar(c byte) Role {
	switch c {
	case 'p':
		return Pawn
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	case 'k':
		return King
	}
	return NoRole
}

// Piece is a role together with its color.
type Piece struct {
	Role  Role
	Color Color
}

// NoPiece marks an empty square.
var NoPiece = Piece{Role: NoRole}

// Char returns the FEN letter, uppercase for White.
func (p Piece) Char() byte {
	c := p.Role.Char()
	if p.Color == White && c != ' ' {
		c -= 'a' - 'A'
	}
	return c
}

func (p Piece) String() string {
	return string(p.Char())
}

// pieceFromChar parses a FEN piece letter.
func pieceFromChar(c byte) (Piece, bool) {
	color := Black
	if c >= 'A' && c <= 'Z' {
		color = White
		c += 'a' - 'A'
	}
	r := roleFromChar(c)
	if r == NoRole {
		return NoPiece, false
	}
	return Piece{Role: r, Color: color}, true
}
