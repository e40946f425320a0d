package board

import "fmt"

// MoveKind tags the variant held by a Move.
type MoveKind uint8

const (
	Normal MoveKind = iota
	EnPassant
	Castle
)

// Move is one of:
//   - Normal: From/To squares, the moving Role, the Captured role and the Promotion role
//     (NoRole when absent);
//   - EnPassant: From/To squares of the capturing pawn;
//   - Castle: From is the king square and To is the square of the rook it castles with.
type Move struct {
	Kind      MoveKind
	From      Square
	To        Square
	Role      Role
	Captured  Role
	Promotion Role
}

// NewNormal creates a normal move; pass NoRole for captured/promotion when absent.
func NewNormal(from, to Square, role, captured, promotion Role) Move {
	return Move{Kind: Normal, From: from, To: to, Role: role, Captured: captured, Promotion: promotion}
}

// NewEnPassant creates an en passant capture.
func NewEnPassant(from, to Square) Move {
	return Move{Kind: EnPassant, From: from, To: to, Role: Pawn, Captured: Pawn, Promotion: NoRole}
}

// NewCastle creates a castling move from the king and rook squares.
func NewCastle(king, rook Square) Move {
	return Move{Kind: Castle, From: king, To: rook, Role: King, Captured: NoRole, Promotion: NoRole}
}

// IsCapture reports whether the move removes an enemy piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoRole
}

// Destination returns the square the moving piece ends on; for castling
// that is the king's destination (g- or c-file), not the rook square.
func (m Move) Destination() Square {
	if m.Kind != Castle {
		return m.To
	}
	if m.To > m.From {
		return NewSquare(6, m.From.Rank())
	}
	return NewSquare(2, m.From.Rank())
}

// rookDestination returns where the rook lands when castling.
func (m Move) rookDestination() Square {
	if m.To > m.From {
		return NewSquare(5, m.From.Rank())
	}
	return NewSquare(3, m.From.Rank())
}

// String returns the coordinate notation of the move (e.g. "e2e4", "e7e8q", "e1g1").
func (m Move) String() string {
	s := m.From.String() + m.Destination().String()
	if m.Promotion != NoRole {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove resolves a coordinate-notation token against the legal moves of pos.
// Castling is accepted both as king-to-destination (e1g1) and as king-to-rook (e1h1).
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	promo := NoRole
	if len(s) == 5 {
		promo = roleFromChar(s[4])
		if promo == NoRole || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("%w: bad promotion in %q", ErrInvalidMove, s)
		}
	}

	for _, m := range pos.LegalMoves() {
		if m.From != from || m.Promotion != promo {
			continue
		}
		if m.Destination() == to || (m.Kind == Castle && m.To == to) {
			return m, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %s in %s", ErrIllegalMove, s, pos.FEN())
}
