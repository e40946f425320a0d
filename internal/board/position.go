package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling                         = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// castlingRook maps each right to the rook corner it refers to.
var castlingRook = [4]struct {
	right CastlingRights
	color Color
	rook  Square
}{
	{WhiteKingSideCastle, White, H1},
	{WhiteQueenSideCastle, White, A1},
	{BlackKingSideCastle, Black, H8},
	{BlackQueenSideCastle, Black, A8},
}

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			s += string(c)
		}
	}
	return s
}

// Position is a board together with the side to move, castling rights and
// en passant target. It is a value: Play returns a new Position and never
// modifies the receiver.
type Position struct {
	Board

	Turn      Color
	Castling  CastlingRights
	EnPassant Square // target square of a double push, NoSquare if none
	Halfmoves int    // plies since the last capture or pawn move
	Fullmoves int    // starts at 1, incremented after Black moves
}

// NewPosition returns the standard starting position.
func NewPosition() Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// Ply returns the number of half-moves played since the game's first move.
func (p *Position) Ply() int {
	return 2*(p.Fullmoves-1) + int(p.Turn)
}

// ourKing returns the king square of the side to move; a missing king breaks
// the position invariant and is a programming error.
func (p *Position) ourKing() Square {
	ksq := p.King(p.Turn)
	if ksq == NoSquare {
		panic(fmt.Sprintf("board: no %s king in %s", p.Turn, p.FEN()))
	}
	return ksq
}

// Checkers returns the enemy pieces giving check to the side to move.
func (p *Position) Checkers() Bitboard {
	return p.AttackersByColor(p.ourKing(), p.Turn.Other(), p.All)
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.Checkers() != 0
}

// Play applies a move generated for this position and returns the resulting position.
func (p *Position) Play(m Move) Position {
	next := *p
	us := p.Turn
	them := us.Other()

	next.EnPassant = NoSquare
	next.Halfmoves++

	switch m.Kind {
	case Normal:
		if m.IsCapture() {
			next.remove(Piece{Role: m.Captured, Color: them}, m.To)
			next.Halfmoves = 0
		}
		next.shift(us, m.Role, m.From, m.To)
		if m.Promotion != NoRole {
			next.remove(Piece{Role: Pawn, Color: us}, m.To)
			next.put(Piece{Role: m.Promotion, Color: us}, m.To)
		}
		if m.Role == Pawn {
			next.Halfmoves = 0
			if m.To == m.From+16 || m.From == m.To+16 {
				next.EnPassant = (m.From + m.To) / 2
			}
		}
	case EnPassant:
		next.shift(us, Pawn, m.From, m.To)
		next.remove(Piece{Role: Pawn, Color: them}, NewSquare(m.To.File(), m.From.Rank()))
		next.Halfmoves = 0
	case Castle:
		next.shift(us, King, m.From, m.Destination())
		next.shift(us, Rook, m.To, m.rookDestination())
	}

	if m.Role == King {
		if us == White {
			next.Castling &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			next.Castling &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	for _, cr := range castlingRook {
		if m.From == cr.rook || m.To == cr.rook {
			next.Castling &^= cr.right
		}
	}

	if us == Black {
		next.Fullmoves++
	}
	next.Turn = them
	return next
}

// Validate checks the invariants a position reached by legal play always satisfies.
func (p *Position) Validate() error {
	for _, c := range [2]Color{White, Black} {
		if n := p.Pieces[c][King].Count(); n != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrInvalidPosition, c, n)
		}
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("%w: pawn on first or last rank", ErrInvalidPosition)
	}
	them := p.Turn.Other()
	if p.IsAttacked(p.King(them), p.Turn) {
		return fmt.Errorf("%w: %s king can be captured", ErrInvalidPosition, them)
	}
	for _, cr := range castlingRook {
		if p.Castling&cr.right == 0 {
			continue
		}
		home := NewSquare(4, cr.rook.Rank())
		if !p.Pieces[cr.color][Rook].Has(cr.rook) || !p.Pieces[cr.color][King].Has(home) {
			return fmt.Errorf("%w: castling right %s without king and rook at home", ErrInvalidPosition, cr.right)
		}
	}
	if p.EnPassant != NoSquare && p.EnPassant.RelativeRank(p.Turn) != 5 {
		return fmt.Errorf("%w: en passant square %s", ErrInvalidPosition, p.EnPassant)
	}
	return nil
}

// String returns a diagram of the position, rank 8 first.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
