package board

import (
	"testing"
)

func TestCheckmate(t *testing.T) {
	// Back rank mate: black king on h8 boxed in by its own pawns.
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if !pos.InCheck() {
		t.Error("Expected black to be in check")
	}
	if n := len(pos.LegalMoves()); n != 0 {
		t.Errorf("Expected no legal moves, got %d", n)
	}
	if !pos.IsCheckmate() {
		t.Error("Expected checkmate but got false")
	}
	if pos.IsStalemate() {
		t.Error("Checkmate reported as stalemate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// The king can capture the unprotected rook on g8.
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	moves := pos.LegalMoves()
	t.Log("Black legal moves:", moves)

	if pos.IsCheckmate() {
		t.Error("Expected NOT checkmate but got true")
	}
	found := false
	for _, m := range moves {
		if m.From == H8 && m.To == G8 && m.Captured == Rook {
			found = true
		}
	}
	if !found {
		t.Error("Expected Kxg8 among legal moves")
	}
}

func TestStalemate(t *testing.T) {
	pos, err := ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	if n := len(pos.LegalMoves()); n != 0 {
		t.Errorf("Expected no legal moves, got %d", n)
	}
	if !pos.IsStalemate() {
		t.Error("Expected stalemate")
	}
	if pos.IsCheckmate() {
		t.Error("Stalemate reported as checkmate")
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// Rook on e1 and knight on f6 both check the king on e8.
	pos, err := ParseFEN("r3k3/8/5N2/8/8/8/8/4R1K1 b q - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.Checkers().MoreThanOne() {
		t.Fatalf("Expected double check, checkers:\n%v", pos.Checkers())
	}
	for _, m := range pos.LegalMoves() {
		if m.Role != King {
			t.Errorf("Non-king move %v generated in double check", m)
		}
		if m.Kind == Castle {
			t.Errorf("Castling %v generated while in check", m)
		}
	}
}
