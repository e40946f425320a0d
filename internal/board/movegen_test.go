package board

import (
	"errors"
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

var corpus = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	"4k3/8/8/2KPp2q/8/8/8/8 w - e6 0 1",
	"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1",
}

func TestStartPositionHasTwentyMoves(t *testing.T) {
	pos := NewPosition()
	if n := len(pos.LegalMoves()); n != 20 {
		t.Errorf("Initial position: expected 20 moves, got %d", n)
	}
}

// Every generated move must leave the mover's king unattacked, and the
// origin square must be empty afterwards.
func TestLegalMovesKeepKingSafe(t *testing.T) {
	for _, fen := range corpus {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		walk(t, pos, 3)
	}
}

func walk(t *testing.T, pos Position, depth int) {
	t.Helper()
	if depth == 0 {
		return
	}
	us := pos.Turn
	for _, m := range pos.LegalMoves() {
		next := pos.Play(m)
		if next.IsAttacked(next.King(us), us.Other()) {
			t.Fatalf("%s: move %v leaves %s king in check", pos.FEN(), m, us)
		}
		if m.Kind != Castle && next.All.Has(m.From) {
			t.Fatalf("%s: origin of %v still occupied after the move", pos.FEN(), m)
		}
		if next.Occupied[White]&next.Occupied[Black] != 0 {
			t.Fatalf("%s: %v leaves overlapping colors", pos.FEN(), m)
		}
		for _, reply := range next.LegalMoves() {
			if reply.From == m.From && m.Kind != Castle {
				t.Fatalf("%s: after %v a move %v starts on the vacated square", pos.FEN(), m, reply)
			}
		}
		walk(t, next, depth-1)
	}
}

// The generator must agree with an independent implementation.
func TestLegalMovesMatchReferenceGenerator(t *testing.T) {
	for _, fen := range corpus {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		ref := dragontoothmg.ParseFen(fen)

		var got, want []string
		for _, m := range pos.LegalMoves() {
			got = append(got, m.String())
		}
		for _, m := range ref.GenerateLegalMoves() {
			want = append(want, m.String())
		}
		sort.Strings(got)
		sort.Strings(want)

		if len(got) != len(want) {
			t.Errorf("%s: got %d moves %v, reference has %d %v", fen, len(got), got, len(want), want)
			continue
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("%s: move sets differ at %d: %s vs %s", fen, i, got[i], want[i])
				break
			}
		}
	}
}

func TestPromotionEnumeratesFourRoles(t *testing.T) {
	pos, err := ParseFEN("1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	promos := map[string]bool{}
	for _, m := range pos.LegalMoves() {
		if m.Promotion != NoRole {
			promos[m.String()] = true
		}
	}
	for _, s := range []string{"a7a8q", "a7a8r", "a7a8b", "a7a8n", "a7b8q", "a7b8r", "a7b8b", "a7b8n"} {
		if !promos[s] {
			t.Errorf("missing promotion %s", s)
		}
	}
	if len(promos) != 8 {
		t.Errorf("expected 8 promotions, got %d", len(promos))
	}
}

func TestCastlingThroughAttackedSquare(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want map[string]bool
	}{
		{"both sides free", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", map[string]bool{"e1g1": true, "e1c1": true}},
		{"f1 attacked", "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1", map[string]bool{"e1g1": false, "e1c1": true}},
		{"b1 attacked only", "r3k2r/8/8/8/8/8/1r6/R3K2R w KQkq - 0 1", map[string]bool{"e1g1": true, "e1c1": true}},
		{"path blocked", "r3k2r/8/8/8/8/8/8/RN2K1NR w KQkq - 0 1", map[string]bool{"e1g1": false, "e1c1": false}},
		{"no rights", "r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1", map[string]bool{"e1g1": false, "e1c1": false}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			have := map[string]bool{}
			for _, m := range pos.LegalMoves() {
				if m.Kind == Castle {
					have[m.String()] = true
				}
			}
			for mv, want := range tc.want {
				if have[mv] != want {
					t.Errorf("castle %s: got %v, want %v", mv, have[mv], want)
				}
			}
		})
	}
}

func TestPinnedPieceMovesAlongRay(t *testing.T) {
	// The bishop on d2 is pinned by the bishop on a5; the rook on e2 by the queen on e8.
	pos, err := ParseFEN("4q2k/8/8/b7/8/8/3BR3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range pos.LegalMoves() {
		switch m.From {
		case D2:
			if !Aligned(E1, A5, m.To) {
				t.Errorf("pinned bishop leaves the pin ray with %v", m)
			}
		case E2:
			if m.To.File() != 4 {
				t.Errorf("pinned rook leaves the e-file with %v", m)
			}
		}
	}
}

func TestPlayUpdatesState(t *testing.T) {
	pos := NewPosition()
	e4, err := ParseMove("e2e4", &pos)
	if err != nil {
		t.Fatal(err)
	}
	next := pos.Play(e4)
	if next.EnPassant != E3 {
		t.Errorf("en passant = %v, want e3", next.EnPassant)
	}
	if next.Turn != Black {
		t.Error("side to move not flipped")
	}
	if pos.Turn != White || pos.PieceAt(E2) != (Piece{Role: Pawn, Color: White}) {
		t.Error("Play modified the original position")
	}

	castle, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m, err := ParseMove("e1g1", &castle)
	if err != nil {
		t.Fatal(err)
	}
	after := castle.Play(m)
	if after.PieceAt(G1).Role != King || after.PieceAt(F1).Role != Rook {
		t.Errorf("castling placed pieces wrongly:\n%v", after.String())
	}
	if after.Castling != BlackKingSideCastle|BlackQueenSideCastle {
		t.Errorf("castling rights = %v, want kq", after.Castling)
	}

	viaRook, err := ParseMove("e1h1", &castle)
	if err != nil || viaRook != m {
		t.Errorf("king-takes-rook notation: got %v, %v", viaRook, err)
	}
}

func TestParseMoveErrors(t *testing.T) {
	pos := NewPosition()
	tests := []struct {
		in   string
		want error
	}{
		{"e2", ErrInvalidMove},
		{"z2e4", ErrInvalidMove},
		{"e7e8k", ErrInvalidMove},
		{"e2e5", ErrIllegalMove},
		{"e7e5", ErrIllegalMove},
	}
	for _, tc := range tests {
		if _, err := ParseMove(tc.in, &pos); !errors.Is(err, tc.want) {
			t.Errorf("ParseMove(%q) error = %v, want %v", tc.in, err, tc.want)
		}
	}
}

func TestFENRoundTrip(t *testing.T) {
	for _, fen := range corpus {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN() = %q, want %q", got, fen)
		}
	}
}

func TestParseFENRejectsBadInput(t *testing.T) {
	tests := []struct {
		fen  string
		want error
	}{
		{"", ErrInvalidFEN},
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1", ErrInvalidFEN},
		{"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", ErrInvalidFEN},
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1", ErrInvalidFEN},
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkX - 0 1", ErrInvalidFEN},
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1", ErrInvalidFEN},
		{"rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQ - 0 1", ErrInvalidPosition},
		{"4k3/8/8/8/8/8/8/4K3 w K - 0 1", ErrInvalidPosition},
		{"P3k3/8/8/8/8/8/8/4K3 w - - 0 1", ErrInvalidPosition},
		{"4k3/4R3/8/8/8/8/8/4K3 w - - 0 1", ErrInvalidPosition},
	}
	for _, tc := range tests {
		if _, err := ParseFEN(tc.fen); !errors.Is(err, tc.want) {
			t.Errorf("ParseFEN(%q) error = %v, want %v", tc.fen, err, tc.want)
		}
	}
}

func TestLegalMovesPanicsWithoutKing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a position without a king")
		}
	}()
	pos := Position{EnPassant: NoSquare, Fullmoves: 1}
	pos.put(Piece{Role: King, Color: Black}, E8)
	pos.LegalMoves()
}

func TestSeenPositions(t *testing.T) {
	start := NewPosition()
	seen := NewSeenPositions(start.Board)

	var pos = start
	for _, s := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		m, err := ParseMove(s, &pos)
		if err != nil {
			t.Fatal(err)
		}
		pos = pos.Play(m)
	}
	if !seen.Contains(pos.Board) {
		t.Error("board after a knight shuffle should equal the start board")
	}

	snapshot := seen.Clone()
	seen.Add(pos.Play(pos.LegalMoves()[0]).Board)
	if len(snapshot) != 1 {
		t.Errorf("clone shares storage with the original, len=%d", len(snapshot))
	}
}

func TestLineThroughAlignedSquares(t *testing.T) {
	tests := []struct {
		a, b Square
		want Bitboard
	}{
		{A1, H1, Rank1},
		{C1, C5, FileA << 2},
		{B2, G7, SquareBB(A1) | SquareBB(B2) | SquareBB(C3) | SquareBB(D4) |
			SquareBB(E5) | SquareBB(F6) | SquareBB(G7) | SquareBB(H8)},
		{A1, B3, 0},
	}
	for _, tt := range tests {
		if got := Line(tt.a, tt.b); got != tt.want {
			t.Errorf("Line(%v, %v) = %#x, want %#x", tt.a, tt.b, uint64(got), uint64(tt.want))
		}
	}

	if !Aligned(B2, G7, H8) || !Aligned(E1, E8, E4) {
		t.Error("squares on a shared line reported unaligned")
	}
	if Aligned(B2, G7, H7) || Aligned(A1, B3, C5) {
		t.Error("squares off the line reported aligned")
	}
}

func TestCaptureFlagMatchesBoard(t *testing.T) {
	for _, fen := range corpus {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		them := pos.Turn.Other()
		for _, m := range pos.LegalMoves() {
			want := m.Kind == EnPassant ||
				(m.Kind != Castle && pos.Occupied[them].Has(m.To))
			if m.IsCapture() != want {
				t.Errorf("%s: %s IsCapture = %v, want %v", fen, m, m.IsCapture(), want)
			}
			next := pos.Play(m)
			if m.IsCapture() && next.Halfmoves != 0 {
				t.Errorf("%s: capture %s left halfmove clock at %d", fen, m, next.Halfmoves)
			}
		}
	}
}
