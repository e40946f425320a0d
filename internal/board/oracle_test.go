package board

import (
	"strings"
	"testing"

	"github.com/notnil/chess"
)

// Walks a few plies from every corpus position, comparing move counts and
// piece placement with an independent implementation at each step.
func TestMatchesNotnilAlongGames(t *testing.T) {
	for _, fen := range corpus {
		opt, err := chess.FEN(fen)
		if err != nil {
			t.Fatalf("reference rejected %s: %v", fen, err)
		}
		ref := chess.NewGame(opt)
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%s): %v", fen, err)
		}

		for ply := 0; ply < 6; ply++ {
			moves := pos.LegalMoves()
			refMoves := ref.ValidMoves()
			if len(moves) != len(refMoves) {
				t.Errorf("%s ply %d: %d moves, reference has %d (at %s)", fen, ply, len(moves), len(refMoves), pos.FEN())
				break
			}
			if got, want := strings.Fields(pos.FEN())[0], strings.Fields(ref.Position().String())[0]; got != want {
				t.Errorf("%s ply %d: placement %s, reference %s", fen, ply, got, want)
				break
			}
			if len(moves) == 0 {
				break
			}

			// Follow the last generated move in both implementations.
			m := moves[len(moves)-1]
			var next *chess.Move
			for _, rm := range refMoves {
				if rm.S1().String() == m.From.String() && rm.S2().String() == m.Destination().String() &&
					(m.Promotion == NoRole || rm.Promo().String() == string(m.Promotion.Char())) {
					next = rm
					break
				}
			}
			if next == nil {
				t.Errorf("%s ply %d: reference has no move %s", fen, ply, m)
				break
			}
			if err := ref.Move(next); err != nil {
				t.Fatalf("reference move %s: %v", m, err)
			}
			pos = pos.Play(m)
		}
	}
}
