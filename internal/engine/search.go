package engine

import (
	"context"
	"math/rand/v2"

	"github.com/hailam/fixedply/internal/board"
)

// Search constants
const (
	Infinity  = 1 << 30
	MateScore = 10000
)

// SearchState is the per-call window passed by value down the recursion.
// Normal flips on every ply; the root call has Normal == false.
type SearchState struct {
	Depth  int
	Alpha  int
	Beta   int
	Normal bool
}

// rootState returns the state of the root call for the given depth.
func rootState(depth int) SearchState {
	return SearchState{Depth: depth, Alpha: -Infinity, Beta: Infinity}
}

// child derives the state of a recursive call under the current window.
func (st SearchState) child(alpha, beta int) SearchState {
	return SearchState{Depth: st.Depth - 1, Alpha: alpha, Beta: beta, Normal: !st.Normal}
}

// mateScore scores a checkmate of color mated with depth plies left to
// search. Mates found with more depth remaining happened sooner, so they
// are worth more to the winner and cost more to the loser.
func mateScore(mated board.Color, depth int) int {
	v := MateScore + depth
	return mated.Fold(-v, v)
}

// searcher holds what one search call shares across the recursion. None of
// it is written by the recursion except the node counter.
type searcher struct {
	ctx     context.Context
	seen    board.SeenPositions
	rng     *rand.Rand
	trace   Tracer
	spatial bool
	nodes   uint64
}

// candidate is the best move found so far at a node.
type candidate struct {
	move      board.Move
	score     int // propagated score
	annoyance int // mobility adjustment that only influenced the choice
}

// search returns the best move, whether one exists, and the score of pos.
// Scores are from White's point of view: White maximizes, Black minimizes.
func (s *searcher) search(pos *board.Position, st SearchState, path []board.Move) (board.Move, bool, int) {
	s.nodes++

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			score := mateScore(pos.Turn, st.Depth)
			s.trace.Terminal(path, score, true)
			return board.Move{}, false, score
		}
		s.trace.Terminal(path, 0, false)
		return board.Move{}, false, 0
	}

	if st.Depth == 0 {
		score := Evaluate(pos, s.spatial)
		s.trace.Leaf(path, score)
		return board.Move{}, false, score
	}

	maximizing := pos.Turn == board.White
	alpha, beta := st.Alpha, st.Beta
	var best *candidate

	for _, c := range orderedChildren(pos, moves, s.spatial) {
		if s.ctx.Err() != nil {
			break
		}

		var score int
		if s.seen.Contains(c.pos.Board) {
			score = 0
		} else {
			_, _, score = s.search(&c.pos, st.child(alpha, beta), append(path, c.move))
			if s.ctx.Err() != nil {
				// The subtree was cut short; its score is not trustworthy.
				break
			}
		}

		// The mobility term only ranks siblings. Alpha, beta and the value
		// handed to the parent stay raw, so after a cutoff at such a node the
		// returned score is a bound on the chosen move, not on the best one.
		annoyance := 0
		if !st.Normal && st.Depth > 1 && len(path) > 0 {
			annoyance = EvaluateTransition(pos, &c.pos)
		}

		if best == nil || s.better(maximizing, score+annoyance, best.score+best.annoyance) {
			best = &candidate{move: c.move, score: score, annoyance: annoyance}
		}

		if maximizing {
			alpha = max(alpha, score)
			if alpha > beta {
				break
			}
		} else {
			beta = min(beta, score)
			if beta < alpha {
				break
			}
		}
	}

	if best == nil {
		if s.ctx.Err() == nil {
			panic("engine: interior node produced no move: " + pos.FEN())
		}
		return board.Move{}, false, Evaluate(pos, s.spatial)
	}

	s.trace.Decision(path, maximizing, best.score, best.annoyance, best.move)
	return best.move, true, best.score
}

// better reports whether score should replace the current best for the
// side to move. Exact ties are broken by a coin flip.
func (s *searcher) better(maximizing bool, score, best int) bool {
	if score == best {
		return s.rng.IntN(2) == 0
	}
	if maximizing {
		return score > best
	}
	return score < best
}
