package engine

import (
	"slices"

	"github.com/hailam/fixedply/internal/board"
)

// child is a legal move together with the position it leads to.
type child struct {
	move  board.Move
	pos   board.Position
	order int // static evaluation of pos, used only for ordering
}

// orderedChildren plays every move and sorts the results so the side to
// move examines its statically best replies first. The sort is stable, so
// equal keys keep generation order.
func orderedChildren(pos *board.Position, moves []board.Move, spatial bool) []child {
	children := make([]child, len(moves))
	for i, m := range moves {
		next := pos.Play(m)
		children[i] = child{move: m, pos: next, order: Evaluate(&next, spatial)}
	}

	maximizing := pos.Turn == board.White
	slices.SortStableFunc(children, func(a, b child) int {
		if maximizing {
			return b.order - a.order
		}
		return a.order - b.order
	})
	return children
}
