// Package engine implements the evaluator and the fixed-depth alpha-beta search.
package engine

import (
	"github.com/hailam/fixedply/internal/board"
)

// Material values in pawns
const (
	PawnValue   = 1
	KnightValue = 3
	BishopValue = 3
	RookValue   = 5
	QueenValue  = 9
)

var roleValues = [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, 0}

// Advanced pawns earn a bonus by relative rank (index 0 = first rank).
var pawnAdvanceBonus = [8]int{0, 0, 1, 1, 1, 2, 2, 0}

// materialWeight makes material dominate the mobility and spatial terms.
const materialWeight = 2

// Material returns the material of color c including the pawn advancement bonus.
func Material(pos *board.Position, c board.Color) int {
	score := 0
	for r := board.Pawn; r < board.King; r++ {
		score += pos.Pieces[c][r].Count() * roleValues[r]
	}
	pawns := pos.Pieces[c][board.Pawn]
	for pawns != 0 {
		score += pawnAdvanceBonus[pawns.PopLSB().RelativeRank(c)]
	}
	return score
}

// MaterialBalance returns White's material minus Black's.
func MaterialBalance(pos *board.Position) int {
	return Material(pos, board.White) - Material(pos, board.Black)
}

// Evaluate returns the static score of a position, positive favoring White.
func Evaluate(pos *board.Position, spatial bool) int {
	score := MaterialBalance(pos) * materialWeight
	if spatial {
		score += SpatialControl(pos)
	}
	return score
}

// EvaluateTransition scores the mobility swing of a move: the moves the
// mover had before it minus the moves left to the opponent after it,
// counted pseudo-legally. The result is signed so that a gain favors the
// side that moved.
func EvaluateTransition(before, after *board.Position) int {
	mover := before.Turn
	delta := before.Mobility(mover) - after.Mobility(after.Turn)
	return mover.Fold(delta, -delta)
}

// Centipawns converts an evaluation score to hundredths of a pawn.
func Centipawns(score int) int {
	return score * 100 / materialWeight
}
