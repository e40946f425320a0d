package board

import "errors"

var (
	// ErrInvalidFEN is returned for FEN strings that cannot be parsed.
	ErrInvalidFEN = errors.New("invalid fen")
	// ErrInvalidPosition is returned for a parsed setup that no legal game can reach.
	ErrInvalidPosition = errors.New("invalid position")
	// ErrInvalidMove is returned for move tokens that are not coordinate notation.
	ErrInvalidMove = errors.New("invalid move notation")
	// ErrIllegalMove is returned when a well-formed move is not legal in the position.
	ErrIllegalMove = errors.New("illegal move")
)
