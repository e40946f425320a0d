package engine

import (
	"bufio"
	"io"

	"github.com/rs/zerolog"

	"github.com/hailam/fixedply/internal/board"
)

// Tracer receives one record per explored node. It is observational only:
// nothing it does can change the search result.
type Tracer interface {
	Leaf(path []board.Move, score int)
	Terminal(path []board.Move, score int, mate bool)
	Decision(path []board.Move, maximizing bool, score, annoyance int, next board.Move)
	Flush() error
}

// NopTracer discards all records.
type NopTracer struct{}

func (NopTracer) Leaf([]board.Move, int)                            {}
func (NopTracer) Terminal([]board.Move, int, bool)                  {}
func (NopTracer) Decision([]board.Move, bool, int, int, board.Move) {}
func (NopTracer) Flush() error                                      { return nil }

// LogTracer writes every record as a JSON line to a buffered sink.
type LogTracer struct {
	buf *bufio.Writer
	log zerolog.Logger
}

// NewLogTracer creates a tracer appending to w. Call Flush when the search ends.
func NewLogTracer(w io.Writer) *LogTracer {
	buf := bufio.NewWriter(w)
	return &LogTracer{
		buf: buf,
		log: zerolog.New(buf),
	}
}

func pathStrings(path []board.Move) []string {
	s := make([]string, len(path))
	for i, m := range path {
		s[i] = m.String()
	}
	return s
}

func (t *LogTracer) Leaf(path []board.Move, score int) {
	t.log.Log().Strs("path", pathStrings(path)).Int("score", score).Send()
}

func (t *LogTracer) Terminal(path []board.Move, score int, mate bool) {
	kind := "stalemate"
	if mate {
		kind = "mate"
	}
	t.log.Log().Strs("path", pathStrings(path)).Int("score", score).Str("terminal", kind).Send()
}

func (t *LogTracer) Decision(path []board.Move, maximizing bool, score, annoyance int, next board.Move) {
	side := "min"
	if maximizing {
		side = "max"
	}
	t.log.Log().
		Strs("path", pathStrings(path)).
		Str("side", side).
		Int("score", score+annoyance).
		Int("raw", score).
		Int("annoyance", annoyance).
		Stringer("next", next).
		Send()
}

// Flush writes buffered records to the underlying sink.
func (t *LogTracer) Flush() error {
	return t.buf.Flush()
}
