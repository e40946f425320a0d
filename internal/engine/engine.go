package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/fixedply/internal/board"
)

// DefaultDepth is the fixed search depth in plies.
const DefaultDepth = 6

// ErrInvalidDepth is returned for a search depth below one ply.
var ErrInvalidDepth = errors.New("search depth must be at least 1")

// Options configures the engine.
type Options struct {
	Depth   int  // plies to search
	Spatial bool // add the convex-hull spatial control term to the evaluation
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{Depth: DefaultDepth}
}

// Result is the outcome of a search.
type Result struct {
	Move    board.Move
	Found   bool // false when the position has no legal move
	Score   int  // White's point of view
	Depth   int
	Nodes   uint64
	Elapsed time.Duration
}

// Engine runs fixed-depth searches. It keeps no state between searches.
type Engine struct {
	opts Options
	log  zerolog.Logger
}

// New creates an engine with the given options.
func New(opts Options, logger zerolog.Logger) *Engine {
	if opts.Depth <= 0 {
		opts.Depth = DefaultOptions().Depth
	}
	return &Engine{opts: opts, log: logger}
}

// Options returns the current configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// SetDepth changes the search depth.
func (e *Engine) SetDepth(depth int) error {
	if depth < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	e.opts.Depth = depth
	return nil
}

// SetSpatial toggles the spatial control term.
func (e *Engine) SetSpatial(on bool) {
	e.opts.Spatial = on
}

// Search finds the best move for pos at the configured depth.
func (e *Engine) Search(ctx context.Context, pos board.Position, seen board.SeenPositions, rng *rand.Rand, trace Tracer) (Result, error) {
	return e.SearchDepth(ctx, pos, e.opts.Depth, seen, rng, trace)
}

// SearchDepth finds the best move for pos searching depth plies.
//
// seen holds the boards of the actual game and is only read. rng breaks
// ties between equally scored moves; pass a seeded source for reproducible
// results. trace may be nil and is flushed before returning.
//
// When ctx is cancelled the search stops before the next subtree and
// returns the best fully searched root move, if any, with ctx's error.
func (e *Engine) SearchDepth(ctx context.Context, pos board.Position, depth int, seen board.SeenPositions, rng *rand.Rand, trace Tracer) (res Result, err error) {
	if depth < 1 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	if err := pos.Validate(); err != nil {
		return Result{}, err
	}
	if trace == nil {
		trace = NopTracer{}
	}
	defer func() {
		if ferr := trace.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("flush trace: %w", ferr)
		}
	}()
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1))
	}
	if seen == nil {
		seen = board.SeenPositions{}
	}

	s := &searcher{
		ctx:     ctx,
		seen:    seen,
		rng:     rng,
		trace:   trace,
		spatial: e.opts.Spatial,
	}

	start := time.Now()
	move, found, score := s.search(&pos, rootState(depth), make([]board.Move, 0, depth))
	res = Result{
		Move:    move,
		Found:   found,
		Score:   score,
		Depth:   depth,
		Nodes:   s.nodes,
		Elapsed: time.Since(start),
	}

	e.log.Debug().
		Str("fen", pos.FEN()).
		Int("depth", depth).
		Stringer("move", res.Move).
		Bool("found", found).
		Int("score", score).
		Uint64("nodes", s.nodes).
		Dur("elapsed", res.Elapsed).
		Msg("search finished")

	if cerr := ctx.Err(); cerr != nil {
		return res, fmt.Errorf("search interrupted: %w", cerr)
	}
	return res, nil
}

// Perft counts the leaf nodes of the legal move tree (for debugging move generation).
func Perft(pos board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		nodes += Perft(pos.Play(m), depth-1)
	}
	return nodes
}
