// Package uci implements the line-based Universal Chess Interface driver.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/fixedply/internal/board"
	"github.com/hailam/fixedply/internal/engine"
	"github.com/hailam/fixedply/internal/storage"
)

// Engine identity
const (
	Name   = "FixedPly"
	Author = "FixedPly Team"
)

// Config carries the optional collaborators of the driver.
type Config struct {
	Seed    uint64           // tie-break seed, 0 = time based
	Trace   engine.Tracer    // debug trace sink, nil = disabled
	Journal *storage.Journal // game journal, nil = disabled
}

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine  *engine.Engine
	journal *storage.Journal
	trace   engine.Tracer
	log     zerolog.Logger

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // serializes writes to out

	position board.Position
	seen     board.SeenPositions
	game     *storage.Game

	seed uint64
	rng  *rand.Rand

	// Search state
	cancel     context.CancelFunc
	searchDone chan struct{}
}

// New creates a new UCI protocol handler reading commands from in and
// writing replies to out.
func New(eng *engine.Engine, cfg Config, logger zerolog.Logger, in io.Reader, out io.Writer) *UCI {
	u := &UCI{
		engine:  eng,
		journal: cfg.Journal,
		trace:   cfg.Trace,
		log:     logger,
		in:      in,
		out:     out,
	}
	u.setSeed(cfg.Seed)
	u.newGame()
	return u
}

// maxLineLength bounds a single command line. Longer lines are dropped
// with an error and reading continues with the next line.
const maxLineLength = 1 << 20

var errLineTooLong = errors.New("line too long")

// Run reads commands until quit or end of input. A running search is
// always allowed to finish and report before Run returns.
func (u *UCI) Run() error {
	r := bufio.NewReaderSize(u.in, maxLineLength)

	for {
		line, err := readLine(r)
		if errors.Is(err, errLineTooLong) {
			u.reject("input", err)
			continue
		}
		if line != "" && u.dispatch(line) {
			u.wait()
			return nil
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			u.wait()
			return err
		}
	}

	u.wait()
	return nil
}

// readLine returns the next trimmed line. A line that does not fit the
// reader's buffer is consumed up to its newline and reported as
// errLineTooLong. The last line may end at io.EOF without a newline.
func readLine(r *bufio.Reader) (string, error) {
	buf, err := r.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		for errors.Is(err, bufio.ErrBufferFull) {
			_, err = r.ReadSlice('\n')
		}
		if err != nil && err != io.EOF {
			return "", err
		}
		return "", errLineTooLong
	}
	return strings.TrimSpace(string(buf)), err
}

// dispatch runs one command line and reports whether it was quit.
func (u *UCI) dispatch(line string) bool {
	u.log.Debug().Str("line", line).Msg("recv")

	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		u.send("readyok")
	case "ucinewgame":
		u.wait()
		u.newGame()
	case "position":
		u.wait()
		u.handlePosition(args)
	case "go":
		u.wait()
		u.handleGo(args)
	case "stop":
		u.handleStop()
	case "quit":
		return true
	case "setoption":
		u.wait()
		u.handleSetOption(args)
	// Debug commands
	case "d":
		u.wait()
		u.handleDisplay()
	case "perft":
		u.wait()
		u.handlePerft(args)
	default:
		u.log.Debug().Str("command", cmd).Msg("ignoring unknown command")
	}
	return false
}

// send writes one reply line.
func (u *UCI) send(format string, args ...any) {
	line := fmt.Sprintf(format, args...)

	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintln(u.out, line)
	u.log.Debug().Str("line", line).Msg("send")
}

// reject reports a command that could not be applied. State is left as it was.
func (u *UCI) reject(cmd string, err error) {
	u.log.Warn().Err(err).Str("command", cmd).Msg("rejected command")
	u.send("info string error: %v", err)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	opts := u.engine.Options()
	u.send("id name %s", Name)
	u.send("id author %s", Author)
	u.send("option name Depth type spin default %d min 1 max 32", opts.Depth)
	u.send("option name Spatial type check default %t", opts.Spatial)
	u.send("option name Seed type spin default %d min 0 max %d", u.seed, uint64(1<<63-1))
	u.send("uciok")
}

// newGame resets the engine for a new game.
func (u *UCI) newGame() {
	u.position = board.NewPosition()
	u.seen = board.NewSeenPositions(u.position.Board)
	u.game = nil
	u.journalGame(board.StartFEN, nil)
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// The whole command is validated before any state changes.
func (u *UCI) handlePosition(args []string) {
	movesAt := slices.Index(args, "moves")
	head := args
	var moveStrs []string
	if movesAt >= 0 {
		head = args[:movesAt]
		moveStrs = args[movesAt+1:]
	}
	if len(head) == 0 {
		u.reject("position", errors.New("missing startpos or fen"))
		return
	}

	var (
		pos      board.Position
		startFEN string
		err      error
	)
	switch head[0] {
	case "startpos":
		pos = board.NewPosition()
		startFEN = board.StartFEN
	case "fen":
		startFEN = strings.Join(head[1:], " ")
		pos, err = board.ParseFEN(startFEN)
		if err != nil {
			u.reject("position", err)
			return
		}
	default:
		u.reject("position", fmt.Errorf("unknown position kind %q", head[0]))
		return
	}

	seen := board.NewSeenPositions(pos.Board)
	for _, s := range moveStrs {
		m, err := board.ParseMove(s, &pos)
		if err != nil {
			u.reject("position", err)
			return
		}
		pos = pos.Play(m)
		seen.Add(pos.Board)
	}

	u.position = pos
	u.seen = seen
	u.journalGame(startFEN, moveStrs)
}

// journalGame keeps the journal's current game in step with the position.
// A position that does not extend the current game starts a new one.
func (u *UCI) journalGame(startFEN string, moves []string) {
	if u.journal == nil {
		return
	}

	g := u.game
	if g == nil || g.StartFEN != startFEN || len(moves) < len(g.Moves) || !slices.Equal(g.Moves, moves[:len(g.Moves)]) {
		g = storage.NewGame(startFEN)
	}
	g.Moves = slices.Clone(moves)
	g.Seen = len(u.seen)

	if err := u.journal.SaveGame(g); err != nil {
		u.log.Warn().Err(err).Str("game", g.ID).Msg("failed to journal game")
	}
	u.game = g
}

// goOptions holds parsed "go" command options. Time controls are accepted
// and ignored: the search always runs to a fixed depth.
type goOptions struct {
	depth int
}

func parseGoOptions(args []string) (goOptions, error) {
	var opts goOptions
	for i := 0; i < len(args); i++ {
		if args[i] != "depth" {
			continue
		}
		if i+1 >= len(args) {
			return opts, errors.New("go depth: missing value")
		}
		d, err := strconv.Atoi(args[i+1])
		if err != nil || d < 1 {
			return opts, fmt.Errorf("go depth: invalid value %q", args[i+1])
		}
		opts.depth = d
		i++
	}
	return opts, nil
}

// handleGo starts a search on a snapshot of the current position.
func (u *UCI) handleGo(args []string) {
	opts, err := parseGoOptions(args)
	if err != nil {
		u.reject("go", err)
		return
	}
	depth := opts.depth
	if depth == 0 {
		depth = u.engine.Options().Depth
	}

	pos := u.position
	seen := u.seen.Clone()
	var gameID string
	if u.game != nil {
		gameID = u.game.ID
	}

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)
		defer cancel()

		res, err := u.engine.SearchDepth(ctx, pos, depth, seen, u.rng, u.trace)
		stopped := errors.Is(err, context.Canceled)
		if err != nil && !stopped {
			u.log.Error().Err(err).Str("fen", pos.FEN()).Msg("search failed")
		}

		if res.Found {
			u.send("info depth %d score %s nodes %d time %d pv %s",
				res.Depth, formatScore(res, pos.Turn), res.Nodes, res.Elapsed.Milliseconds(), res.Move)
			u.send("bestmove %s", res.Move)
		} else if legal := pos.LegalMoves(); len(legal) > 0 {
			// Stopped before any root move was fully searched.
			res.Move = legal[0]
			u.send("bestmove %s", res.Move)
		} else {
			u.send("bestmove 0000")
		}

		u.journalSearch(gameID, pos, res, stopped)
	}()
}

func (u *UCI) journalSearch(gameID string, pos board.Position, res engine.Result, stopped bool) {
	if u.journal == nil || gameID == "" {
		return
	}
	best := "0000"
	if len(pos.LegalMoves()) > 0 {
		best = res.Move.String()
	}
	rec := &storage.Search{
		GameID:   gameID,
		Ply:      pos.Ply(),
		FEN:      pos.FEN(),
		Depth:    res.Depth,
		BestMove: best,
		Score:    res.Score,
		Nodes:    res.Nodes,
		Elapsed:  res.Elapsed,
		Stopped:  stopped,
	}
	if err := u.journal.RecordSearch(rec); err != nil {
		u.log.Warn().Err(err).Str("game", gameID).Msg("failed to journal search")
	}
}

// formatScore renders a White-relative search score from the point of view
// of the side to move, as UCI expects.
func formatScore(res engine.Result, turn board.Color) string {
	rel := turn.Fold(res.Score, -res.Score)
	abs := max(rel, -rel)
	if abs < engine.MateScore {
		return fmt.Sprintf("cp %d", engine.Centipawns(rel))
	}

	// Mate scores carry the depth that was left when the mate was found.
	plies := res.Depth - (abs - engine.MateScore)
	moves := (plies + 1) / 2
	if rel < 0 {
		moves = -moves
	}
	return fmt.Sprintf("mate %d", moves)
}

// handleStop stops the current search.
func (u *UCI) handleStop() {
	if u.cancel != nil {
		u.cancel()
	}
	u.wait()
}

// wait blocks until the running search, if any, has reported.
func (u *UCI) wait() {
	if u.searchDone == nil {
		return
	}
	<-u.searchDone
	u.searchDone = nil
	u.cancel = nil
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil {
			u.reject("setoption", fmt.Errorf("depth: %w", err))
			return
		}
		if err := u.engine.SetDepth(depth); err != nil {
			u.reject("setoption", err)
		}
	case "spatial":
		on, err := strconv.ParseBool(value)
		if err != nil {
			u.reject("setoption", fmt.Errorf("spatial: %w", err))
			return
		}
		u.engine.SetSpatial(on)
	case "seed":
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			u.reject("setoption", fmt.Errorf("seed: %w", err))
			return
		}
		u.setSeed(seed)
	default:
		u.reject("setoption", fmt.Errorf("unknown option %q", name))
	}
}

// setSeed replaces the tie-break source. Zero seeds from the clock.
func (u *UCI) setSeed(seed uint64) {
	u.seed = seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	u.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// handleDisplay prints the current position.
func (u *UCI) handleDisplay() {
	for _, line := range strings.Split(strings.TrimRight(u.position.String(), "\n"), "\n") {
		u.send("info string %s", line)
	}
	u.send("info string fen %s", u.position.FEN())
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 0 {
			u.reject("perft", fmt.Errorf("invalid depth %q", args[0]))
			return
		}
		depth = d
	}

	start := time.Now()
	nodes := engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	u.send("info string perft depth %d nodes %d time %d", depth, nodes, elapsed.Milliseconds())
}
