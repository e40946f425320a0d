package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/fixedply/internal/engine"
	"github.com/hailam/fixedply/internal/storage"
	"github.com/hailam/fixedply/internal/uci"
)

var defaults = engine.DefaultOptions()

var (
	depth    = flag.Int("depth", defaults.Depth, "search depth in plies")
	spatial  = flag.Bool("spatial", defaults.Spatial, "add the convex-hull spatial term to the evaluation")
	seed     = flag.Uint64("seed", 0, "tie-break seed (0 = time based)")
	trace    = flag.String("trace", "", "write the search trace to file")
	journal  = flag.String("journal", "", "keep a game journal in directory (\"default\" = user data dir)")
	logLevel = flag.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	logJSON  = flag.Bool("log-json", false, "log JSON lines instead of console output")
)

func main() {
	flag.Parse()

	// stdout belongs to the protocol; logs go to stderr.
	logger := newLogger()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal().Err(err).Str("level", *logLevel).Msg("invalid log level")
	}
	logger = logger.Level(level)

	opts := defaults
	opts.Depth = *depth
	opts.Spatial = *spatial
	eng := engine.New(opts, logger)
	cfg := uci.Config{Seed: *seed}

	if *trace != "" {
		f, err := os.Create(*trace)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not create trace file")
		}
		defer f.Close()
		cfg.Trace = engine.NewLogTracer(f)
		logger.Info().Str("path", *trace).Msg("search trace enabled")
	}

	if *journal != "" {
		dir := *journal
		if dir == "default" {
			dir = ""
		}
		j, err := storage.Open(dir)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not open journal")
		}
		defer j.Close()
		cfg.Journal = j
	}

	protocol := uci.New(eng, cfg, logger, os.Stdin, os.Stdout)
	if err := protocol.Run(); err != nil {
		logger.Error().Err(err).Msg("reading commands")
	}
}

func newLogger() zerolog.Logger {
	if *logJSON {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).With().Timestamp().Logger()
}
