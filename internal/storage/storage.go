package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Storage keys
const (
	keyStats     = "stats"
	prefixGame   = "game/"
	prefixSearch = "search/"
)

// ErrGameNotFound is returned when no game is stored under an id.
var ErrGameNotFound = errors.New("game not found")

// Game is one game as seen by the engine: the position the GUI started it
// from and the moves played since.
type Game struct {
	ID       string    `json:"id"`
	StartFEN string    `json:"start_fen"`
	Moves    []string  `json:"moves"`
	Seen     int       `json:"seen"` // distinct boards reached in the game
	Started  time.Time `json:"started"`
	Updated  time.Time `json:"updated"`
}

// Search is the outcome of one go command.
type Search struct {
	GameID   string        `json:"game_id"`
	Ply      int           `json:"ply"`
	FEN      string        `json:"fen"`
	Depth    int           `json:"depth"`
	BestMove string        `json:"best_move"`
	Score    int           `json:"score"`
	Nodes    uint64        `json:"nodes"`
	Elapsed  time.Duration `json:"elapsed"`
	Stopped  bool          `json:"stopped"`
	At       time.Time     `json:"at"`
}

// Stats aggregates every search ever recorded.
type Stats struct {
	Games       int           `json:"games"`
	Searches    int           `json:"searches"`
	Nodes       uint64        `json:"nodes"`
	SearchTime  time.Duration `json:"search_time"`
	LastUpdated time.Time     `json:"last_updated"`
}

// NodesPerSecond returns the average search speed.
func (s *Stats) NodesPerSecond() float64 {
	if s.SearchTime <= 0 {
		return 0
	}
	return float64(s.Nodes) / s.SearchTime.Seconds()
}

// Journal wraps BadgerDB to keep a record of games and searches.
type Journal struct {
	db *badger.DB
}

// Open opens the journal stored in dir, or in the default data directory
// when dir is empty.
func Open(dir string) (*Journal, error) {
	if dir == "" {
		var err error
		dir, err = GetDatabaseDir()
		if err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", dir, err)
	}
	return &Journal{db: db}, nil
}

// OpenInMemory opens a journal that is discarded on Close.
func OpenInMemory() (*Journal, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the database
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// NewGame returns a game with a fresh id. It is not stored until SaveGame.
func NewGame(startFEN string) *Game {
	now := time.Now()
	return &Game{
		ID:       uuid.NewString(),
		StartFEN: startFEN,
		Started:  now,
		Updated:  now,
	}
}

func gameKey(id string) []byte {
	return []byte(prefixGame + id)
}

// searchKey orders the searches of a game by ply under a common prefix.
func searchKey(id string, ply int) []byte {
	return []byte(fmt.Sprintf("%s%s/%06d", prefixSearch, id, ply))
}

// SaveGame stores g, counting it in the stats the first time it is seen.
func (j *Journal) SaveGame(g *Game) error {
	g.Updated = time.Now()
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}

	return j.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(gameKey(g.ID))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			if err := updateStats(txn, func(s *Stats) { s.Games++ }); err != nil {
				return err
			}
		case err != nil:
			return err
		}
		return txn.Set(gameKey(g.ID), data)
	})
}

// LoadGame loads the game stored under id.
func (j *Journal) LoadGame(id string) (*Game, error) {
	g := &Game{}
	err := j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, g)
		})
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// RecordSearch stores s under its game and ply and updates the stats.
// A later search at the same ply replaces the earlier one.
func (j *Journal) RecordSearch(s *Search) error {
	if s.At.IsZero() {
		s.At = time.Now()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return j.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(searchKey(s.GameID, s.Ply), data); err != nil {
			return err
		}
		return updateStats(txn, func(st *Stats) {
			st.Searches++
			st.Nodes += s.Nodes
			st.SearchTime += s.Elapsed
		})
	})
}

// Searches returns the searches recorded for a game in ply order.
func (j *Journal) Searches(gameID string) ([]Search, error) {
	var out []Search
	err := j.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixSearch + gameID + "/")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var s Search
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &s)
			}); err != nil {
				return err
			}
			out = append(out, s)
		}
		return nil
	})
	return out, err
}

// LoadStats loads the aggregate stats, returns empty stats if not found
func (j *Journal) LoadStats() (*Stats, error) {
	stats := &Stats{}
	err := j.db.View(func(txn *badger.Txn) error {
		return readStats(txn, stats)
	})
	return stats, err
}

func readStats(txn *badger.Txn, stats *Stats) error {
	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil // Use empty stats
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
}

func updateStats(txn *badger.Txn, fn func(*Stats)) error {
	stats := &Stats{}
	if err := readStats(txn, stats); err != nil {
		return err
	}
	fn(stats)
	stats.LastUpdated = time.Now()

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return txn.Set([]byte(keyStats), data)
}
