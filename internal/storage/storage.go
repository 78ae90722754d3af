package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/fgantt/shogi-engine/internal/engine"
)

// Storage keys.
const (
	keyEvalConfig  = "eval_config"
	keySessionStat = "session_stats"
)

// Difficulty maps a coarse difficulty preset onto concrete search limits and
// evaluation weights, letting a host offer "Easy/Medium/Hard" without
// exposing the full configuration surface.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// DifficultyPreset bundles the search depth/time budget and eval weight
// scaling associated with a Difficulty level.
type DifficultyPreset struct {
	MaxDepth    int
	TimeMS      int
	WeightScale float64 // multiplies all non-material weights, simulating weaker positional play
}

func (d Difficulty) Preset() DifficultyPreset {
	switch d {
	case DifficultyEasy:
		return DifficultyPreset{MaxDepth: 4, TimeMS: 500, WeightScale: 0.4}
	case DifficultyHard:
		return DifficultyPreset{MaxDepth: 24, TimeMS: 15000, WeightScale: 1.0}
	default:
		return DifficultyPreset{MaxDepth: 12, TimeMS: 3000, WeightScale: 0.75}
	}
}

// SessionStats tracks aggregate search activity across engine invocations,
// persisted so a host can surface lifetime totals.
type SessionStats struct {
	SearchesRun   int       `json:"searches_run"`
	TotalNodes    uint64    `json:"total_nodes"`
	TotalSearchNS int64     `json:"total_search_ns"`
	LastRun       time.Time `json:"last_run"`
}

func NewSessionStats() *SessionStats {
	return &SessionStats{}
}

func (s *SessionStats) AverageNPS() float64 {
	if s.TotalSearchNS == 0 {
		return 0
	}
	return float64(s.TotalNodes) / (float64(s.TotalSearchNS) / 1e9)
}

// Storage wraps BadgerDB for persisting evaluator configuration and session
// statistics, the only durable state this engine keeps.
type Storage struct {
	db *badger.DB
}

// NewStorage opens (creating if absent) the engine's config/stats database
// at the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return openAt(dbDir)
}

// NewStorageAt opens the database at an explicit directory, used by tests
// and hosts that manage their own data directory layout.
func NewStorageAt(dir string) (*Storage, error) {
	return openAt(dir)
}

func openAt(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveEvalConfig persists the evaluator's weight/component/interpolation
// configuration as JSON.
func (s *Storage) SaveEvalConfig(cfg engine.EvalConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyEvalConfig), data)
	})
}

// LoadEvalConfig loads the persisted configuration, returning
// engine.DefaultEvalConfig() if none has been saved yet.
func (s *Storage) LoadEvalConfig() (engine.EvalConfig, error) {
	cfg := engine.DefaultEvalConfig()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyEvalConfig))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			loaded, err := engine.ParseEvalConfig(val)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		})
	})

	return cfg, err
}

// SaveSessionStats persists lifetime search activity counters.
func (s *Storage) SaveSessionStats(stats *SessionStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keySessionStat), data)
	})
}

// LoadSessionStats loads lifetime search activity counters, returning empty
// stats if none have been saved yet.
func (s *Storage) LoadSessionStats() (*SessionStats, error) {
	stats := NewSessionStats()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keySessionStat))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordSearch folds one completed search's node count and wall-clock
// duration into the persisted session statistics.
func (s *Storage) RecordSearch(nodes uint64, elapsed time.Duration) error {
	stats, err := s.LoadSessionStats()
	if err != nil {
		return err
	}
	stats.SearchesRun++
	stats.TotalNodes += nodes
	stats.TotalSearchNS += elapsed.Nanoseconds()
	stats.LastRun = time.Now()
	return s.SaveSessionStats(stats)
}
