// Package badger provides a BadgerDB-backed result store.
package badger

import (
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/felixgeelhaar/descent/domain/result"
)

// Config describes where and how a result store keeps its data.
type Config struct {
	// Dir holds the value log. An empty Dir keeps everything in memory.
	Dir      string
	InMemory bool

	SyncWrites bool

	// GCInterval is how often the value log is compacted on disk;
	// zero disables it.
	GCInterval     time.Duration
	GCDiscardRatio float64

	KeyPrefix string

	// Logger receives badger's own logs; nil keeps it quiet.
	Logger badger.Logger
}

// DefaultConfig compacts every five minutes once a Dir is set.
func DefaultConfig() Config {
	return Config{
		GCDiscardRatio: 0.5,
		GCInterval:     5 * time.Minute,
	}
}

// Option overrides one field of a Config.
type Option func(*Config)

// WithDir persists records under dir.
func WithDir(dir string) Option {
	return func(c *Config) {
		c.Dir = dir
		c.InMemory = dir == ""
	}
}

// WithInMemory discards records on Close.
func WithInMemory() Option {
	return func(c *Config) {
		c.Dir = ""
		c.InMemory = true
	}
}

// WithSyncWrites fsyncs every write.
func WithSyncWrites() Option {
	return func(c *Config) { c.SyncWrites = true }
}

// WithGCInterval sets the compaction interval.
func WithGCInterval(d time.Duration) Option {
	return func(c *Config) { c.GCInterval = d }
}

// WithKeyPrefix namespaces every key.
func WithKeyPrefix(prefix string) Option {
	return func(c *Config) { c.KeyPrefix = prefix }
}

// WithLogger forwards badger's logs.
func WithLogger(logger badger.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

func (c Config) inMemory() bool {
	return c.InMemory || c.Dir == ""
}

func openDB(cfg Config) (*badger.DB, error) {
	opts := badger.DefaultOptions(cfg.Dir).
		WithInMemory(cfg.inMemory()).
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(cfg.Logger)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Join(result.ErrConnectionFailed, err)
	}
	return db, nil
}
