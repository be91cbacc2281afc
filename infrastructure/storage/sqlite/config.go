// Package sqlite provides a SQLite-backed result store.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrConnectionFailed = errors.New("sqlite: connection failed")
	ErrMigrationFailed  = errors.New("sqlite: migration failed")
)

// Config describes the database file and pool of a result store.
type Config struct {
	// DSN is a go-sqlite3 data source, e.g. "file:results.db?mode=rwc".
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// AutoMigrate creates the results table and its indexes on open.
	AutoMigrate bool

	// JournalMode and BusyTimeout (milliseconds) are applied as pragmas
	// when set.
	JournalMode string
	BusyTimeout int

	Table string
}

// DefaultConfig writes to descent.db in WAL mode.
func DefaultConfig() Config {
	return Config{
		DSN:             "file:descent.db?cache=shared&mode=rwc",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 10 * time.Minute,
		AutoMigrate:     true,
		JournalMode:     "WAL",
		BusyTimeout:     5000,
		Table:           "results",
	}
}

// Option overrides one field of a Config.
type Option func(*Config)

// WithDSN sets the data source.
func WithDSN(dsn string) Option {
	return func(c *Config) { c.DSN = dsn }
}

// WithMaxOpenConns caps open connections.
func WithMaxOpenConns(n int) Option {
	return func(c *Config) { c.MaxOpenConns = n }
}

// WithJournalMode sets the journal_mode pragma; empty leaves the default.
func WithJournalMode(mode string) Option {
	return func(c *Config) { c.JournalMode = mode }
}

// WithBusyTimeout sets the busy_timeout pragma in milliseconds.
func WithBusyTimeout(ms int) Option {
	return func(c *Config) { c.BusyTimeout = ms }
}

// WithTable stores records in the named table.
func WithTable(name string) Option {
	return func(c *Config) { c.Table = name }
}

// WithoutMigration skips table creation on open.
func WithoutMigration() Option {
	return func(c *Config) { c.AutoMigrate = false }
}

func (c Config) pragmas() []string {
	var out []string
	if c.JournalMode != "" {
		out = append(out, "PRAGMA journal_mode="+c.JournalMode)
	}
	if c.BusyTimeout > 0 {
		out = append(out, fmt.Sprintf("PRAGMA busy_timeout=%d", c.BusyTimeout))
	}
	return out
}

func openDB(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	for _, pragma := range cfg.pragmas() {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Join(ErrMigrationFailed, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	return db, nil
}
