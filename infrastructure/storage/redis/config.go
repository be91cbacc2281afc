// Package redis provides a Redis-backed result store.
package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Config describes the Redis connection of a result store.
type Config struct {
	Address  string
	Password string
	DB       int

	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int

	// KeyPrefix namespaces every key the store writes.
	KeyPrefix string
}

// DefaultConfig targets a local server under the "descent:" namespace.
func DefaultConfig() Config {
	return Config{
		Address:      "localhost:6379",
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    "descent:",
	}
}

// ConfigOption overrides one field of a Config.
type ConfigOption func(*Config)

// WithAddress sets host:port.
func WithAddress(addr string) ConfigOption {
	return func(c *Config) { c.Address = addr }
}

// WithPassword sets the AUTH password.
func WithPassword(password string) ConfigOption {
	return func(c *Config) { c.Password = password }
}

// WithDB selects a logical database.
func WithDB(db int) ConfigOption {
	return func(c *Config) { c.DB = db }
}

// WithKeyPrefix sets the key namespace.
func WithKeyPrefix(prefix string) ConfigOption {
	return func(c *Config) { c.KeyPrefix = prefix }
}

// WithPoolSize caps open connections.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) { c.PoolSize = size }
}

// WithTimeouts sets the dial, read and write deadlines.
func WithTimeouts(dial, read, write time.Duration) ConfigOption {
	return func(c *Config) {
		c.DialTimeout, c.ReadTimeout, c.WriteTimeout = dial, read, write
	}
}

func (c Config) clientOptions() *redis.Options {
	return &redis.Options{
		Addr:         c.Address,
		Password:     c.Password,
		DB:           c.DB,
		MaxRetries:   c.MaxRetries,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
}
