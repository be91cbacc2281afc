package redis

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Address != "localhost:6379" {
		t.Errorf("Address = %s, want localhost:6379", cfg.Address)
	}
	if cfg.KeyPrefix != "descent:" {
		t.Errorf("KeyPrefix = %s, want descent:", cfg.KeyPrefix)
	}
	if cfg.PoolSize != 10 || cfg.MinIdleConns != 2 || cfg.MaxRetries != 3 {
		t.Errorf("pool settings = %+v", cfg)
	}
}

func TestConfigOptions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	for _, opt := range []ConfigOption{
		WithAddress("redis.example.com:6380"),
		WithPassword("secret"),
		WithDB(3),
		WithKeyPrefix("test:"),
		WithPoolSize(25),
		WithTimeouts(time.Second, 2*time.Second, 3*time.Second),
	} {
		opt(&cfg)
	}

	want := Config{
		Address:      "redis.example.com:6380",
		Password:     "secret",
		DB:           3,
		MaxRetries:   3,
		DialTimeout:  time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     25,
		MinIdleConns: 2,
		KeyPrefix:    "test:",
	}
	if cfg != want {
		t.Errorf("config = %+v, want %+v", cfg, want)
	}
}

func TestConfig_ClientOptions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	WithAddress("cache:6379")(&cfg)
	WithDB(2)(&cfg)

	opts := cfg.clientOptions()
	if opts.Addr != "cache:6379" || opts.DB != 2 || opts.PoolSize != 10 {
		t.Errorf("client options = %+v", opts)
	}
}
