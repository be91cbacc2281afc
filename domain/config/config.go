// Package config provides domain models for solver configuration.
package config

import "time"

// SolverConfig represents the complete solver configuration.
type SolverConfig struct {
	// Name is a human-readable name for this configuration.
	Name string `json:"name" yaml:"name"`
	// Version is the configuration schema version.
	Version string `json:"version" yaml:"version"`

	// Logging configures log output.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	// Engine configures single descents.
	Engine EngineConfig `json:"engine,omitempty" yaml:"engine,omitempty"`
	// Sweep configures batch runs over enumerated witnesses.
	Sweep SweepConfig `json:"sweep,omitempty" yaml:"sweep,omitempty"`
	// Storage configures where sweep results are kept.
	Storage StorageConfig `json:"storage,omitempty" yaml:"storage,omitempty"`
	// Telemetry configures tracing export.
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is json or console.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// EngineConfig configures single descents.
type EngineConfig struct {
	// MaxSteps caps the number of Vieta jumps. Zero derives the cap from
	// the seed measure.
	MaxSteps int `json:"max_steps,omitempty" yaml:"max_steps,omitempty"`
	// Timeout bounds a single descent (zero means no timeout).
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// SweepConfig configures batch runs.
type SweepConfig struct {
	// Problems lists the problem names to sweep (empty means all).
	Problems []string `json:"problems,omitempty" yaml:"problems,omitempty"`
	// Limit is how many witnesses to enumerate per problem.
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`
	// Concurrency is the maximum number of descents in flight.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	// Breaker configures the circuit breaker that stops a sweep after
	// repeated invariant violations.
	Breaker BreakerConfig `json:"breaker,omitempty" yaml:"breaker,omitempty"`
}

// BreakerConfig configures circuit breaker behavior.
type BreakerConfig struct {
	// Enabled enables the circuit breaker.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// Threshold is consecutive violations before opening.
	Threshold int `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	// Timeout is how long the circuit stays open.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// StorageConfig configures the result store.
type StorageConfig struct {
	// Backend is memory, badger, sqlite, postgres or redis.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`
	// Path is the badger directory or the sqlite database file. Empty with
	// the badger backend runs badger in memory.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// DSN is the postgres connection string.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	// Address is the redis host:port.
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// TelemetryConfig configures tracing export.
type TelemetryConfig struct {
	// Exporter is none, stdout or otlp.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	// Endpoint is the OTLP gRPC endpoint.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	// Insecure disables TLS for the OTLP exporter.
	Insecure bool `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `json:"service_name,omitempty" yaml:"service_name,omitempty"`
	// SampleRate is the fraction of traces sampled, 0 to 1.
	SampleRate float64 `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
}

// Storage backends.
const (
	BackendMemory = "memory"
	BackendBadger   = "badger"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Telemetry exporters.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Default returns the configuration used when no file is given.
func Default() *SolverConfig {
	return &SolverConfig{
		Name:    "descent",
		Version: "1",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Sweep: SweepConfig{
			Limit:       8,
			Concurrency: 4,
			Breaker: BreakerConfig{
				Enabled:   true,
				Threshold: 3,
				Timeout:   Duration(30 * time.Second),
			},
		},
		Storage: StorageConfig{
			Backend: BackendMemory,
		},
		Telemetry: TelemetryConfig{
			Exporter:    ExporterNone,
			Endpoint:    "localhost:4317",
			Insecure:    true,
			ServiceName: "descent",
			SampleRate:  1,
		},
	}
}

// Duration is a time.Duration that supports JSON/YAML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
