package config

import (
	"fmt"
	"time"

	domainconfig "github.com/felixgeelhaar/descent/domain/config"
	"github.com/felixgeelhaar/descent/domain/policy"
	"github.com/felixgeelhaar/descent/domain/result"
	"github.com/felixgeelhaar/descent/infrastructure/logging"
	"github.com/felixgeelhaar/descent/infrastructure/resilience"
)

// Builder turns a SolverConfig into the settings each component consumes.
type Builder struct {
	config *domainconfig.SolverConfig
}

// NewBuilder creates a new configuration builder.
func NewBuilder(config *domainconfig.SolverConfig) *Builder {
	return &Builder{config: config}
}

// BuildResult contains the built components from configuration.
type BuildResult struct {
	// Logging configures the process logger.
	Logging logging.Config
	// MaxSteps is the engine step cap (zero derives it from the witness).
	MaxSteps int
	// Timeout bounds a single descent.
	Timeout time.Duration
	// Transitions is the machine transition table.
	Transitions *policy.StateTransitions
	// Executor configures sweep execution.
	Executor resilience.ExecutorConfig
	// Problems restricts sweeps to these families (empty means all).
	Problems []string
	// Limit is the number of witnesses per family in a sweep.
	Limit int
	// Storage selects the result store.
	Storage domainconfig.StorageConfig
	// Telemetry configures tracing export.
	Telemetry domainconfig.TelemetryConfig
}

// Build builds the component settings from configuration.
func (b *Builder) Build() (*BuildResult, error) {
	if b.config == nil {
		return nil, fmt.Errorf("%w: nil config", domainconfig.ErrValidationFailed)
	}
	if errs := domainconfig.NewValidator().Validate(b.config); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %v", domainconfig.ErrValidationFailed, errs)
	}

	result := &BuildResult{
		MaxSteps:    b.config.Engine.MaxSteps,
		Timeout:     b.config.Engine.Timeout.Duration(),
		Transitions: policy.DefaultTransitions(),
		Problems:    append([]string(nil), b.config.Sweep.Problems...),
		Limit:       b.config.Sweep.Limit,
		Storage:     b.config.Storage,
		Telemetry:   b.config.Telemetry,
	}

	result.Logging = b.buildLogging()
	result.Executor = b.buildExecutor()

	if result.Limit <= 0 {
		result.Limit = domainconfig.Default().Sweep.Limit
	}
	if result.Storage.Backend == "" {
		result.Storage.Backend = domainconfig.BackendMemory
	}

	return result, nil
}

func (b *Builder) buildLogging() logging.Config {
	cfg := logging.DefaultConfig()
	if b.config.Logging.Level != "" {
		cfg.Level = b.config.Logging.Level
	}
	if b.config.Logging.Format != "" {
		cfg.Format = b.config.Logging.Format
	}
	return cfg
}

func (b *Builder) buildExecutor() resilience.ExecutorConfig {
	cfg := resilience.DefaultExecutorConfig()
	if b.config.Sweep.Concurrency > 0 {
		cfg.MaxConcurrent = b.config.Sweep.Concurrency
	}

	breaker := b.config.Sweep.Breaker
	cfg.BreakerEnabled = breaker.Enabled
	if breaker.Threshold > 0 {
		cfg.CircuitBreakerThreshold = breaker.Threshold
	}
	if breaker.Timeout > 0 {
		cfg.CircuitBreakerTimeout = breaker.Timeout.Duration()
	}

	cfg.DefaultTimeout = b.config.Engine.Timeout.Duration()
	cfg.NonRetryableErrors = []error{result.ErrInvalidRecord}
	return cfg
}
