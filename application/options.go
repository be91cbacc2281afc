package application

import (
	"time"

	"github.com/felixgeelhaar/descent/domain/ledger"
	"github.com/felixgeelhaar/descent/domain/policy"
	"github.com/felixgeelhaar/descent/infrastructure/telemetry"
)

// Option configures the engine.
type Option func(*EngineConfig)

// WithMaxSteps sets the iteration cap. Zero derives the cap from the
// normalized witness.
func WithMaxSteps(n int) Option {
	return func(c *EngineConfig) {
		c.MaxSteps = n
	}
}

// WithTimeout bounds a whole Solve call.
func WithTimeout(d time.Duration) Option {
	return func(c *EngineConfig) {
		c.Timeout = d
	}
}

// WithTransitions sets the state transitions configuration.
func WithTransitions(t *policy.StateTransitions) Option {
	return func(c *EngineConfig) {
		c.Transitions = t
	}
}

// WithPublisher sets the publisher that receives run events.
func WithPublisher(p ledger.EventPublisher) Option {
	return func(c *EngineConfig) {
		c.Publisher = p
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(c *EngineConfig) {
		c.Metrics = m
	}
}

// WithTracer sets the run tracer.
func WithTracer(t *telemetry.Tracer) Option {
	return func(c *EngineConfig) {
		c.Tracer = t
	}
}

// WithTelemetry takes both the tracer and the metrics of a provider.
func WithTelemetry(p *telemetry.Provider) Option {
	return func(c *EngineConfig) {
		if p == nil {
			return
		}
		c.Tracer = p.Tracer()
		c.Metrics = p.Metrics()
	}
}

// NewEngineWithOptions creates an engine with functional options.
func NewEngineWithOptions(opts ...Option) (*Engine, error) {
	config := EngineConfig{}
	for _, opt := range opts {
		opt(&config)
	}
	return NewEngine(config)
}
