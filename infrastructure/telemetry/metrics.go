// Package telemetry provides OpenTelemetry metrics and tracing for descent runs.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics is the recording surface the engine and sweeper depend on.
type Metrics interface {
	RecordRunStarted(ctx context.Context, problem string)
	RecordRunFinished(ctx context.Context, problem, kind string, success bool, steps int, duration time.Duration)
	RecordStep(ctx context.Context, problem string)
	RecordStateTransition(ctx context.Context, fromState, toState string)
	RecordViolation(ctx context.Context, problem, obligation string)
	RecordSweepWitness(ctx context.Context, problem, outcome string)
	RecordCircuitBreakerStateChange(ctx context.Context, name string, isOpen bool)
}

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	runs             metric.Int64Counter
	steps            metric.Int64Counter
	stateTransitions metric.Int64Counter
	violations       metric.Int64Counter
	sweepWitnesses   metric.Int64Counter

	// Histograms
	runDuration metric.Float64Histogram
	runSteps    metric.Int64Histogram

	// Gauges (using UpDownCounter for OpenTelemetry)
	activeRuns         metric.Int64UpDownCounter
	circuitBreakerOpen metric.Int64UpDownCounter

	initOnce sync.Once
	initErr  error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter (default: "github.com/felixgeelhaar/descent").
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/descent",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider bound to the global meter provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	meter := otel.GetMeterProvider().Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{
		meter: meter,
	}

	mp.initOnce.Do(func() {
		mp.initErr = mp.initInstruments()
	})

	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.runs, err = mp.meter.Int64Counter(
		"descent.runs",
		metric.WithDescription("Number of finished descent runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	mp.steps, err = mp.meter.Int64Counter(
		"descent.steps",
		metric.WithDescription("Number of Vieta jumps taken"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return err
	}

	mp.stateTransitions, err = mp.meter.Int64Counter(
		"descent.state.transitions",
		metric.WithDescription("Number of machine state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	mp.violations, err = mp.meter.Int64Counter(
		"descent.violations",
		metric.WithDescription("Number of broken proof obligations"),
		metric.WithUnit("{violation}"),
	)
	if err != nil {
		return err
	}

	mp.sweepWitnesses, err = mp.meter.Int64Counter(
		"descent.sweep.witnesses",
		metric.WithDescription("Witnesses processed by sweeps, by outcome"),
		metric.WithUnit("{witness}"),
	)
	if err != nil {
		return err
	}

	mp.runDuration, err = mp.meter.Float64Histogram(
		"descent.run.duration",
		metric.WithDescription("Duration of descent runs"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.runSteps, err = mp.meter.Int64Histogram(
		"descent.run.steps",
		metric.WithDescription("Descent length per run"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return err
	}

	mp.activeRuns, err = mp.meter.Int64UpDownCounter(
		"descent.runs.active",
		metric.WithDescription("Number of runs in progress"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	mp.circuitBreakerOpen, err = mp.meter.Int64UpDownCounter(
		"descent.circuit_breaker.open",
		metric.WithDescription("Number of open sweep circuit breakers"),
		metric.WithUnit("{breaker}"),
	)
	return err
}

// Error returns any error that occurred during initialization.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordRunStarted marks a run as active.
func (mp *MetricsProvider) RecordRunStarted(ctx context.Context, problem string) {
	if mp.activeRuns == nil {
		return
	}
	mp.activeRuns.Add(ctx, 1, metric.WithAttributes(attribute.String("problem", problem)))
}

// RecordRunFinished records the outcome of a run and releases its active slot.
func (mp *MetricsProvider) RecordRunFinished(ctx context.Context, problem, kind string, success bool, steps int, duration time.Duration) {
	if mp.runs == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("problem", problem),
		attribute.String("kind", kind),
		attribute.Bool("success", success),
	)
	mp.runs.Add(ctx, 1, attrs)
	mp.runDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	mp.runSteps.Record(ctx, int64(steps), attrs)
	mp.activeRuns.Add(ctx, -1, metric.WithAttributes(attribute.String("problem", problem)))
}

// RecordStep counts one descent step.
func (mp *MetricsProvider) RecordStep(ctx context.Context, problem string) {
	if mp.steps == nil {
		return
	}
	mp.steps.Add(ctx, 1, metric.WithAttributes(attribute.String("problem", problem)))
}

// RecordStateTransition records a state machine transition.
func (mp *MetricsProvider) RecordStateTransition(ctx context.Context, fromState, toState string) {
	if mp.stateTransitions == nil {
		return
	}
	mp.stateTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from_state", fromState),
		attribute.String("to_state", toState),
	))
}

// RecordViolation counts a broken obligation.
func (mp *MetricsProvider) RecordViolation(ctx context.Context, problem, obligation string) {
	if mp.violations == nil {
		return
	}
	mp.violations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("problem", problem),
		attribute.String("obligation", obligation),
	))
}

// RecordSweepWitness counts a witness handled by a sweep.
func (mp *MetricsProvider) RecordSweepWitness(ctx context.Context, problem, outcome string) {
	if mp.sweepWitnesses == nil {
		return
	}
	mp.sweepWitnesses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("problem", problem),
		attribute.String("outcome", outcome),
	))
}

// RecordCircuitBreakerStateChange records a circuit breaker state change.
func (mp *MetricsProvider) RecordCircuitBreakerStateChange(ctx context.Context, name string, isOpen bool) {
	if mp.circuitBreakerOpen == nil {
		return
	}
	var delta int64 = -1
	if isOpen {
		delta = 1
	}
	mp.circuitBreakerOpen.Add(ctx, delta, metric.WithAttributes(attribute.String("breaker", name)))
}

var _ Metrics = (*MetricsProvider)(nil)

// NoopMetricsProvider is a no-op implementation for when metrics are disabled.
type NoopMetricsProvider struct{}

// RecordRunStarted is a no-op.
func (NoopMetricsProvider) RecordRunStarted(context.Context, string) {}

// RecordRunFinished is a no-op.
func (NoopMetricsProvider) RecordRunFinished(context.Context, string, string, bool, int, time.Duration) {
}

// RecordStep is a no-op.
func (NoopMetricsProvider) RecordStep(context.Context, string) {}

// RecordStateTransition is a no-op.
func (NoopMetricsProvider) RecordStateTransition(context.Context, string, string) {}

// RecordViolation is a no-op.
func (NoopMetricsProvider) RecordViolation(context.Context, string, string) {}

// RecordSweepWitness is a no-op.
func (NoopMetricsProvider) RecordSweepWitness(context.Context, string, string) {}

// RecordCircuitBreakerStateChange is a no-op.
func (NoopMetricsProvider) RecordCircuitBreakerStateChange(context.Context, string, bool) {}

var _ Metrics = NoopMetricsProvider{}
