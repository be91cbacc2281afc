// Package resilience provides resilient sweep execution using fortify.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
)

// ErrCircuitOpen is returned when a problem's breaker has tripped and the
// call was rejected without running.
var ErrCircuitOpen = errors.New("circuit breaker open")

// Executor runs sweep tasks with bulkhead, timeout and per-problem circuit
// breaker patterns, and persists results with retry.
type Executor[T any] struct {
	config   ExecutorConfig
	bulkhead bulkhead.Bulkhead[T]
	retrier  retry.Retry[struct{}]

	mu       sync.RWMutex
	breakers map[string]circuitbreaker.CircuitBreaker[T]
}

// ExecutorConfig configures the resilient executor.
type ExecutorConfig struct {
	// MaxConcurrent limits concurrent descents.
	MaxConcurrent int

	// BreakerEnabled turns on the per-problem circuit breaker.
	BreakerEnabled bool

	// CircuitBreakerThreshold is the number of consecutive failures before opening.
	CircuitBreakerThreshold int

	// CircuitBreakerTimeout is how long the circuit stays open.
	CircuitBreakerTimeout time.Duration

	// RetryMaxAttempts bounds attempts for persisting a result.
	RetryMaxAttempts int

	// RetryInitialDelay is the initial delay between persistence retries.
	RetryInitialDelay time.Duration

	// NonRetryableErrors are persistence errors that fail immediately.
	NonRetryableErrors []error

	// DefaultTimeout bounds a single task. Zero means no timeout.
	DefaultTimeout time.Duration
}

// DefaultExecutorConfig returns a configuration with sensible defaults.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxConcurrent:           4,
		BreakerEnabled:          true,
		CircuitBreakerThreshold: 3,
		CircuitBreakerTimeout:   30 * time.Second,
		RetryMaxAttempts:        3,
		RetryInitialDelay:       10 * time.Millisecond,
	}
}

// NewExecutor creates a new resilient executor.
func NewExecutor[T any](config ExecutorConfig) *Executor[T] {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}
	if config.CircuitBreakerThreshold <= 0 {
		config.CircuitBreakerThreshold = 3
	}
	if config.RetryMaxAttempts <= 0 {
		config.RetryMaxAttempts = 1
	}

	return &Executor[T]{
		config: config,
		bulkhead: bulkhead.New[T](bulkhead.Config{
			MaxConcurrent: config.MaxConcurrent,
		}),
		retrier: retry.New[struct{}](retry.Config{
			MaxAttempts:        config.RetryMaxAttempts,
			InitialDelay:       config.RetryInitialDelay,
			BackoffPolicy:      retry.BackoffExponential,
			Multiplier:         2.0,
			NonRetryableErrors: config.NonRetryableErrors,
		}),
		breakers: make(map[string]circuitbreaker.CircuitBreaker[T]),
	}
}

// Config returns the effective configuration.
func (e *Executor[T]) Config() ExecutorConfig {
	return e.config
}

// Execute runs fn for the named problem.
// Composition order: Bulkhead → Timeout → Circuit Breaker.
func (e *Executor[T]) Execute(ctx context.Context, problem string, fn func(context.Context) (T, error)) (T, error) {
	return e.bulkhead.Execute(ctx, func(ctx context.Context) (T, error) {
		if e.config.DefaultTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.config.DefaultTimeout)
			defer cancel()
		}

		if !e.config.BreakerEnabled {
			return fn(ctx)
		}

		ran := false
		result, err := e.breaker(problem).Execute(ctx, func(ctx context.Context) (T, error) {
			ran = true
			return fn(ctx)
		})
		if err != nil && !ran {
			return result, fmt.Errorf("%w: %s: %v", ErrCircuitOpen, problem, err)
		}
		return result, err
	})
}

// Persist runs a store write with retry.
func (e *Executor[T]) Persist(ctx context.Context, fn func(context.Context) error) error {
	_, err := e.retrier.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// BreakerState returns the breaker state for a problem ("closed" when none exists yet).
func (e *Executor[T]) BreakerState(problem string) string {
	e.mu.RLock()
	breaker, exists := e.breakers[problem]
	e.mu.RUnlock()
	if !exists {
		return "closed"
	}
	return breaker.State().String()
}

func (e *Executor[T]) breaker(problem string) circuitbreaker.CircuitBreaker[T] {
	e.mu.RLock()
	breaker, exists := e.breakers[problem]
	e.mu.RUnlock()
	if exists {
		return breaker
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if breaker, exists = e.breakers[problem]; exists {
		return breaker
	}

	threshold := e.config.CircuitBreakerThreshold
	breaker = circuitbreaker.New[T](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    e.config.CircuitBreakerTimeout,
		Timeout:     e.config.CircuitBreakerTimeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold) // #nosec G115 -- threshold is positive
		},
	})
	e.breakers[problem] = breaker

	return breaker
}
