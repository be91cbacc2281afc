package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestWithMaxConcurrent(t *testing.T) {
	t.Parallel()

	config := DefaultExecutorConfig()
	WithMaxConcurrent(20)(&config)

	if config.MaxConcurrent != 20 {
		t.Errorf("MaxConcurrent = %d, want 20", config.MaxConcurrent)
	}
}

func TestWithCircuitBreaker(t *testing.T) {
	t.Parallel()

	config := DefaultExecutorConfig()
	WithoutCircuitBreaker()(&config)
	if config.BreakerEnabled {
		t.Fatal("WithoutCircuitBreaker should disable the breaker")
	}

	WithCircuitBreaker(10, time.Minute)(&config)
	if !config.BreakerEnabled {
		t.Error("WithCircuitBreaker should enable the breaker")
	}
	if config.CircuitBreakerThreshold != 10 {
		t.Errorf("CircuitBreakerThreshold = %d, want 10", config.CircuitBreakerThreshold)
	}
	if config.CircuitBreakerTimeout != time.Minute {
		t.Errorf("CircuitBreakerTimeout = %v, want 1m", config.CircuitBreakerTimeout)
	}
}

func TestWithRetry(t *testing.T) {
	t.Parallel()

	errFatal := errors.New("fatal")
	config := DefaultExecutorConfig()
	WithRetryAttempts(5)(&config)
	WithRetryDelay(200 * time.Millisecond)(&config)
	WithNonRetryable(errFatal)(&config)

	if config.RetryMaxAttempts != 5 {
		t.Errorf("RetryMaxAttempts = %d, want 5", config.RetryMaxAttempts)
	}
	if config.RetryInitialDelay != 200*time.Millisecond {
		t.Errorf("RetryInitialDelay = %v, want 200ms", config.RetryInitialDelay)
	}
	if len(config.NonRetryableErrors) != 1 || config.NonRetryableErrors[0] != errFatal {
		t.Errorf("NonRetryableErrors = %v", config.NonRetryableErrors)
	}
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	config := DefaultExecutorConfig()
	WithTimeout(60 * time.Second)(&config)

	if config.DefaultTimeout != 60*time.Second {
		t.Errorf("DefaultTimeout = %v, want 60s", config.DefaultTimeout)
	}
}

func TestNewExecutorWithOptions(t *testing.T) {
	t.Parallel()

	executor := NewExecutorWithOptions[int](
		WithMaxConcurrent(8),
		WithCircuitBreaker(5, time.Second),
		WithRetryAttempts(2),
	)

	got := executor.Config()
	if got.MaxConcurrent != 8 || got.CircuitBreakerThreshold != 5 || got.RetryMaxAttempts != 2 {
		t.Errorf("Config() = %+v", got)
	}
}
