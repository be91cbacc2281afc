// Package policy provides the limits and transition rules a descent run
// is held to.
package policy

import (
	"fmt"
	"math"
	"math/big"
	"sync"
)

// ResolveStepCap returns the step cap for a run whose normalized seed has
// the given measure. A positive maxSteps is used as is. Otherwise the cap
// is measure+1: every accepted step strictly lowers the measure, so a run
// with sound obligations never reaches it. Measures beyond int saturate at
// math.MaxInt.
func ResolveStepCap(maxSteps int, measure *big.Int) int {
	if maxSteps > 0 {
		return maxSteps
	}
	if measure == nil || measure.Sign() < 0 {
		return math.MaxInt
	}
	limit := new(big.Int).Add(measure, big.NewInt(1))
	if !limit.IsInt64() || limit.Int64() > math.MaxInt {
		return math.MaxInt
	}
	return int(limit.Int64())
}

// StepBudget counts Vieta jumps against a cap.
type StepBudget struct {
	mu    sync.Mutex
	limit int
	used  int
}

// NewStepBudget allows at most limit steps.
func NewStepBudget(limit int) *StepBudget {
	return &StepBudget{limit: limit}
}

// CanStep reports whether one more step fits.
func (b *StepBudget) CanStep() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used < b.limit
}

// Step records one step, or returns ErrBudgetExceeded at the cap.
func (b *StepBudget) Step() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.used >= b.limit {
		return fmt.Errorf("%w: %d of %d steps", ErrBudgetExceeded, b.used, b.limit)
	}
	b.used++
	return nil
}

// Used returns the number of recorded steps.
func (b *StepBudget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Remaining returns the steps left before the cap.
func (b *StepBudget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.limit - b.used
}

// Limit returns the cap.
func (b *StepBudget) Limit() int {
	return b.limit
}
