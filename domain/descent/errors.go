package descent

import (
	"errors"
	"fmt"
)

// Domain errors for descent runs.
var (
	// ErrInvariantViolation indicates a caller-declared obligation does not hold.
	ErrInvariantViolation = errors.New("descent invariant violated")

	// ErrIterationCapExceeded indicates the step cap was hit. Under a correct
	// descent bound this cannot happen, so it is an invariant violation.
	ErrIterationCapExceeded = fmt.Errorf("%w: iteration cap exceeded", ErrInvariantViolation)

	// ErrInvalidWitness indicates the starting pair is malformed.
	ErrInvalidWitness = errors.New("invalid witness")

	// ErrInvalidProblem indicates a problem is missing required functions.
	ErrInvalidProblem = errors.New("invalid problem")

	// ErrNotExceptional indicates a discharge was requested for a pair on
	// which descent must continue.
	ErrNotExceptional = errors.New("pair is not exceptional")

	// ErrRunTerminated indicates an operation was attempted on a terminated run.
	ErrRunTerminated = errors.New("run already terminated")
)

// Obligation names a caller-declared property the engine asserts at runtime.
type Obligation string

// Obligations checked during a run.
const (
	ObligationQuadratic Obligation = "quadratic" // H(x,y) iff y² - B(x)y + C(x) = 0
	ObligationSymmetry  Obligation = "symmetry"  // H(x,y) iff H(y,x)
	ObligationDescent   Obligation = "descent"   // 0 <= partner <= x on non-exceptional pairs
	ObligationStepCap   Obligation = "step_cap"
)

// InvariantError reports which obligation failed and where.
type InvariantError struct {
	Obligation Obligation
	Pair       Pair
	Detail     string
}

// Violation creates an InvariantError.
func Violation(obligation Obligation, pair Pair, format string, args ...any) *InvariantError {
	return &InvariantError{
		Obligation: obligation,
		Pair:       pair,
		Detail:     fmt.Sprintf(format, args...),
	}
}

// Error implements error.
func (e *InvariantError) Error() string {
	if e.Obligation == ObligationStepCap {
		return fmt.Sprintf("%s at %s: %s", ErrIterationCapExceeded, e.Pair, e.Detail)
	}
	return fmt.Sprintf("%s: %s at %s: %s", ErrInvariantViolation, e.Obligation, e.Pair, e.Detail)
}

// Unwrap makes errors.Is match ErrInvariantViolation, and
// ErrIterationCapExceeded for step cap violations.
func (e *InvariantError) Unwrap() error {
	if e.Obligation == ObligationStepCap {
		return ErrIterationCapExceeded
	}
	return ErrInvariantViolation
}
