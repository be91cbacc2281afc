package policy

import "errors"

var (
	// ErrBudgetExceeded is returned when a run has used its step cap.
	ErrBudgetExceeded = errors.New("step budget exceeded")

	// ErrTransitionNotAllowed is returned for a run state change outside
	// the transition rules.
	ErrTransitionNotAllowed = errors.New("run state transition not allowed")
)
