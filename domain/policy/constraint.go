package policy

import (
	"fmt"

	"github.com/felixgeelhaar/descent/domain/descent"
)

// StateTransitions defines allowed state transitions.
//
// StateTransitions is not safe for concurrent modification. Configure it
// fully before handing it to the engine; the read methods are safe for
// concurrent use afterwards.
type StateTransitions struct {
	transitions map[descent.State][]descent.State
}

// TransitionRules maps states to the states they can transition to.
type TransitionRules map[descent.State][]descent.State

// NewStateTransitions creates a new empty state transition configuration.
func NewStateTransitions() *StateTransitions {
	return &StateTransitions{
		transitions: make(map[descent.State][]descent.State),
	}
}

// NewStateTransitionsWith creates a state transition configuration from a rules map.
func NewStateTransitionsWith(rules TransitionRules) *StateTransitions {
	t := NewStateTransitions()
	for from, toStates := range rules {
		for _, to := range toStates {
			t.Allow(from, to)
		}
	}
	return t
}

// Allow permits a transition from one state to another.
func (t *StateTransitions) Allow(from, to descent.State) *StateTransitions {
	t.transitions[from] = append(t.transitions[from], to)
	return t
}

// CanTransition checks if a transition is allowed.
func (t *StateTransitions) CanTransition(from, to descent.State) bool {
	for _, state := range t.transitions[from] {
		if state == to {
			return true
		}
	}
	return false
}

// Check returns ErrTransitionNotAllowed if from → to is not permitted.
func (t *StateTransitions) Check(from, to descent.State) error {
	if !t.CanTransition(from, to) {
		return fmt.Errorf("%w: %s → %s", ErrTransitionNotAllowed, from, to)
	}
	return nil
}

// AllowedTransitions returns all states reachable from the given state.
func (t *StateTransitions) AllowedTransitions(from descent.State) []descent.State {
	return t.transitions[from]
}

// DefaultTransitions returns the descent state machine:
//
//	seed → exploring → exceptional → discharged
//	  └─────────────────↗
//
// Descent steps stay inside exploring. Every non-terminal state can
// transition to failed.
func DefaultTransitions() *StateTransitions {
	return NewStateTransitionsWith(TransitionRules{
		descent.StateSeed:        {descent.StateExploring, descent.StateExceptional, descent.StateFailed},
		descent.StateExploring:   {descent.StateExceptional, descent.StateFailed},
		descent.StateExceptional: {descent.StateDischarged, descent.StateFailed},
	})
}
