// Package statemachine provides the statekit integration for descent runs.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/ledger"
	"github.com/felixgeelhaar/descent/domain/policy"
)

// MachineID identifies the descent statechart.
const MachineID = "descent"

// Context carries run state through the state machine.
type Context struct {
	Run         *descent.Run
	Ledger      *ledger.Ledger
	Transitions *policy.StateTransitions
}

// NewContext creates a new machine context.
func NewContext(run *descent.Run, ledger *ledger.Ledger) *Context {
	return &Context{
		Run:         run,
		Ledger:      ledger,
		Transitions: policy.DefaultTransitions(),
	}
}

// State IDs as StateID type for statekit.
const (
	stateSeed        statekit.StateID = statekit.StateID(descent.StateSeed)
	stateExploring   statekit.StateID = statekit.StateID(descent.StateExploring)
	stateExceptional statekit.StateID = statekit.StateID(descent.StateExceptional)
	stateDischarged  statekit.StateID = statekit.StateID(descent.StateDischarged)
	stateFailed      statekit.StateID = statekit.StateID(descent.StateFailed)
)

// Events.
const (
	EventExplore     statekit.EventType = "EXPLORE"
	EventExceptional statekit.EventType = "EXCEPTIONAL"
	EventDischarge   statekit.EventType = "DISCHARGE"
	EventFail        statekit.EventType = "FAIL"
)

// NewDescentMachine creates the descent statechart.
//
// A witness is seeded, explored by Vieta jumps until it lands in the
// exceptional set, and discharged by a handler. Any broken obligation
// moves the run to failed.
func NewDescentMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context](MachineID).
		WithInitial(stateSeed).
		WithContext(&Context{}).
		WithAction("logEntry", logStateEntry).
		WithAction("recordTransition", recordTransition).
		WithGuard("canTransition", guardCanTransition).
		WithGuard("isClassified", guardIsClassified).
		State(stateSeed).
			OnEntry("logEntry").
			On(EventExplore).Target(stateExploring).Guard("canTransition").Do("recordTransition").
			On(EventExceptional).Target(stateExceptional).Guard("isClassified").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateExploring).
			OnEntry("logEntry").
			On(EventExceptional).Target(stateExceptional).Guard("isClassified").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateExceptional).
			OnEntry("logEntry").
			On(EventDischarge).Target(stateDischarged).Guard("canTransition").Do("recordTransition").
			On(EventFail).Target(stateFailed).Do("recordTransition").
			Done().
		State(stateDischarged).
			Final().
			OnEntry("logEntry").
			Done().
		State(stateFailed).
			Final().
			OnEntry("logEntry").
			Done().
		Build()
}

// EventForTransition returns the event type for a state transition.
func EventForTransition(to descent.State) statekit.EventType {
	switch to {
	case descent.StateExploring:
		return EventExplore
	case descent.StateExceptional:
		return EventExceptional
	case descent.StateDischarged:
		return EventDischarge
	case descent.StateFailed:
		return EventFail
	default:
		return statekit.EventType(to)
	}
}

// StateFromMachine converts the machine state ID to domain State.
func StateFromMachine(stateID statekit.StateID) descent.State {
	return descent.State(stateID)
}
