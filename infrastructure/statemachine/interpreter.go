package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/policy"
)

// TransitionPayload carries additional data with a transition event.
type TransitionPayload struct {
	ToState descent.State
	Reason  string
}

// Interpreter wraps the statekit interpreter for a single descent run.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates a new interpreter for the descent state machine.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}
}

// Start enters the initial state and marks the run as running.
func (i *Interpreter) Start() {
	i.interp.Start()
	i.ctx.Run.State = descent.State(i.interp.State().Value)
	i.ctx.Run.Start()
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// State returns the current state.
func (i *Interpreter) State() descent.State {
	return descent.State(i.interp.State().Value)
}

// Transition moves the machine to the target state. It returns
// ErrTransitionNotAllowed if the policy table or a machine guard rejects
// the move.
func (i *Interpreter) Transition(to descent.State, reason string) error {
	from := i.State()
	if err := i.ctx.Transitions.Check(from, to); err != nil {
		return err
	}

	i.interp.Send(statekit.Event{
		Type: EventForTransition(to),
		Payload: TransitionPayload{
			ToState: to,
			Reason:  reason,
		},
	})

	current := i.State()
	i.ctx.Run.State = current
	if current != to {
		return fmt.Errorf("%w: %s → %s rejected by guard", policy.ErrTransitionNotAllowed, from, to)
	}
	return nil
}

// CanTransition checks if a transition to the target state is allowed.
func (i *Interpreter) CanTransition(to descent.State) bool {
	return i.ctx.Transitions.CanTransition(i.State(), to)
}

// IsTerminal returns true if the interpreter is in a final state.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}

// Matches checks if the current state matches the given state.
func (i *Interpreter) Matches(state descent.State) bool {
	return i.interp.Matches(statekit.StateID(state))
}
