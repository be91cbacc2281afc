package statemachine

import (
	"github.com/felixgeelhaar/statekit"
)

// logStateEntry syncs the run with the state just entered.
// statekit hands actions a pointer to the context, so **Context here.
func logStateEntry(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).Run == nil {
		return
	}

	if newState := targetState(event); newState != "" && newState.IsValid() {
		(*ctx).Run.State = newState
	}
}

// recordTransition records the state transition in the ledger.
func recordTransition(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil || (*ctx).Run == nil || (*ctx).Ledger == nil {
		return
	}

	c := *ctx
	fromState := c.Run.State
	toState := targetState(event)

	var reason string
	if payload, ok := event.Payload.(TransitionPayload); ok {
		reason = payload.Reason
	}

	c.Ledger.RecordTransition(fromState, toState, reason)
	c.Run.TransitionTo(toState)
}
