package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/descent/domain/descent"
)

// guardCanTransition checks the transition against the policy table.
// statekit hands guards the context by value, which is *Context here.
func guardCanTransition(ctx *Context, event statekit.Event) bool {
	if ctx == nil || ctx.Run == nil || ctx.Transitions == nil {
		return false
	}
	return ctx.Transitions.CanTransition(ctx.Run.State, targetState(event))
}

// guardIsClassified only lets a run enter exceptional once its current
// pair has been given an exceptional kind.
func guardIsClassified(ctx *Context, event statekit.Event) bool {
	if !guardCanTransition(ctx, event) {
		return false
	}
	return ctx.Run.Kind.IsExceptional()
}

// targetState reads the target from the payload, falling back to the
// event type.
func targetState(event statekit.Event) descent.State {
	if payload, ok := event.Payload.(TransitionPayload); ok && payload.ToState != "" {
		return payload.ToState
	}
	return stateFromEventType(event.Type)
}

// stateFromEventType derives the target state from an event type.
func stateFromEventType(eventType statekit.EventType) descent.State {
	switch eventType {
	case EventExplore:
		return descent.StateExploring
	case EventExceptional:
		return descent.StateExceptional
	case EventDischarge:
		return descent.StateDischarged
	case EventFail:
		return descent.StateFailed
	default:
		return descent.State(eventType)
	}
}
