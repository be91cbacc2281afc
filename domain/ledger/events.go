package ledger

import (
	"time"

	"github.com/felixgeelhaar/descent/domain/descent"
)

// Event represents a domain event that can be published.
type Event interface {
	EventType() string
	Timestamp() time.Time
	RunID() string
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	Type  string        `json:"type"`
	Time  time.Time     `json:"timestamp"`
	Run   string        `json:"run_id"`
	State descent.State `json:"state,omitempty"`
}

// EventType returns the event type.
func (e BaseEvent) EventType() string {
	return e.Type
}

// Timestamp returns the event timestamp.
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// RunID returns the run ID.
func (e BaseEvent) RunID() string {
	return e.Run
}

// RunStartedEvent is published when a run starts.
type RunStartedEvent struct {
	BaseEvent
	Problem string       `json:"problem"`
	Witness descent.Pair `json:"witness"`
}

// NewRunStartedEvent creates a run started event.
func NewRunStartedEvent(runID, problem string, witness descent.Pair) RunStartedEvent {
	return RunStartedEvent{
		BaseEvent: BaseEvent{
			Type:  "run.started",
			Time:  time.Now(),
			Run:   runID,
			State: descent.StateSeed,
		},
		Problem: problem,
		Witness: witness,
	}
}

// StepTakenEvent is published after every Vieta jump.
type StepTakenEvent struct {
	BaseEvent
	Step int          `json:"step"`
	From descent.Pair `json:"from"`
	To   descent.Pair `json:"to"`
}

// NewStepTakenEvent creates a step taken event.
func NewStepTakenEvent(runID string, step int, from, to descent.Pair) StepTakenEvent {
	return StepTakenEvent{
		BaseEvent: BaseEvent{
			Type:  "step.taken",
			Time:  time.Now(),
			Run:   runID,
			State: descent.StateExploring,
		},
		Step: step,
		From: from,
		To:   to,
	}
}

// RunCompletedEvent is published when a run discharges its claim.
type RunCompletedEvent struct {
	BaseEvent
	Kind     descent.Kind  `json:"kind"`
	Steps    int           `json:"steps"`
	Duration time.Duration `json:"duration"`
}

// NewRunCompletedEvent creates a run completed event.
func NewRunCompletedEvent(runID string, kind descent.Kind, steps int, duration time.Duration) RunCompletedEvent {
	return RunCompletedEvent{
		BaseEvent: BaseEvent{
			Type:  "run.completed",
			Time:  time.Now(),
			Run:   runID,
			State: descent.StateDischarged,
		},
		Kind:     kind,
		Steps:    steps,
		Duration: duration,
	}
}

// RunFailedEvent is published when a run fails.
type RunFailedEvent struct {
	BaseEvent
	Reason   string        `json:"reason"`
	Duration time.Duration `json:"duration"`
}

// NewRunFailedEvent creates a run failed event.
func NewRunFailedEvent(runID, reason string, state descent.State, duration time.Duration) RunFailedEvent {
	return RunFailedEvent{
		BaseEvent: BaseEvent{
			Type:  "run.failed",
			Time:  time.Now(),
			Run:   runID,
			State: state,
		},
		Reason:   reason,
		Duration: duration,
	}
}

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(event Event) error
}

// NoOpPublisher discards all events.
type NoOpPublisher struct{}

// Publish discards the event.
func (NoOpPublisher) Publish(_ Event) error {
	return nil
}
