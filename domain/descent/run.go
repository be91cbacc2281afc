package descent

import (
	"math/big"
	"time"
)

// RunStatus represents the current status of a run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"   // Not yet started
	RunStatusRunning   RunStatus = "running"   // Descending
	RunStatusCompleted RunStatus = "completed" // Claim produced
	RunStatusFailed    RunStatus = "failed"    // Obligation violated or cancelled
)

// Run is a single descent from one witness.
// It is the aggregate root for the descent domain.
type Run struct {
	ID        string     `json:"id"`
	Problem   string     `json:"problem"`
	Witness   Pair       `json:"witness"`
	Current   Pair       `json:"current"`
	State     State      `json:"state"`
	Kind      Kind       `json:"kind,omitempty"`
	Steps     int        `json:"steps"`
	Measures  []*big.Int `json:"measures"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// NewRun creates a pending run seeded with the witness.
func NewRun(id, problem string, witness Pair) *Run {
	return &Run{
		ID:        id,
		Problem:   problem,
		Witness:   witness.Clone(),
		Current:   witness.Clone(),
		State:     StateSeed,
		Measures:  make([]*big.Int, 0),
		Status:    RunStatusPending,
		StartTime: time.Now(),
	}
}

// Start marks the run as running.
func (r *Run) Start() {
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// TransitionTo changes the current state.
func (r *Run) TransitionTo(state State) {
	r.State = state
	if state.IsTerminal() {
		r.EndTime = time.Now()
		if state == StateDischarged {
			r.Status = RunStatusCompleted
		} else {
			r.Status = RunStatusFailed
		}
	}
}

// Seed records the normalized starting pair.
func (r *Run) Seed(p Pair) {
	r.Current = p.Clone()
	r.Measures = append(r.Measures, p.Measure())
}

// Advance moves the run to the next pair of the descent.
func (r *Run) Advance(next Pair) {
	r.Current = next.Clone()
	r.Steps++
	r.Measures = append(r.Measures, next.Measure())
}

// Classified records the exceptional kind of the current pair.
func (r *Run) Classified(kind Kind) {
	r.Kind = kind
}

// Measure returns the current descent measure.
func (r *Run) Measure() *big.Int {
	return r.Current.Measure()
}

// Complete marks the run as successfully discharged.
func (r *Run) Complete() {
	r.Status = RunStatusCompleted
	r.State = StateDischarged
	r.EndTime = time.Now()
}

// Fail marks the run as failed with an error.
func (r *Run) Fail(err string) {
	r.Status = RunStatusFailed
	r.State = StateFailed
	r.EndTime = time.Now()
	r.Error = err
}

// IsTerminal returns true if the run has reached a terminal status.
func (r *Run) IsTerminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}

// Duration returns the duration of the run.
func (r *Run) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}
