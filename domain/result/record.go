// Package result provides the domain model for persisted descent outcomes.
package result

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/descent/domain/descent"
)

// Record is the persisted outcome of one descent.
type Record struct {
	ID       string            `json:"id"`
	Problem  string            `json:"problem"`
	Witness  descent.Pair      `json:"witness"`
	Terminal descent.Pair      `json:"terminal"`
	Kind     descent.Kind      `json:"kind,omitempty"`
	Claim    json.RawMessage   `json:"claim,omitempty"`
	Steps    int               `json:"steps"`
	Status   descent.RunStatus `json:"status"`
	Error    string            `json:"error,omitempty"`
	SolvedAt time.Time         `json:"solved_at"`
}

// Key returns the storage key of the record.
func (r *Record) Key() string {
	return Key(r.Problem, r.Witness)
}

// Validate checks that the record can be stored.
func (r *Record) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}
	if r.Problem == "" {
		return fmt.Errorf("%w: problem is required", ErrInvalidRecord)
	}
	if err := r.Witness.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// Verified returns true if the descent discharged its claim.
func (r *Record) Verified() bool {
	return r.Status == descent.RunStatusCompleted
}

// Key identifies a witness of a problem regardless of coordinate order.
func Key(problem string, witness descent.Pair) string {
	p, _ := witness.Normalized()
	return fmt.Sprintf("%s/%s/%s", problem, p.X, p.Y)
}
