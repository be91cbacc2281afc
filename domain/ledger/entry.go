// Package ledger provides an append-only audit trail of descent runs.
package ledger

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/descent/domain/descent"
)

// EntryType classifies the type of ledger entry.
type EntryType string

const (
	EntryRunStarted      EntryType = "run_started"
	EntryRunCompleted    EntryType = "run_completed"
	EntryRunFailed       EntryType = "run_failed"
	EntryStateTransition EntryType = "state_transition"
	EntrySeeded          EntryType = "seeded"
	EntryStep            EntryType = "step"
	EntryClassified      EntryType = "classified"
	EntryDischarged      EntryType = "discharged"
	EntryViolation       EntryType = "violation"
)

// Entry represents a single record in the ledger.
type Entry struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Type      EntryType       `json:"type"`
	RunID     string          `json:"run_id"`
	State     descent.State   `json:"state,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// RunStartedDetails contains details for run started entries.
type RunStartedDetails struct {
	Problem  string       `json:"problem"`
	Witness  descent.Pair `json:"witness"`
	MaxSteps int          `json:"max_steps"`
}

// TransitionDetails contains details for state transition entries.
type TransitionDetails struct {
	FromState descent.State `json:"from_state"`
	ToState   descent.State `json:"to_state"`
	Reason    string        `json:"reason,omitempty"`
}

// SeedDetails records how the witness was normalized.
type SeedDetails struct {
	Witness descent.Pair `json:"witness"`
	Pair    descent.Pair `json:"pair"`
	Swapped bool         `json:"swapped"`
}

// StepDetails records one Vieta jump.
type StepDetails struct {
	Step      int          `json:"step"`
	From      descent.Pair `json:"from"`
	B         *big.Int     `json:"b"`
	Companion *big.Int     `json:"companion"`
	To        descent.Pair `json:"to"`
}

// ClassifiedDetails records the exceptional kind of the terminal pair.
type ClassifiedDetails struct {
	Pair descent.Pair `json:"pair"`
	Kind descent.Kind `json:"kind"`
}

// DischargeDetails records which handler produced the claim.
type DischargeDetails struct {
	Kind    descent.Kind `json:"kind"`
	Handler string       `json:"handler"`
	Pair    descent.Pair `json:"pair"`
	Claim   string       `json:"claim,omitempty"`
}

// ViolationDetails records a failed obligation.
type ViolationDetails struct {
	Obligation descent.Obligation `json:"obligation"`
	Pair       descent.Pair       `json:"pair"`
	Detail     string             `json:"detail"`
}

// CompletedDetails contains details for run completed entries.
type CompletedDetails struct {
	Steps int          `json:"steps"`
	Kind  descent.Kind `json:"kind"`
	Pair  descent.Pair `json:"pair"`
}

// FailedDetails contains details for run failed entries.
type FailedDetails struct {
	Reason string `json:"reason"`
}

// NewEntry creates a new ledger entry.
func NewEntry(entryType EntryType, runID string, state descent.State, details any) Entry {
	var detailsJSON json.RawMessage
	if details != nil {
		detailsJSON, _ = json.Marshal(details)
	}

	return Entry{
		ID:        generateEntryID(),
		Timestamp: time.Now(),
		Type:      entryType,
		RunID:     runID,
		State:     state,
		Details:   detailsJSON,
	}
}

func generateEntryID() string {
	return uuid.New().String()
}

// DecodeDetails unmarshals the entry details into the given struct.
func (e Entry) DecodeDetails(v any) error {
	if e.Details == nil {
		return nil
	}
	return json.Unmarshal(e.Details, v)
}
