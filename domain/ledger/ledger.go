package ledger

import (
	"math/big"
	"sync"
	"time"

	"github.com/felixgeelhaar/descent/domain/descent"
)

// Ledger provides an append-only record of everything a run did.
type Ledger struct {
	runID   string
	entries []Entry
	mu      sync.RWMutex
}

// New creates a new ledger for the given run.
func New(runID string) *Ledger {
	return &Ledger{
		runID:   runID,
		entries: make([]Entry, 0),
	}
}

// Append adds an entry to the ledger.
func (l *Ledger) Append(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.RunID = l.runID
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.ID == "" {
		entry.ID = generateEntryID()
	}

	l.entries = append(l.entries, entry)
}

// Entries returns a copy of all entries.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// EntriesByType returns entries filtered by type.
func (l *Ledger) EntriesByType(entryType EntryType) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var filtered []Entry
	for _, e := range l.entries {
		if e.Type == entryType {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// LastEntry returns the most recent entry, or nil if empty.
func (l *Ledger) LastEntry() *Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.entries) == 0 {
		return nil
	}
	entry := l.entries[len(l.entries)-1]
	return &entry
}

// Count returns the number of entries.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// RunID returns the associated run ID.
func (l *Ledger) RunID() string {
	return l.runID
}

// RecordRunStarted records the start of a run.
func (l *Ledger) RecordRunStarted(problem string, witness descent.Pair, maxSteps int) {
	l.Append(NewEntry(EntryRunStarted, l.runID, descent.StateSeed, RunStartedDetails{
		Problem:  problem,
		Witness:  witness,
		MaxSteps: maxSteps,
	}))
}

// RecordSeeded records the normalized starting pair.
func (l *Ledger) RecordSeeded(witness, pair descent.Pair, swapped bool) {
	l.Append(NewEntry(EntrySeeded, l.runID, descent.StateSeed, SeedDetails{
		Witness: witness,
		Pair:    pair,
		Swapped: swapped,
	}))
}

// RecordStep records one descent step from one pair to the next.
func (l *Ledger) RecordStep(step int, from descent.Pair, b, companion *big.Int, to descent.Pair) {
	l.Append(NewEntry(EntryStep, l.runID, descent.StateExploring, StepDetails{
		Step:      step,
		From:      from,
		B:         b,
		Companion: companion,
		To:        to,
	}))
}

// RecordClassified records the exceptional kind of the terminal pair.
func (l *Ledger) RecordClassified(pair descent.Pair, kind descent.Kind) {
	l.Append(NewEntry(EntryClassified, l.runID, descent.StateExceptional, ClassifiedDetails{
		Pair: pair,
		Kind: kind,
	}))
}

// RecordDischarged records which handler produced the claim.
func (l *Ledger) RecordDischarged(kind descent.Kind, handler string, pair descent.Pair, claim string) {
	l.Append(NewEntry(EntryDischarged, l.runID, descent.StateDischarged, DischargeDetails{
		Kind:    kind,
		Handler: handler,
		Pair:    pair,
		Claim:   claim,
	}))
}

// RecordViolation records a failed obligation.
func (l *Ledger) RecordViolation(state descent.State, violation *descent.InvariantError) {
	l.Append(NewEntry(EntryViolation, l.runID, state, ViolationDetails{
		Obligation: violation.Obligation,
		Pair:       violation.Pair,
		Detail:     violation.Detail,
	}))
}

// RecordTransition records a state transition.
func (l *Ledger) RecordTransition(from, to descent.State, reason string) {
	l.Append(NewEntry(EntryStateTransition, l.runID, to, TransitionDetails{
		FromState: from,
		ToState:   to,
		Reason:    reason,
	}))
}

// RecordRunCompleted records the successful completion of a run.
func (l *Ledger) RecordRunCompleted(steps int, kind descent.Kind, pair descent.Pair) {
	l.Append(NewEntry(EntryRunCompleted, l.runID, descent.StateDischarged, CompletedDetails{
		Steps: steps,
		Kind:  kind,
		Pair:  pair,
	}))
}

// RecordRunFailed records the failure of a run.
func (l *Ledger) RecordRunFailed(state descent.State, reason string) {
	l.Append(NewEntry(EntryRunFailed, l.runID, state, FailedDetails{
		Reason: reason,
	}))
}
