package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/result"
)

// ResultStore is an in-memory implementation of result.Store. Records are
// held as JSON so callers never share mutable state with the store.
type ResultStore struct {
	records map[string][]byte
	mu      sync.RWMutex
}

// NewResultStore creates a new in-memory result store.
func NewResultStore() *ResultStore {
	return &ResultStore{
		records: make(map[string][]byte),
	}
}

// Save persists a record, replacing any earlier record for the same witness.
func (s *ResultStore) Save(ctx context.Context, r *result.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[r.Key()] = data
	return nil
}

// Get retrieves the record for a witness.
func (s *ResultStore) Get(ctx context.Context, problem string, witness descent.Pair) (*result.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.records[result.Key(problem, witness)]
	s.mu.RUnlock()
	if !ok {
		return nil, result.ErrRecordNotFound
	}

	var r result.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes the record for a witness.
func (s *ResultStore) Delete(ctx context.Context, problem string, witness descent.Pair) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := result.Key(problem, witness)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[key]; !ok {
		return result.ErrRecordNotFound
	}
	delete(s.records, key)
	return nil
}

// List returns records matching the filter, ordered by problem and witness.
func (s *ResultStore) List(ctx context.Context, filter result.ListFilter) ([]*result.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := s.scan(filter)
	result.SortRecords(matched)
	return filter.Page(matched), nil
}

// Count returns the number of records matching the filter.
func (s *ResultStore) Count(ctx context.Context, filter result.ListFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(len(s.scan(filter))), nil
}

// Len returns the number of stored records.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *ResultStore) scan(filter result.ListFilter) []*result.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*result.Record
	for _, data := range s.records {
		var r result.Record
		if err := json.Unmarshal(data, &r); err != nil {
			continue
		}
		if filter.Matches(&r) {
			out = append(out, &r)
		}
	}
	return out
}

var _ result.Store = (*ResultStore)(nil)
