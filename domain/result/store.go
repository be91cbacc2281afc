package result

import (
	"context"
	"sort"

	"github.com/felixgeelhaar/descent/domain/descent"
)

// Store defines the interface for result persistence.
// Implementations may be in-memory, badger, or any other backend.
type Store interface {
	// Save persists a record, replacing any record for the same witness.
	Save(ctx context.Context, record *Record) error

	// Get retrieves the record for a witness of a problem.
	Get(ctx context.Context, problem string, witness descent.Pair) (*Record, error)

	// Delete removes the record for a witness of a problem.
	Delete(ctx context.Context, problem string, witness descent.Pair) error

	// List returns records matching the filter.
	List(ctx context.Context, filter ListFilter) ([]*Record, error)

	// Count returns the number of records matching the filter.
	Count(ctx context.Context, filter ListFilter) (int64, error)
}

// ListFilter specifies criteria for listing records.
type ListFilter struct {
	// Problem filters by family name (empty means all).
	Problem string

	// Status filters by run status (empty means all).
	Status []descent.RunStatus

	// Kinds filters by terminal kind (empty means all).
	Kinds []descent.Kind

	// Limit is the maximum number of records to return (0 = no limit).
	Limit int

	// Offset is the number of records to skip for pagination.
	Offset int
}

// Matches reports whether a record satisfies the filter, ignoring
// pagination.
func (f ListFilter) Matches(r *Record) bool {
	if f.Problem != "" && r.Problem != f.Problem {
		return false
	}
	if len(f.Status) > 0 && !contains(f.Status, r.Status) {
		return false
	}
	if len(f.Kinds) > 0 && !contains(f.Kinds, r.Kind) {
		return false
	}
	return true
}

// Page applies Offset and Limit to an already filtered slice.
func (f ListFilter) Page(records []*Record) []*Record {
	if f.Offset > 0 {
		if f.Offset >= len(records) {
			return []*Record{}
		}
		records = records[f.Offset:]
	}
	if f.Limit > 0 && len(records) > f.Limit {
		records = records[:f.Limit]
	}
	return records
}

func contains[T comparable](items []T, v T) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

// SortRecords orders records by problem, then by the normalized witness
// (smaller y first, then smaller x).
func SortRecords(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Problem != b.Problem {
			return a.Problem < b.Problem
		}
		pa, _ := a.Witness.Normalized()
		pb, _ := b.Witness.Normalized()
		if c := pa.Y.Cmp(pb.Y); c != 0 {
			return c < 0
		}
		return pa.X.Cmp(pb.X) < 0
	})
}
