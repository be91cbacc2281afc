package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/result"
)

// ResultStore is a PostgreSQL-backed implementation of result.Store.
type ResultStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewResultStore creates a result store on pool. Call Migrate before first
// use on a fresh database.
func NewResultStore(pool *pgxpool.Pool, schema string) *ResultStore {
	if schema == "" {
		schema = "public"
	}
	return &ResultStore{
		pool:   pool,
		schema: schema,
	}
}

func (s *ResultStore) tableName() string {
	return pgx.Identifier{s.schema, "results"}.Sanitize()
}

// Migrate creates the results table if it does not exist.
func (s *ResultStore) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE SCHEMA IF NOT EXISTS %[1]s;
		CREATE TABLE IF NOT EXISTS %[2]s (
			key TEXT PRIMARY KEY,
			problem TEXT NOT NULL,
			status TEXT NOT NULL,
			kind TEXT NOT NULL,
			data JSONB NOT NULL,
			solved_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS results_problem_idx ON %[2]s (problem);
	`, pgx.Identifier{s.schema}.Sanitize(), s.tableName())

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return s.wrapError(err)
	}
	return nil
}

// Save persists a record, replacing any earlier record for the same witness.
func (s *ResultStore) Save(ctx context.Context, r *result.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (key, problem, status, kind, data, solved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (key) DO UPDATE SET
			status = EXCLUDED.status,
			kind = EXCLUDED.kind,
			data = EXCLUDED.data,
			solved_at = EXCLUDED.solved_at
	`, s.tableName())

	_, err = s.pool.Exec(ctx, query,
		r.Key(), r.Problem, string(r.Status), string(r.Kind), data, r.SolvedAt,
	)
	return s.wrapError(err)
}

// Get retrieves the record for a witness.
func (s *ResultStore) Get(ctx context.Context, problem string, witness descent.Pair) (*result.Record, error) {
	query := fmt.Sprintf(`SELECT data FROM %s WHERE key = $1`, s.tableName())

	var data []byte
	err := s.pool.QueryRow(ctx, query, result.Key(problem, witness)).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, result.ErrRecordNotFound
	}
	if err != nil {
		return nil, s.wrapError(err)
	}

	var r result.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &r, nil
}

// Delete removes the record for a witness.
func (s *ResultStore) Delete(ctx context.Context, problem string, witness descent.Pair) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.tableName())

	tag, err := s.pool.Exec(ctx, query, result.Key(problem, witness))
	if err != nil {
		return s.wrapError(err)
	}
	if tag.RowsAffected() == 0 {
		return result.ErrRecordNotFound
	}
	return nil
}

// List returns records matching the filter, ordered by problem and witness.
func (s *ResultStore) List(ctx context.Context, filter result.ListFilter) ([]*result.Record, error) {
	where, args := buildWhereClause(filter)
	query := fmt.Sprintf(`SELECT data FROM %s %s`, s.tableName(), where)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, s.wrapError(err)
	}
	defer rows.Close()

	var records []*result.Record
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r result.Record
		if err := json.Unmarshal(data, &r); err != nil {
			continue // Skip malformed entries
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapError(err)
	}

	result.SortRecords(records)
	return filter.Page(records), nil
}

// Count returns the number of records matching the filter.
func (s *ResultStore) Count(ctx context.Context, filter result.ListFilter) (int64, error) {
	where, args := buildWhereClause(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, s.tableName(), where)

	var count int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, s.wrapError(err)
	}
	return count, nil
}

// buildWhereClause builds the WHERE clause for filtering with numbered
// placeholders.
func buildWhereClause(filter result.ListFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Problem != "" {
		args = append(args, filter.Problem)
		conditions = append(conditions, fmt.Sprintf("problem = $%d", len(args)))
	}
	if len(filter.Status) > 0 {
		statuses := make([]string, len(filter.Status))
		for i, st := range filter.Status {
			statuses[i] = string(st)
		}
		args = append(args, statuses)
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if len(filter.Kinds) > 0 {
		kinds := make([]string, len(filter.Kinds))
		for i, k := range filter.Kinds {
			kinds[i] = string(k)
		}
		args = append(args, kinds)
		conditions = append(conditions, fmt.Sprintf("kind = ANY($%d)", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// wrapError wraps database errors with domain errors.
func (s *ResultStore) wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return errors.Join(result.ErrConnectionFailed, err)
}

var _ result.Store = (*ResultStore)(nil)
