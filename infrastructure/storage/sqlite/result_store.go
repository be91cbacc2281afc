package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/result"
)

// ResultStore is a SQLite-backed implementation of result.Store.
type ResultStore struct {
	db     *sql.DB
	table  string
	ownsDB bool
}

// NewResultStore opens the database and creates a result store.
func NewResultStore(cfg Config, opts ...Option) (*ResultStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validTable(cfg.Table); err != nil {
		return nil, err
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &ResultStore{db: db, table: cfg.Table, ownsDB: true}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewResultStoreFromDB creates a result store on an existing connection and
// migrates its table.
func NewResultStoreFromDB(db *sql.DB, table string) (*ResultStore, error) {
	if table == "" {
		table = "results"
	}
	if err := validTable(table); err != nil {
		return nil, err
	}

	s := &ResultStore{db: db, table: table}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func validTable(name string) error {
	if name == "" {
		return errors.New("sqlite: table name is required")
	}
	for _, r := range name {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return fmt.Errorf("sqlite: invalid table name %q", name)
		}
	}
	return nil
}

func (s *ResultStore) migrate() error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			key TEXT PRIMARY KEY,
			problem TEXT NOT NULL,
			status TEXT NOT NULL,
			kind TEXT NOT NULL,
			data BLOB NOT NULL,
			solved_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_problem ON %[1]s(problem);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_status ON %[1]s(status);
	`, s.table)

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
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

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (key, problem, status, kind, data, solved_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			status = excluded.status, kind = excluded.kind,
			data = excluded.data, solved_at = excluded.solved_at`, s.table),
		r.Key(), r.Problem, string(r.Status), string(r.Kind), data, r.SolvedAt.UnixNano(),
	)
	return err
}

// Get retrieves the record for a witness.
func (s *ResultStore) Get(ctx context.Context, problem string, witness descent.Pair) (*result.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT data FROM %s WHERE key = ?", s.table),
		result.Key(problem, witness),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, result.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
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

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE key = ?", s.table),
		result.Key(problem, witness),
	)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return result.ErrRecordNotFound
	}
	return nil
}

// List returns records matching the filter, ordered by problem and witness.
// Witness order is numeric, so sorting and paging happen after decoding.
func (s *ResultStore) List(ctx context.Context, filter result.ListFilter) ([]*result.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	where, args := buildWhereClause(filter)
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT data FROM %s%s", s.table, where), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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
		if filter.Matches(&r) {
			records = append(records, &r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result.SortRecords(records)
	return filter.Page(records), nil
}

// Count returns the number of records matching the filter.
func (s *ResultStore) Count(ctx context.Context, filter result.ListFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	where, args := buildWhereClause(filter)

	var count int64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.table, where), args...).Scan(&count)
	return count, err
}

// buildWhereClause builds the WHERE clause for filtering.
func buildWhereClause(filter result.ListFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Problem != "" {
		conditions = append(conditions, "problem = ?")
		args = append(args, filter.Problem)
	}
	if len(filter.Status) > 0 {
		conditions = append(conditions, "status IN ("+placeholders(len(filter.Status))+")")
		for _, status := range filter.Status {
			args = append(args, string(status))
		}
	}
	if len(filter.Kinds) > 0 {
		conditions = append(conditions, "kind IN ("+placeholders(len(filter.Kinds))+")")
		for _, kind := range filter.Kinds {
			args = append(args, string(kind))
		}
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Close closes the database connection if the store opened it.
func (s *ResultStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *ResultStore) DB() *sql.DB {
	return s.db
}

var _ result.Store = (*ResultStore)(nil)
