package badger

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/result"
)

// ResultStore is a BadgerDB-backed implementation of result.Store.
//
// Key format: prefix + "results:" + problem/x/y with the witness normalized.
type ResultStore struct {
	db        *badger.DB
	keyPrefix string
	ownsDB    bool
	gcStop    chan struct{}
	gcWg      sync.WaitGroup
	closeOnce sync.Once
}

// NewResultStore opens a database and creates a result store on it.
func NewResultStore(cfg Config, opts ...Option) (*ResultStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &ResultStore{
		db:        db,
		keyPrefix: cfg.KeyPrefix,
		ownsDB:    true,
		gcStop:    make(chan struct{}),
	}

	if cfg.GCInterval > 0 && !cfg.inMemory() {
		s.startGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}

	return s, nil
}

// NewResultStoreFromDB creates a result store on an existing database.
// Close does not close db.
func NewResultStoreFromDB(db *badger.DB, keyPrefix string) *ResultStore {
	return &ResultStore{
		db:        db,
		keyPrefix: keyPrefix,
		gcStop:    make(chan struct{}),
	}
}

func (s *ResultStore) startGC(interval time.Duration, discardRatio float64) {
	s.gcWg.Add(1)
	go func() {
		defer s.gcWg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.gcStop:
				return
			case <-ticker.C:
				// Repeat until badger reports nothing left to rewrite.
				for s.db.RunValueLogGC(discardRatio) == nil {
				}
			}
		}
	}()
}

func (s *ResultStore) prefix() []byte {
	return []byte(s.keyPrefix + "results:")
}

func (s *ResultStore) key(problem string, witness descent.Pair) []byte {
	return []byte(s.keyPrefix + "results:" + result.Key(problem, witness))
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

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(r.Problem, r.Witness), data)
	})
}

// Get retrieves the record for a witness.
func (s *ResultStore) Get(ctx context.Context, problem string, witness descent.Pair) (*result.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var r result.Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(problem, witness))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, result.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes the record for a witness.
func (s *ResultStore) Delete(ctx context.Context, problem string, witness descent.Pair) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := s.key(problem, witness)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return result.ErrRecordNotFound
	}
	return err
}

// List returns records matching the filter, ordered by problem and witness.
func (s *ResultStore) List(ctx context.Context, filter result.ListFilter) ([]*result.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched, err := s.scan(ctx, filter)
	if err != nil {
		return nil, err
	}
	result.SortRecords(matched)
	return filter.Page(matched), nil
}

// Count returns the number of records matching the filter.
func (s *ResultStore) Count(ctx context.Context, filter result.ListFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	matched, err := s.scan(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

// scan iterates the problem's key range when the filter names one, and the
// whole result namespace otherwise.
func (s *ResultStore) scan(ctx context.Context, filter result.ListFilter) ([]*result.Record, error) {
	prefix := s.prefix()
	if filter.Problem != "" {
		prefix = append(prefix, []byte(filter.Problem+"/")...)
	}

	var out []*result.Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var r result.Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				continue // Skip malformed entries
			}
			if filter.Matches(&r) {
				out = append(out, &r)
			}
		}
		return nil
	})
	return out, err
}

// Close stops GC and closes the database if the store opened it.
func (s *ResultStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.gcStop)
		s.gcWg.Wait()
		if s.ownsDB {
			err = s.db.Close()
		}
	})
	return err
}

var _ result.Store = (*ResultStore)(nil)
