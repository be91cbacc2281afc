package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/result"
)

// ResultStore is a Redis-backed implementation of result.Store.
//
// Each record is a JSON string under its witness key. A set per problem
// indexes the keys, and one set holds the problem names.
type ResultStore struct {
	client    *redis.Client
	keyPrefix string
	ownsConn  bool
}

// NewResultStore connects to Redis and creates a result store.
func NewResultStore(cfg Config, opts ...ConfigOption) (*ResultStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	client := redis.NewClient(cfg.clientOptions())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(result.ErrConnectionFailed, err)
	}

	return &ResultStore{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ownsConn:  true,
	}, nil
}

// NewResultStoreFromClient creates a result store from an existing client.
func NewResultStoreFromClient(client *redis.Client, keyPrefix string) *ResultStore {
	return &ResultStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (s *ResultStore) recordKey(problem string, witness descent.Pair) string {
	return s.keyPrefix + "results:" + result.Key(problem, witness)
}

func (s *ResultStore) indexKey(problem string) string {
	return s.keyPrefix + "results:index:" + problem
}

func (s *ResultStore) problemsKey() string {
	return s.keyPrefix + "results:problems"
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

	key := s.recordKey(r.Problem, r.Witness)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, 0)
		pipe.SAdd(ctx, s.indexKey(r.Problem), key)
		pipe.SAdd(ctx, s.problemsKey(), r.Problem)
		return nil
	})
	return s.wrapError(err)
}

// Get retrieves the record for a witness.
func (s *ResultStore) Get(ctx context.Context, problem string, witness descent.Pair) (*result.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, s.recordKey(problem, witness)).Bytes()
	if errors.Is(err, redis.Nil) {
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
	if err := ctx.Err(); err != nil {
		return err
	}

	key := s.recordKey(problem, witness)
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, key)
		pipe.SRem(ctx, s.indexKey(problem), key)
		return nil
	})
	if err != nil {
		return s.wrapError(err)
	}
	if del.Val() == 0 {
		return result.ErrRecordNotFound
	}
	return nil
}

// List returns records matching the filter, ordered by problem and witness.
func (s *ResultStore) List(ctx context.Context, filter result.ListFilter) ([]*result.Record, error) {
	records, err := s.scan(ctx, filter)
	if err != nil {
		return nil, err
	}
	result.SortRecords(records)
	return filter.Page(records), nil
}

// Count returns the number of records matching the filter.
func (s *ResultStore) Count(ctx context.Context, filter result.ListFilter) (int64, error) {
	records, err := s.scan(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

// scan loads every indexed record of the filter's problem, or of all
// problems when the filter names none.
func (s *ResultStore) scan(ctx context.Context, filter result.ListFilter) ([]*result.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	problems := []string{filter.Problem}
	if filter.Problem == "" {
		var err error
		if problems, err = s.client.SMembers(ctx, s.problemsKey()).Result(); err != nil {
			return nil, s.wrapError(err)
		}
	}

	var out []*result.Record
	for _, problem := range problems {
		keys, err := s.client.SMembers(ctx, s.indexKey(problem)).Result()
		if err != nil {
			return nil, s.wrapError(err)
		}
		if len(keys) == 0 {
			continue
		}

		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, s.wrapError(err)
		}
		for _, v := range values {
			data, ok := v.(string)
			if !ok {
				continue // Deleted between SMEMBERS and MGET
			}
			var r result.Record
			if err := json.Unmarshal([]byte(data), &r); err != nil {
				continue // Skip malformed entries
			}
			if filter.Matches(&r) {
				out = append(out, &r)
			}
		}
	}
	return out, nil
}

// Close closes the client if the store created it.
func (s *ResultStore) Close() error {
	if !s.ownsConn {
		return nil
	}
	return s.client.Close()
}

// wrapError wraps Redis errors with domain errors.
func (s *ResultStore) wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Join(result.ErrConnectionFailed, err)
	}
	return err
}

var _ result.Store = (*ResultStore)(nil)
