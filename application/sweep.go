package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/pack"
	"github.com/felixgeelhaar/descent/domain/result"
	"github.com/felixgeelhaar/descent/infrastructure/logging"
	"github.com/felixgeelhaar/descent/infrastructure/resilience"
	"github.com/felixgeelhaar/descent/infrastructure/telemetry"
)

// Sweep outcomes of a single witness.
const (
	SweepSolved   = "solved"
	SweepFailed   = "failed"
	SweepSkipped  = "skipped"
	SweepRejected = "rejected"
)

// SweepConfig configures a Sweeper.
type SweepConfig struct {
	Engine   *Engine
	Registry pack.Registry
	Store    result.Store
	Executor *resilience.Executor[*result.Record]

	// Limit is the number of witnesses enumerated per family.
	Limit int

	// Force re-solves witnesses that already have a verified record.
	Force bool
}

// Sweeper solves the enumerated witnesses of problem families
// concurrently and stores one record per witness.
type Sweeper struct {
	engine   *Engine
	registry pack.Registry
	store    result.Store
	executor *resilience.Executor[*result.Record]
	limit    int
	force    bool
}

// SweepFailure names a witness that did not solve.
type SweepFailure struct {
	Witness descent.Pair `json:"witness"`
	Error   string       `json:"error"`
}

// SweepSummary reports the sweep of one family.
type SweepSummary struct {
	Problem     string         `json:"problem"`
	Total       int            `json:"total"`
	Solved      int            `json:"solved"`
	Failed      int            `json:"failed"`
	Skipped     int            `json:"skipped"`
	Rejected    int            `json:"rejected"`
	BreakerOpen bool           `json:"breaker_open"`
	Failures    []SweepFailure `json:"failures,omitempty"`
	Duration    time.Duration  `json:"duration"`
}

// NewSweeper creates a sweeper.
func NewSweeper(config SweepConfig) (*Sweeper, error) {
	if config.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if config.Store == nil {
		return nil, errors.New("result store is required")
	}
	if config.Limit <= 0 {
		return nil, fmt.Errorf("witness limit must be positive, got %d", config.Limit)
	}

	s := &Sweeper{
		engine:   config.Engine,
		registry: config.Registry,
		store:    config.Store,
		executor: config.Executor,
		limit:    config.Limit,
		force:    config.Force,
	}

	if s.engine == nil {
		engine, err := NewEngine(EngineConfig{})
		if err != nil {
			return nil, err
		}
		s.engine = engine
	}
	if s.executor == nil {
		s.executor = resilience.NewExecutor[*result.Record](resilience.DefaultExecutorConfig())
	}

	return s, nil
}

// Sweep runs SweepFamily for each named family, or for every registered
// family when names is empty. Summaries are returned in order; a
// cancelled context stops the sweep after the current family.
func (s *Sweeper) Sweep(ctx context.Context, names ...string) ([]SweepSummary, error) {
	families, err := s.families(names)
	if err != nil {
		return nil, err
	}

	summaries := make([]SweepSummary, 0, len(families))
	for _, fam := range families {
		summary, err := s.SweepFamily(ctx, fam)
		summaries = append(summaries, summary)
		if err != nil {
			return summaries, err
		}
	}
	return summaries, nil
}

func (s *Sweeper) families(names []string) ([]pack.Family, error) {
	if len(names) == 0 {
		return s.registry.List(), nil
	}
	families := make([]pack.Family, 0, len(names))
	for _, name := range names {
		fam, ok := s.registry.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", pack.ErrFamilyNotFound, name)
		}
		families = append(families, fam)
	}
	return families, nil
}

type witnessResult struct {
	outcome string
	err     error
}

// SweepFamily solves the first Limit witnesses of fam.
func (s *Sweeper) SweepFamily(ctx context.Context, fam pack.Family) (SweepSummary, error) {
	start := time.Now()
	name := fam.Name()
	witnesses := fam.Witnesses(s.limit)

	ctx, span := s.engine.tracer.StartSweep(ctx, name, len(witnesses))

	logging.Info().
		Add(logging.Problem(name)).
		Add(logging.Count("witnesses", len(witnesses))).
		Msg("sweep started")

	results := make([]witnessResult, len(witnesses))
	work := make(chan int)

	// One worker per bulkhead slot, so no call is turned away for capacity.
	workers := s.executor.Config().MaxConcurrent
	if workers > len(witnesses) {
		workers = len(witnesses)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = s.sweepWitness(ctx, name, fam, witnesses[idx])
			}
		}()
	}

feed:
	for i := range witnesses {
		select {
		case <-ctx.Done():
			break feed
		case work <- i:
		}
	}
	close(work)
	wg.Wait()

	summary := SweepSummary{
		Problem:     name,
		Total:       len(witnesses),
		BreakerOpen: s.executor.BreakerState(name) == "open",
	}
	for i, r := range results {
		switch r.outcome {
		case SweepSolved:
			summary.Solved++
		case SweepSkipped:
			summary.Skipped++
		case SweepRejected:
			summary.Rejected++
		case SweepFailed:
			summary.Failed++
			summary.Failures = append(summary.Failures, SweepFailure{
				Witness: witnesses[i],
				Error:   r.err.Error(),
			})
		}
	}
	summary.Duration = time.Since(start)

	err := ctx.Err()
	telemetry.End(span, err,
		attribute.Int("descent.sweep.solved", summary.Solved),
		attribute.Int("descent.sweep.failed", summary.Failed),
	)

	logging.Info().
		Add(logging.Problem(name)).
		Add(logging.Count("solved", summary.Solved)).
		Add(logging.Count("failed", summary.Failed)).
		Add(logging.Count("skipped", summary.Skipped)).
		Add(logging.Count("rejected", summary.Rejected)).
		Add(logging.Duration(summary.Duration)).
		Msg("sweep finished")

	return summary, err
}

func (s *Sweeper) sweepWitness(ctx context.Context, name string, fam pack.Family, w descent.Pair) witnessResult {
	metrics := s.engine.metrics

	if !s.force {
		if rec, err := s.store.Get(ctx, name, w); err == nil && rec.Verified() {
			metrics.RecordSweepWitness(ctx, name, SweepSkipped)
			return witnessResult{outcome: SweepSkipped}
		}
	}

	wasOpen := s.executor.BreakerState(name) == "open"

	var (
		mu  sync.Mutex
		rec *result.Record
	)
	_, err := s.executor.Execute(ctx, name, func(ctx context.Context) (*result.Record, error) {
		r, err := s.solve(ctx, fam, w)
		mu.Lock()
		rec = r
		mu.Unlock()
		return r, err
	})

	if isOpen := s.executor.BreakerState(name) == "open"; isOpen != wasOpen {
		metrics.RecordCircuitBreakerStateChange(ctx, name, isOpen)
		logging.Warn().
			Add(logging.Problem(name)).
			Add(logging.Str("breaker", s.executor.BreakerState(name))).
			Msg("circuit breaker state changed")
	}

	if errors.Is(err, resilience.ErrCircuitOpen) {
		metrics.RecordSweepWitness(ctx, name, SweepRejected)
		return witnessResult{outcome: SweepRejected, err: err}
	}

	mu.Lock()
	record := rec
	mu.Unlock()
	if record == nil {
		record = failedRecord(name, w, err)
	}

	if perr := s.executor.Persist(ctx, func(ctx context.Context) error {
		return s.store.Save(ctx, record)
	}); perr != nil {
		logging.Error().
			Add(logging.Problem(name)).
			Add(logging.Witness(w)).
			Add(logging.ErrorField(perr)).
			Msg("failed to persist result")
		if err == nil {
			err = fmt.Errorf("persist: %w", perr)
		}
	}

	if err != nil {
		metrics.RecordSweepWitness(ctx, name, SweepFailed)
		return witnessResult{outcome: SweepFailed, err: err}
	}
	metrics.RecordSweepWitness(ctx, name, SweepSolved)
	return witnessResult{outcome: SweepSolved}
}

// solve always returns a record, failed or not, so that failures are
// stored alongside solutions.
func (s *Sweeper) solve(ctx context.Context, fam pack.Family, w descent.Pair) (*result.Record, error) {
	problem, err := fam.Problem(w)
	if err != nil {
		return failedRecord(fam.Name(), w, err), err
	}

	out, err := Solve(ctx, s.engine, problem, w)
	if out == nil {
		return failedRecord(fam.Name(), w, err), err
	}

	rec := &result.Record{
		ID:       out.RunID,
		Problem:  fam.Name(),
		Witness:  w.Clone(),
		Terminal: out.Terminal,
		Kind:     out.Kind,
		Steps:    out.Steps,
		Status:   descent.RunStatusCompleted,
		SolvedAt: time.Now(),
	}
	if err != nil {
		rec.Status = descent.RunStatusFailed
		rec.Error = err.Error()
		return rec, err
	}

	claim, err := json.Marshal(out.Claim)
	if err != nil {
		rec.Status = descent.RunStatusFailed
		rec.Error = err.Error()
		return rec, fmt.Errorf("encode claim: %w", err)
	}
	rec.Claim = claim
	return rec, nil
}

func failedRecord(problem string, w descent.Pair, err error) *result.Record {
	rec := &result.Record{
		ID:       uuid.NewString(),
		Problem:  problem,
		Witness:  w.Clone(),
		Terminal: w.Clone(),
		Status:   descent.RunStatusFailed,
		SolvedAt: time.Now(),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}
