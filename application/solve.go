package application

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/ledger"
	"github.com/felixgeelhaar/descent/infrastructure/telemetry"
)

// Outcome is the result of solving one witness.
type Outcome[T any] struct {
	Claim    T              `json:"claim"`
	Kind     descent.Kind   `json:"kind"`
	Terminal descent.Pair   `json:"terminal"`
	Steps    int            `json:"steps"`
	Measures []*big.Int     `json:"measures"`
	RunID    string         `json:"run_id"`
	Status   string         `json:"status"`
	Entries  []ledger.Entry `json:"entries,omitempty"`
	Duration time.Duration  `json:"duration"`

	Run *descent.Run `json:"-"`
}

// Solve descends from witness and discharges the claim of the exceptional
// pair it reaches. A nil engine uses the defaults.
//
// Once the run has started, a failure still returns the outcome so far
// together with the error.
func Solve[T any](ctx context.Context, e *Engine, problem descent.Problem[T], witness descent.Pair) (*Outcome[T], error) {
	if e == nil {
		var err error
		if e, err = NewEngine(EngineConfig{}); err != nil {
			return nil, err
		}
	}
	if err := problem.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	s, err := e.begin(ctx, problem.System, witness)
	if err != nil {
		return nil, err
	}
	defer s.interp.Stop()

	if err := s.descend(); err != nil {
		return newOutcome[T](s), err
	}

	_, span := e.tracer.StartDischarge(s.ctx, s.run.Kind.String())
	d, err := discharge(problem, s.run.Kind, s.run.Current)
	telemetry.End(span, err)
	if err != nil {
		return newOutcome[T](s), s.fail(err)
	}

	if err := s.complete(d.handler, d.pair, fmt.Sprint(d.claim)); err != nil {
		return newOutcome[T](s), err
	}

	out := newOutcome[T](s)
	out.Claim = d.claim
	return out, nil
}

func newOutcome[T any](s *session) *Outcome[T] {
	measures := make([]*big.Int, len(s.run.Measures))
	for i, m := range s.run.Measures {
		measures[i] = new(big.Int).Set(m)
	}
	return &Outcome[T]{
		Kind:     s.run.Kind,
		Terminal: s.run.Current.Clone(),
		Steps:    s.run.Steps,
		Measures: measures,
		RunID:    s.run.ID,
		Status:   string(s.run.Status),
		Entries:  s.ledger.Entries(),
		Duration: s.run.Duration(),
		Run:      s.run,
	}
}
