// Package application provides the descent engine, the claim discharger
// and batch sweeps over problem families.
package application

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/ledger"
	"github.com/felixgeelhaar/descent/domain/policy"
	"github.com/felixgeelhaar/descent/infrastructure/logging"
	"github.com/felixgeelhaar/descent/infrastructure/statemachine"
	"github.com/felixgeelhaar/descent/infrastructure/telemetry"
)

// ErrInvalidEngineConfig is returned by NewEngine for an unusable config.
var ErrInvalidEngineConfig = errors.New("invalid engine config")

// Engine runs Vieta-jumping descents.
type Engine struct {
	maxSteps    int
	timeout     time.Duration
	transitions *policy.StateTransitions
	publisher   ledger.EventPublisher
	metrics     telemetry.Metrics
	tracer      *telemetry.Tracer
}

// EngineConfig holds engine configuration.
type EngineConfig struct {
	MaxSteps    int
	Timeout     time.Duration
	Transitions *policy.StateTransitions
	Publisher   ledger.EventPublisher
	Metrics     telemetry.Metrics
	Tracer      *telemetry.Tracer
}

// NewEngine creates a new descent engine.
func NewEngine(config EngineConfig) (*Engine, error) {
	if config.MaxSteps < 0 {
		return nil, fmt.Errorf("%w: max steps must not be negative", ErrInvalidEngineConfig)
	}
	if config.Timeout < 0 {
		return nil, fmt.Errorf("%w: timeout must not be negative", ErrInvalidEngineConfig)
	}

	e := &Engine{
		maxSteps:    config.MaxSteps,
		timeout:     config.Timeout,
		transitions: config.Transitions,
		publisher:   config.Publisher,
		metrics:     config.Metrics,
		tracer:      config.Tracer,
	}

	if e.transitions == nil {
		e.transitions = policy.DefaultTransitions()
	}
	if e.publisher == nil {
		e.publisher = ledger.NoOpPublisher{}
	}
	if e.metrics == nil {
		e.metrics = telemetry.NoopMetricsProvider{}
	}
	if e.tracer == nil {
		e.tracer = telemetry.NewTracer(nil)
	}

	return e, nil
}

// Descent is a run driven to the exceptional set but not yet discharged.
type Descent struct {
	Run      *descent.Run
	Ledger   *ledger.Ledger
	Terminal descent.Pair
	Kind     descent.Kind
}

// Descend runs the descent loop from witness until an exceptional pair is
// reached. The engine timeout applies. On failure the partially filled
// Descent is returned with the error.
func (e *Engine) Descend(ctx context.Context, sys descent.System, witness descent.Pair) (*Descent, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	s, err := e.begin(ctx, sys, witness)
	if err != nil {
		return nil, err
	}
	defer s.interp.Stop()

	if err := s.descend(); err != nil {
		return s.descent(), err
	}

	e.metrics.RecordRunFinished(s.ctx, sys.Name, s.run.Kind.String(), true, s.run.Steps, s.run.Duration())
	telemetry.End(s.span, nil,
		attribute.Int(telemetry.AttrSteps, s.run.Steps),
		attribute.String(telemetry.AttrKind, s.run.Kind.String()),
	)
	return s.descent(), nil
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(ctx, e.timeout)
	}
	return ctx, func() {}
}

// session is the state of one run while the engine drives it.
type session struct {
	engine *Engine
	ctx    context.Context
	system descent.System
	run    *descent.Run
	ledger *ledger.Ledger
	interp *statemachine.Interpreter
	span   trace.Span
	budget *policy.StepBudget
}

func (e *Engine) begin(ctx context.Context, sys descent.System, witness descent.Pair) (*session, error) {
	if err := sys.Validate(); err != nil {
		return nil, err
	}
	if err := witness.Validate(); err != nil {
		return nil, err
	}

	machine, err := statemachine.NewDescentMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}

	runID := uuid.NewString()
	run := descent.NewRun(runID, sys.Name, witness)
	runLedger := ledger.New(runID)

	machineCtx := statemachine.NewContext(run, runLedger)
	machineCtx.Transitions = e.transitions
	interp := statemachine.NewInterpreter(machine, machineCtx)

	ctx, span := e.tracer.StartRun(ctx, runID, sys.Name, witness.String())

	normalized, _ := witness.Normalized()
	stepCap := policy.ResolveStepCap(e.maxSteps, normalized.Measure())

	logging.Info().
		Add(logging.RunID(runID)).
		Add(logging.Problem(sys.Name)).
		Add(logging.Witness(witness)).
		Add(logging.Count("max_steps", stepCap)).
		Msg("run started")

	interp.Start()
	runLedger.RecordRunStarted(sys.Name, witness, stepCap)
	e.metrics.RecordRunStarted(ctx, sys.Name)
	e.publish(ledger.NewRunStartedEvent(runID, sys.Name, witness))

	return &session{
		engine: e,
		ctx:    ctx,
		system: sys,
		run:    run,
		ledger: runLedger,
		interp: interp,
		span:   span,
		budget: policy.NewStepBudget(stepCap),
	}, nil
}

// descend seeds the run and jumps until the current pair is exceptional.
func (s *session) descend() error {
	witness := s.run.Witness
	if err := s.system.CheckQuadratic(witness); err != nil {
		return s.fail(err)
	}

	seed, swapped := witness.Normalized()
	if swapped {
		if err := s.system.CheckSymmetry(witness); err != nil {
			return s.fail(err)
		}
		if err := s.system.CheckQuadratic(seed); err != nil {
			return s.fail(err)
		}
	}
	s.run.Seed(seed)
	s.ledger.RecordSeeded(witness, seed, swapped)

	// A diagonal witness goes straight to its handler.
	if seed.OnDiagonal() {
		return s.classified(descent.KindOnDiagonal)
	}

	for {
		select {
		case <-s.ctx.Done():
			return s.fail(s.ctx.Err())
		default:
		}

		current := s.run.Current
		if kind := s.system.Classify(current); kind.IsExceptional() {
			return s.classified(kind)
		}

		if s.interp.State() == descent.StateSeed {
			if err := s.transition(descent.StateExploring, "witness is not exceptional"); err != nil {
				return s.fail(err)
			}
		}

		b, partner, next, err := s.jump(current)
		if err != nil {
			return s.fail(err)
		}

		s.run.Advance(next)
		s.ledger.RecordStep(s.run.Steps, current, b, partner, next)
		s.engine.metrics.RecordStep(s.ctx, s.system.Name)
		telemetry.Step(s.span, s.run.Steps, current.String(), next.String())
		s.engine.publish(ledger.NewStepTakenEvent(s.run.ID, s.run.Steps, current, next))

		logging.Debug().
			Add(logging.RunID(s.run.ID)).
			Add(logging.Step(s.run.Steps)).
			Add(logging.Pair(current)).
			Add(logging.Companion(partner)).
			Add(logging.Measure(next.Measure())).
			Msg("descent step")
	}
}

// jump computes the Vieta partner of the non-exceptional pair (x, y) and
// returns the next pair (partner, x) after asserting the descent
// obligations.
func (s *session) jump(p descent.Pair) (b, partner *big.Int, next descent.Pair, err error) {
	if !s.budget.CanStep() {
		return nil, nil, descent.Pair{}, descent.Violation(descent.ObligationStepCap, p,
			"%d steps taken without reaching the exceptional set", s.run.Steps)
	}

	b, c := s.system.Quadratic.At(p.X)
	partner = descent.OtherRoot(b, c, p.Y)

	if partner.Sign() < 0 || partner.Cmp(p.X) > 0 {
		return nil, nil, descent.Pair{}, descent.Violation(descent.ObligationDescent, p,
			"partner %s is outside [0, %s]", partner, p.X)
	}
	if bound := s.system.DescentBound; bound != nil && !bound(p.X, p.Y, partner) {
		return nil, nil, descent.Pair{}, descent.Violation(descent.ObligationDescent, p,
			"descent bound rejects partner %s", partner)
	}
	if partner.Cmp(p.X) == 0 {
		return nil, nil, descent.Pair{}, descent.Violation(descent.ObligationDescent, p,
			"partner equals %s on a non-exceptional pair", p.X)
	}

	next = descent.NewPair(partner, p.X)
	if next.Measure().Cmp(p.Measure()) >= 0 {
		return nil, nil, descent.Pair{}, descent.Violation(descent.ObligationDescent, p,
			"measure %s does not decrease below %s", next.Measure(), p.Measure())
	}
	if err := s.system.CheckQuadratic(next); err != nil {
		return nil, nil, descent.Pair{}, err
	}
	if err := s.budget.Step(); err != nil {
		return nil, nil, descent.Pair{}, descent.Violation(descent.ObligationStepCap, p, "%v", err)
	}

	return b, partner, next, nil
}

func (s *session) classified(kind descent.Kind) error {
	pair := s.run.Current
	s.run.Classified(kind)
	s.ledger.RecordClassified(pair, kind)
	telemetry.Classified(s.span, kind.String(), pair.String())

	if err := s.transition(descent.StateExceptional, fmt.Sprintf("%s at %s", kind, pair)); err != nil {
		return s.fail(err)
	}

	logging.Debug().
		Add(logging.RunID(s.run.ID)).
		Add(logging.Kind(kind)).
		Add(logging.Pair(pair)).
		Msg("exceptional pair reached")

	return nil
}

func (s *session) transition(to descent.State, reason string) error {
	from := s.interp.State()
	if err := s.interp.Transition(to, reason); err != nil {
		return err
	}
	s.engine.metrics.RecordStateTransition(s.ctx, from.String(), to.String())
	return nil
}

// fail moves the run to failed and returns err unchanged.
func (s *session) fail(err error) error {
	state := s.interp.State()

	var violation *descent.InvariantError
	if errors.As(err, &violation) {
		s.ledger.RecordViolation(state, violation)
		s.engine.metrics.RecordViolation(s.ctx, s.system.Name, string(violation.Obligation))
		logging.Error().
			Add(logging.RunID(s.run.ID)).
			Add(logging.Obligation(violation.Obligation)).
			Add(logging.Pair(violation.Pair)).
			Msg(violation.Detail)
	}

	if !state.IsTerminal() {
		if terr := s.transition(descent.StateFailed, err.Error()); terr != nil {
			logging.Warn().
				Add(logging.RunID(s.run.ID)).
				Add(logging.ErrorField(terr)).
				Msg("failed transition rejected")
		}
	}
	s.run.Fail(err.Error())
	s.ledger.RecordRunFailed(state, err.Error())
	s.engine.publish(ledger.NewRunFailedEvent(s.run.ID, err.Error(), state, s.run.Duration()))
	s.engine.metrics.RecordRunFinished(s.ctx, s.system.Name, s.run.Kind.String(), false, s.run.Steps, s.run.Duration())

	logging.Error().
		Add(logging.RunID(s.run.ID)).
		Add(logging.State(state)).
		Add(logging.ErrorField(err)).
		Msg("run failed")

	telemetry.End(s.span, err, attribute.Int(telemetry.AttrSteps, s.run.Steps))
	return err
}

// complete records the discharge and moves the run to discharged.
func (s *session) complete(handler string, pair descent.Pair, claim string) error {
	kind := s.run.Kind
	s.ledger.RecordDischarged(kind, handler, pair, claim)

	if err := s.transition(descent.StateDischarged, claim); err != nil {
		return s.fail(err)
	}
	s.run.Complete()
	s.ledger.RecordRunCompleted(s.run.Steps, kind, s.run.Current)
	s.engine.publish(ledger.NewRunCompletedEvent(s.run.ID, kind, s.run.Steps, s.run.Duration()))
	s.engine.metrics.RecordRunFinished(s.ctx, s.system.Name, kind.String(), true, s.run.Steps, s.run.Duration())

	logging.Info().
		Add(logging.RunID(s.run.ID)).
		Add(logging.Kind(kind)).
		Add(logging.Step(s.run.Steps)).
		Add(logging.Duration(s.run.Duration())).
		Add(logging.Str("claim", claim)).
		Msg("run completed")

	telemetry.End(s.span, nil,
		attribute.Int(telemetry.AttrSteps, s.run.Steps),
		attribute.String(telemetry.AttrKind, kind.String()),
		attribute.String(telemetry.AttrTerminal, s.run.Current.String()),
	)
	return nil
}

func (s *session) descent() *Descent {
	return &Descent{
		Run:      s.run,
		Ledger:   s.ledger,
		Terminal: s.run.Current.Clone(),
		Kind:     s.run.Kind,
	}
}

func (e *Engine) publish(event ledger.Event) {
	if err := e.publisher.Publish(event); err != nil {
		logging.Warn().
			Add(logging.RunID(event.RunID())).
			Add(logging.Str("event", event.EventType())).
			Add(logging.ErrorField(err)).
			Msg("event publish failed")
	}
}
