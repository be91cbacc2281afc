package application

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/ledger"
	"github.com/felixgeelhaar/descent/domain/pack"
	"github.com/felixgeelhaar/descent/infrastructure/telemetry"
	"github.com/felixgeelhaar/descent/pack/vieta"
)

// Test helpers

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngineWithOptions(opts...)
	if err != nil {
		t.Fatalf("NewEngineWithOptions() error = %v", err)
	}
	return e
}

func quotientProblem(t *testing.T, w descent.Pair) descent.Problem[pack.Claim] {
	t.Helper()
	p, err := vieta.NewQuotientSquare().Problem(w)
	if err != nil {
		t.Fatalf("Problem(%s) error = %v", w, err)
	}
	return p
}

func divisorProblem(t *testing.T, w descent.Pair) descent.Problem[pack.Claim] {
	t.Helper()
	p, err := vieta.NewDivisorPlusOne().Problem(w)
	if err != nil {
		t.Fatalf("Problem(%s) error = %v", w, err)
	}
	return p
}

func measures(ms []*big.Int) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out
}

// steepProblem has H(a, b) iff b² − ab − 6a² = 0, so the partner of 3 over
// x = 1 is −2 and the descent bound fails immediately.
func steepProblem() descent.Problem[string] {
	b := func(x *big.Int) *big.Int { return new(big.Int).Set(x) }
	c := func(x *big.Int) *big.Int {
		v := new(big.Int).Mul(x, x)
		return v.Mul(v, big.NewInt(-6))
	}
	ok := func(*big.Int) (string, error) { return "ok", nil }
	return descent.Problem[string]{
		System: descent.System{
			Name: "steep",
			Relation: func(x, y *big.Int) bool {
				return descent.IsRoot(b(x), c(x), y)
			},
			Quadratic: descent.Quadratic{B: b, C: c},
		},
		Handlers: descent.Handlers[string]{Zero: ok, Diag: ok},
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(e ledger.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e.EventType())
	return nil
}

type countingMetrics struct {
	telemetry.NoopMetricsProvider
	mu          sync.Mutex
	started     int
	steps       int
	transitions []string
	violations  []string
	finished    []bool
}

func (m *countingMetrics) RecordRunStarted(context.Context, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
}

func (m *countingMetrics) RecordStep(context.Context, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps++
}

func (m *countingMetrics) RecordStateTransition(_ context.Context, from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, from+"->"+to)
}

func (m *countingMetrics) RecordViolation(_ context.Context, _ string, obligation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.violations = append(m.violations, obligation)
}

func (m *countingMetrics) RecordRunFinished(_ context.Context, _ string, _ string, success bool, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = append(m.finished, success)
}

// Tests

func TestNewEngine(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		e, err := NewEngine(EngineConfig{})
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if e.transitions == nil || e.publisher == nil || e.metrics == nil || e.tracer == nil {
			t.Error("NewEngine() should fill in defaults")
		}
	})

	t.Run("negative max steps", func(t *testing.T) {
		_, err := NewEngine(EngineConfig{MaxSteps: -1})
		if !errors.Is(err, ErrInvalidEngineConfig) {
			t.Errorf("error = %v, want ErrInvalidEngineConfig", err)
		}
	})

	t.Run("negative timeout", func(t *testing.T) {
		_, err := NewEngine(EngineConfig{Timeout: -time.Second})
		if !errors.Is(err, ErrInvalidEngineConfig) {
			t.Errorf("error = %v, want ErrInvalidEngineConfig", err)
		}
	})
}

func TestSolve_QuotientSquare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		witness   descent.Pair
		kind      descent.Kind
		terminal  descent.Pair
		measures  []string
		statement string
	}{
		{
			name:      "one jump",
			witness:   descent.PairOf(8, 30),
			kind:      descent.KindVietaEqualsY,
			terminal:  descent.PairOf(2, 8),
			measures:  []string{"30", "8"},
			statement: "k = 4 = 2²",
		},
		{
			name:      "two jumps",
			witness:   descent.PairOf(30, 112),
			kind:      descent.KindVietaEqualsY,
			terminal:  descent.PairOf(2, 8),
			measures:  []string{"112", "30", "8"},
			statement: "k = 4 = 2²",
		},
		{
			name:      "swapped witness",
			witness:   descent.PairOf(30, 8),
			kind:      descent.KindVietaEqualsY,
			terminal:  descent.PairOf(2, 8),
			measures:  []string{"30", "8"},
			statement: "k = 4 = 2²",
		},
		{
			name:      "exceptional seed",
			witness:   descent.PairOf(3, 27),
			kind:      descent.KindVietaEqualsY,
			terminal:  descent.PairOf(3, 27),
			measures:  []string{"27"},
			statement: "k = 9 = 3²",
		},
		{
			name:      "diagonal seed",
			witness:   descent.PairOf(1, 1),
			kind:      descent.KindOnDiagonal,
			terminal:  descent.PairOf(1, 1),
			measures:  []string{"1"},
			statement: "k = 1 = 1²",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := Solve(context.Background(), newTestEngine(t), quotientProblem(t, tt.witness), tt.witness)
			if err != nil {
				t.Fatalf("Solve() error = %v", err)
			}
			if out.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", out.Kind, tt.kind)
			}
			if !out.Terminal.Equal(tt.terminal) {
				t.Errorf("Terminal = %s, want %s", out.Terminal, tt.terminal)
			}
			if diff := cmp.Diff(tt.measures, measures(out.Measures)); diff != "" {
				t.Errorf("Measures mismatch (-want +got):\n%s", diff)
			}
			if out.Steps != len(tt.measures)-1 {
				t.Errorf("Steps = %d, want %d", out.Steps, len(tt.measures)-1)
			}
			if out.Claim.Statement != tt.statement {
				t.Errorf("Claim = %q, want %q", out.Claim.Statement, tt.statement)
			}
			if out.Run.State != descent.StateDischarged {
				t.Errorf("State = %s, want discharged", out.Run.State)
			}
			if out.Status != string(descent.RunStatusCompleted) {
				t.Errorf("Status = %s, want completed", out.Status)
			}
		})
	}
}

func TestSolve_DivisorPlusOne(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		witness  descent.Pair
		kind     descent.Kind
		terminal descent.Pair
		steps    int
	}{
		{"base seed", descent.PairOf(1, 2), descent.KindBase, descent.PairOf(1, 2), 0},
		{"diagonal seed", descent.PairOf(1, 1), descent.KindOnDiagonal, descent.PairOf(1, 1), 0},
		{"one jump", descent.PairOf(2, 5), descent.KindBase, descent.PairOf(1, 2), 1},
		{"three jumps", descent.PairOf(34, 13), descent.KindBase, descent.PairOf(1, 2), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := Solve(context.Background(), nil, divisorProblem(t, tt.witness), tt.witness)
			if err != nil {
				t.Fatalf("Solve() error = %v", err)
			}
			if out.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", out.Kind, tt.kind)
			}
			if !out.Terminal.Equal(tt.terminal) {
				t.Errorf("Terminal = %s, want %s", out.Terminal, tt.terminal)
			}
			if out.Steps != tt.steps {
				t.Errorf("Steps = %d, want %d", out.Steps, tt.steps)
			}
			if out.Claim.Statement != "k = 3" {
				t.Errorf("Claim = %q, want k = 3", out.Claim.Statement)
			}
		})
	}
}

func TestSolve_StrictDecrease(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	for _, fam := range vieta.Families() {
		for _, w := range fam.Witnesses(12) {
			problem, err := fam.Problem(w)
			if err != nil {
				t.Fatalf("%s: Problem(%s) error = %v", fam.Name(), w, err)
			}
			out, err := Solve(context.Background(), e, problem, w)
			if err != nil {
				t.Fatalf("%s: Solve(%s) error = %v", fam.Name(), w, err)
			}

			for i := 1; i < len(out.Measures); i++ {
				if out.Measures[i].Cmp(out.Measures[i-1]) >= 0 {
					t.Errorf("%s %s: measure %s does not decrease below %s",
						fam.Name(), w, out.Measures[i], out.Measures[i-1])
				}
			}
			seed, _ := w.Normalized()
			if big.NewInt(int64(out.Steps)).Cmp(seed.Y) > 0 {
				t.Errorf("%s %s: %d steps exceeds seed measure %s", fam.Name(), w, out.Steps, seed.Y)
			}
		}
	}
}

func TestSolve_DescentBoundViolated(t *testing.T) {
	t.Parallel()

	problem := quotientProblem(t, descent.PairOf(8, 30))
	problem.DescentBound = func(_, _, _ *big.Int) bool { return false }

	out, err := Solve(context.Background(), newTestEngine(t), problem, descent.PairOf(8, 30))
	if !errors.Is(err, descent.ErrInvariantViolation) {
		t.Fatalf("error = %v, want ErrInvariantViolation", err)
	}

	var violation *descent.InvariantError
	if !errors.As(err, &violation) {
		t.Fatalf("error %T is not an InvariantError", err)
	}
	if violation.Obligation != descent.ObligationDescent {
		t.Errorf("Obligation = %s, want descent", violation.Obligation)
	}
	if !violation.Pair.Equal(descent.PairOf(8, 30)) {
		t.Errorf("Pair = %s, want (8, 30)", violation.Pair)
	}
	if out == nil {
		t.Fatal("Solve() should return the partial outcome")
	}
	if out.Run.Status != descent.RunStatusFailed || out.Run.State != descent.StateFailed {
		t.Errorf("run = %s/%s, want failed/failed", out.Run.Status, out.Run.State)
	}
	if out.Claim.Statement != "" {
		t.Errorf("failed run should carry no claim, got %q", out.Claim.Statement)
	}
	if n := len(out.Run.Measures); n != 1 {
		t.Errorf("no step should be taken, got %d measures", n)
	}
}

func TestSolve_NegativePartner(t *testing.T) {
	t.Parallel()

	out, err := Solve(context.Background(), newTestEngine(t), steepProblem(), descent.PairOf(1, 3))
	var violation *descent.InvariantError
	if !errors.As(err, &violation) || violation.Obligation != descent.ObligationDescent {
		t.Fatalf("error = %v, want a descent violation", err)
	}
	if !strings.Contains(err.Error(), "-2") {
		t.Errorf("error should name the partner, got %q", err)
	}

	if got := measures(out.Run.Measures); len(got) != 1 {
		t.Errorf("Measures = %v, want only the seed", got)
	}
}

func TestSolve_SymmetryViolated(t *testing.T) {
	t.Parallel()

	// H(a, b) iff b ∈ {0, a}: (5, 0) holds but (0, 5) does not.
	b := func(x *big.Int) *big.Int { return new(big.Int).Set(x) }
	c := func(*big.Int) *big.Int { return new(big.Int) }
	ok := func(*big.Int) (string, error) { return "ok", nil }
	problem := descent.Problem[string]{
		System: descent.System{
			Name:      "lopsided",
			Relation:  func(x, y *big.Int) bool { return descent.IsRoot(b(x), c(x), y) },
			Quadratic: descent.Quadratic{B: b, C: c},
		},
		Handlers: descent.Handlers[string]{Zero: ok, Diag: ok},
	}

	_, err := Solve(context.Background(), newTestEngine(t), problem, descent.PairOf(5, 0))
	var violation *descent.InvariantError
	if !errors.As(err, &violation) || violation.Obligation != descent.ObligationSymmetry {
		t.Fatalf("error = %v, want a symmetry violation", err)
	}
}

func TestSolve_NotAWitness(t *testing.T) {
	t.Parallel()

	problem := vieta.NewQuotientSquare().ProblemFor(big.NewInt(4))
	_, err := Solve(context.Background(), newTestEngine(t), problem, descent.PairOf(8, 31))
	var violation *descent.InvariantError
	if !errors.As(err, &violation) || violation.Obligation != descent.ObligationQuadratic {
		t.Fatalf("error = %v, want a quadratic violation", err)
	}
}

func TestSolve_InvalidInput(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)

	_, err := Solve(context.Background(), e, descent.Problem[string]{}, descent.PairOf(1, 1))
	if !errors.Is(err, descent.ErrInvalidProblem) {
		t.Errorf("empty problem: error = %v, want ErrInvalidProblem", err)
	}

	problem := quotientProblem(t, descent.PairOf(8, 30))
	_, err = Solve(context.Background(), e, problem, descent.PairOf(-1, 2))
	if !errors.Is(err, descent.ErrInvalidWitness) {
		t.Errorf("negative witness: error = %v, want ErrInvalidWitness", err)
	}
}

func TestSolve_StepCap(t *testing.T) {
	t.Parallel()

	w := descent.PairOf(5, 13)
	out, err := Solve(context.Background(), newTestEngine(t, WithMaxSteps(1)), divisorProblem(t, w), w)
	if !errors.Is(err, descent.ErrIterationCapExceeded) {
		t.Fatalf("error = %v, want ErrIterationCapExceeded", err)
	}
	if !errors.Is(err, descent.ErrInvariantViolation) {
		t.Error("iteration cap should be an invariant violation")
	}
	if out.Steps != 1 {
		t.Errorf("Steps = %d, want 1", out.Steps)
	}
	if got := len(out.Run.Measures); got != 2 {
		t.Errorf("Measures = %d, want 2", got)
	}
}

func TestSolve_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := descent.PairOf(8, 30)
	out, err := Solve(ctx, newTestEngine(t), quotientProblem(t, w), w)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if out.Run.Status != descent.RunStatusFailed {
		t.Errorf("Status = %s, want failed", out.Run.Status)
	}
}

func TestSolve_Ledger(t *testing.T) {
	t.Parallel()

	w := descent.PairOf(30, 112)
	out, err := Solve(context.Background(), newTestEngine(t), quotientProblem(t, w), w)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	var got []ledger.EntryType
	for _, e := range out.Entries {
		if e.Type == ledger.EntryStateTransition {
			continue
		}
		got = append(got, e.Type)
	}
	want := []ledger.EntryType{
		ledger.EntryRunStarted,
		ledger.EntrySeeded,
		ledger.EntryStep,
		ledger.EntryStep,
		ledger.EntryClassified,
		ledger.EntryDischarged,
		ledger.EntryRunCompleted,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ledger mismatch (-want +got):\n%s", diff)
	}

	var discharge ledger.DischargeDetails
	for _, e := range out.Entries {
		if e.Type == ledger.EntryDischarged {
			if err := e.DecodeDetails(&discharge); err != nil {
				t.Fatalf("DecodeDetails() error = %v", err)
			}
		}
	}
	if discharge.Handler != HandlerZero {
		t.Errorf("Handler = %q, want %q", discharge.Handler, HandlerZero)
	}
	if !discharge.Pair.Equal(descent.PairOf(2, 0)) {
		t.Errorf("discharge pair = %s, want (2, 0)", discharge.Pair)
	}
}

func TestSolve_PublishesEvents(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	w := descent.PairOf(2, 5)
	if _, err := Solve(context.Background(), newTestEngine(t, WithPublisher(pub)), divisorProblem(t, w), w); err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	want := []string{"run.started", "step.taken", "run.completed"}
	if diff := cmp.Diff(want, pub.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSolve_Metrics(t *testing.T) {
	t.Parallel()

	m := &countingMetrics{}
	e := newTestEngine(t, WithMetrics(m))

	w := descent.PairOf(5, 13)
	if _, err := Solve(context.Background(), e, divisorProblem(t, w), w); err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	if m.started != 1 || m.steps != 2 {
		t.Errorf("started = %d, steps = %d, want 1 and 2", m.started, m.steps)
	}
	wantTransitions := []string{"seed->exploring", "exploring->exceptional", "exceptional->discharged"}
	if diff := cmp.Diff(wantTransitions, m.transitions); diff != "" {
		t.Errorf("transitions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true}, m.finished); diff != "" {
		t.Errorf("finished mismatch (-want +got):\n%s", diff)
	}

	problem := quotientProblem(t, descent.PairOf(8, 30))
	problem.DescentBound = func(_, _, _ *big.Int) bool { return false }
	_, _ = Solve(context.Background(), e, problem, descent.PairOf(8, 30))

	if diff := cmp.Diff([]string{"descent"}, m.violations); diff != "" {
		t.Errorf("violations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true, false}, m.finished); diff != "" {
		t.Errorf("finished mismatch (-want +got):\n%s", diff)
	}
}

func TestSolve_Spans(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	e := newTestEngine(t, WithTracer(telemetry.NewTracer(tp)))

	w := descent.PairOf(30, 112)
	if _, err := Solve(context.Background(), e, quotientProblem(t, w), w); err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected run and discharge spans, got %d", len(spans))
	}

	var run sdktrace.ReadOnlySpan
	for _, s := range spans {
		if s.Name() == telemetry.SpanRun {
			run = s
		}
	}
	if run == nil {
		t.Fatal("run span not recorded")
	}

	steps := 0
	for _, ev := range run.Events() {
		if ev.Name == telemetry.EventStep {
			steps++
		}
	}
	if steps != 2 {
		t.Errorf("step events = %d, want 2", steps)
	}
}

func TestEngine_Descend(t *testing.T) {
	t.Parallel()

	w := descent.PairOf(13, 5)
	problem := divisorProblem(t, w)

	d, err := newTestEngine(t).Descend(context.Background(), problem.System, w)
	if err != nil {
		t.Fatalf("Descend() error = %v", err)
	}
	if d.Kind != descent.KindBase {
		t.Errorf("Kind = %s, want base", d.Kind)
	}
	if !d.Terminal.Equal(descent.PairOf(1, 2)) {
		t.Errorf("Terminal = %s, want (1, 2)", d.Terminal)
	}
	if d.Run.State != descent.StateExceptional {
		t.Errorf("State = %s, want exceptional", d.Run.State)
	}
	if d.Ledger.Count() == 0 {
		t.Error("ledger should not be empty")
	}

	entries := d.Ledger.EntriesByType(ledger.EntrySeeded)
	if len(entries) != 1 {
		t.Fatalf("seeded entries = %d, want 1", len(entries))
	}
	var seed ledger.SeedDetails
	if err := entries[0].DecodeDetails(&seed); err != nil {
		t.Fatalf("DecodeDetails() error = %v", err)
	}
	if !seed.Swapped || !seed.Pair.Equal(descent.PairOf(5, 13)) {
		t.Errorf("seed = %+v, want swapped (5, 13)", seed)
	}
}

// consecutiveProblem has H(x, y) iff (y − x)² = 1. From (n, n+1) every
// jump lowers the measure by exactly one until (1, 2), whose partner is 0.
func consecutiveProblem() descent.Problem[string] {
	two := big.NewInt(2)
	b := func(x *big.Int) *big.Int { return new(big.Int).Mul(two, x) }
	c := func(x *big.Int) *big.Int {
		v := new(big.Int).Mul(x, x)
		return v.Sub(v, big.NewInt(1))
	}
	handler := func(x *big.Int) (string, error) { return "ends at " + x.String(), nil }
	return descent.Problem[string]{
		System: descent.System{
			Name: "consecutive",
			Relation: func(x, y *big.Int) bool {
				d := new(big.Int).Sub(y, x)
				return d.Mul(d, d).Cmp(big.NewInt(1)) == 0
			},
			Quadratic: descent.Quadratic{B: b, C: c},
			DescentBound: func(x, _, partner *big.Int) bool {
				return new(big.Int).Sub(x, partner).Cmp(big.NewInt(1)) == 0
			},
		},
		Handlers: descent.Handlers[string]{Zero: handler, Diag: handler},
	}
}

func TestSolve_OneUnitPerStep(t *testing.T) {
	t.Parallel()

	w := descent.PairOf(5000, 5001)
	out, err := Solve(context.Background(), newTestEngine(t), consecutiveProblem(), w)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if out.Steps != 4999 {
		t.Errorf("Steps = %d, want 4999", out.Steps)
	}
	if out.Kind != descent.KindVietaEqualsY || !out.Terminal.Equal(descent.PairOf(1, 2)) {
		t.Errorf("terminal = %s [%s], want (1, 2) [vieta_equals_y]", out.Terminal, out.Kind)
	}
	if out.Claim != "ends at 1" {
		t.Errorf("Claim = %q", out.Claim)
	}
}

func TestEngine_DerivedCapFollowsSeed(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	w := descent.PairOf(1048587, 1048586)

	s, err := e.begin(context.Background(), consecutiveProblem().System, w)
	if err != nil {
		t.Fatalf("begin() error = %v", err)
	}
	defer s.interp.Stop()

	if got := s.budget.Limit(); got != 1048588 {
		t.Errorf("derived cap = %d, want 1048588", got)
	}
}

func TestSolve_LongDescentBeyondTwoToTheTwenty(t *testing.T) {
	if testing.Short() {
		t.Skip("walks more than a million steps")
	}

	w := descent.PairOf(1048586, 1048587)
	out, err := Solve(context.Background(), newTestEngine(t), consecutiveProblem(), w)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if out.Steps != 1048585 {
		t.Errorf("Steps = %d, want 1048585", out.Steps)
	}
}

func TestEngine_DescendTimeout(t *testing.T) {
	t.Parallel()

	w := descent.PairOf(200000, 200001)
	e := newTestEngine(t, WithTimeout(time.Nanosecond))

	d, err := e.Descend(context.Background(), consecutiveProblem().System, w)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
	if d.Run.Status != descent.RunStatusFailed {
		t.Errorf("Status = %s, want failed", d.Run.Status)
	}
	if d.Run.Steps >= 199999 {
		t.Errorf("Steps = %d, the timeout should stop the run early", d.Run.Steps)
	}
}
