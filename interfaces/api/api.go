// Package api provides the public API for the descent solver.
//
// descent proves claims about pairs of non-negative integers that satisfy
// a symmetric relation H by Vieta jumping: every pair on H is one root of
// a quadratic y² - B(x)·y + C(x) = 0, and replacing y by the other root
// B(x) - y yields a smaller pair on H. The engine repeats the jump until
// it reaches an exceptional pair, where a handler produces the claim.
//
// # Quick Start
//
// Solve a witness of a built-in family:
//
//	out, err := api.SolveFamily(ctx, nil, "imo1988-q6", api.PairOf(8, 30))
//	fmt.Println(out.Claim) // k = 4 = 2²
//
// Or describe a problem of your own:
//
//	problem := api.Problem[string]{
//	    System: api.System{
//	        Name:      "mine",
//	        Relation:  func(x, y *big.Int) bool { ... },
//	        Quadratic: api.Quadratic{B: b, C: c},
//	    },
//	    Handlers: api.Handlers[string]{Zero: zero, Diag: diag},
//	}
//	engine, _ := api.NewEngine(api.WithMaxSteps(1000))
//	out, err := api.Solve(ctx, engine, problem, api.PairOf(x, y))
//
// # Exceptional pairs
//
// A descent stops at the first pair of one of these kinds, checked in
// this order:
//
//   - KindBase: marked by the problem's IsBase predicate
//   - KindZeroFirstCoord: x = 0
//   - KindOnDiagonal: x = y
//   - KindVietaEqualsY: the other root is 0
//   - KindVietaEqualsYPlusX: the other root is x
//
// # Errors
//
// Every obligation the engine checks fails with an *InvariantError that
// names it. All of them match ErrInvariantViolation with errors.Is.
package api

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/descent/application"
	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/pack"
	infrapack "github.com/felixgeelhaar/descent/infrastructure/pack"
	"github.com/felixgeelhaar/descent/pack/vieta"
)

// Re-export domain types.
type (
	// Pair is an ordered pair of non-negative integers.
	Pair = descent.Pair
	// System is the relation and quadratic that drive a descent.
	System = descent.System
	// Quadratic holds the coefficient functions B and C.
	Quadratic = descent.Quadratic
	// Coefficient computes a quadratic coefficient from x.
	Coefficient = descent.Coefficient
	// Relation is the symmetric predicate H.
	Relation = descent.Relation
	// BasePredicate marks caller-defined terminal pairs.
	BasePredicate = descent.BasePredicate
	// DescentBound is an extra per-step check.
	DescentBound = descent.DescentBound
	// Kind classifies exceptional pairs.
	Kind = descent.Kind
	// Obligation names a checked invariant.
	Obligation = descent.Obligation
	// InvariantError reports a violated obligation.
	InvariantError = descent.InvariantError
	// State is a state of the descent machine.
	State = descent.State
	// Run is the record of one descent.
	Run = descent.Run

	// Claim is what the built-in families prove.
	Claim = pack.Claim
	// Family is a named problem family.
	Family = pack.Family

	// Engine runs descents.
	Engine = application.Engine
	// EngineConfig configures an engine.
	EngineConfig = application.EngineConfig
	// Option configures an engine.
	Option = application.Option
	// Descent is the result of a descent without discharge.
	Descent = application.Descent
)

// Problem bundles a system with its claim handlers.
type Problem[T any] = descent.Problem[T]

// Handlers produce the claim at an exceptional pair.
type Handlers[T any] = descent.Handlers[T]

// Outcome is the result of solving one witness.
type Outcome[T any] = application.Outcome[T]

// Exceptional kinds.
const (
	KindNone              = descent.KindNone
	KindBase              = descent.KindBase
	KindZeroFirstCoord    = descent.KindZeroFirstCoord
	KindOnDiagonal        = descent.KindOnDiagonal
	KindVietaEqualsY      = descent.KindVietaEqualsY
	KindVietaEqualsYPlusX = descent.KindVietaEqualsYPlusX
)

// Obligations.
const (
	ObligationQuadratic = descent.ObligationQuadratic
	ObligationSymmetry  = descent.ObligationSymmetry
	ObligationDescent   = descent.ObligationDescent
	ObligationStepCap   = descent.ObligationStepCap
)

// Errors.
var (
	ErrInvariantViolation   = descent.ErrInvariantViolation
	ErrIterationCapExceeded = descent.ErrIterationCapExceeded
	ErrInvalidWitness       = descent.ErrInvalidWitness
	ErrInvalidProblem       = descent.ErrInvalidProblem
	ErrNotExceptional       = descent.ErrNotExceptional
	ErrNotAWitness          = pack.ErrNotAWitness
	ErrFamilyNotFound       = pack.ErrFamilyNotFound
)

// Engine options.
var (
	WithMaxSteps    = application.WithMaxSteps
	WithTimeout     = application.WithTimeout
	WithTransitions = application.WithTransitions
	WithPublisher   = application.WithPublisher
	WithMetrics     = application.WithMetrics
	WithTracer      = application.WithTracer
	WithTelemetry   = application.WithTelemetry
)

// PairOf builds a pair from machine integers.
func PairOf(x, y int64) Pair {
	return descent.PairOf(x, y)
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) (*Engine, error) {
	return application.NewEngineWithOptions(opts...)
}

// Solve descends from witness and discharges the claim. A nil engine uses
// the defaults.
func Solve[T any](ctx context.Context, e *Engine, problem Problem[T], witness Pair) (*Outcome[T], error) {
	return application.Solve(ctx, e, problem, witness)
}

// Discharge produces the claim for an exceptional pair directly.
func Discharge[T any](problem Problem[T], kind Kind, pair Pair) (T, error) {
	return application.Discharge(problem, kind, pair)
}

// Families returns the built-in problem families.
func Families() []Family {
	return vieta.Families()
}

// SolveFamily solves a witness of the named built-in family.
func SolveFamily(ctx context.Context, e *Engine, name string, witness Pair) (*Outcome[Claim], error) {
	reg := infrapack.NewRegistry()
	if err := vieta.Register(reg); err != nil {
		return nil, err
	}
	fam, err := reg.MustGet(name)
	if err != nil {
		return nil, err
	}
	problem, err := fam.Problem(witness)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return application.Solve(ctx, e, problem, witness)
}
