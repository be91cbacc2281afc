package descent

import (
	"fmt"
	"math/big"
)

// Relation is the caller's relation H on pairs.
type Relation func(x, y *big.Int) bool

// DescentBound is the caller's descent obligation. It is consulted for a
// non-exceptional pair (x, y) with 0 < x < y and the partner of y, and
// must report whether 0 <= partner <= x.
type DescentBound func(x, y, partner *big.Int) bool

// System is the part of a problem that drives the descent itself.
type System struct {
	// Name identifies the problem in logs and ledgers.
	Name string

	// Relation is H. It must be symmetric.
	Relation Relation

	// Quadratic gives B and C with H(x, y) iff y² - B(x)·y + C(x) = 0.
	Quadratic Quadratic

	// IsBase marks caller-defined terminal pairs (optional).
	IsBase BasePredicate

	// DescentBound is checked on every step in addition to the engine's
	// own 0 <= partner <= x check (optional).
	DescentBound DescentBound
}

// Validate checks that the required functions are present.
func (s System) Validate() error {
	if s.Relation == nil {
		return fmt.Errorf("%w: relation is required", ErrInvalidProblem)
	}
	if s.Quadratic.B == nil || s.Quadratic.C == nil {
		return fmt.Errorf("%w: quadratic coefficients B and C are required", ErrInvalidProblem)
	}
	return nil
}

// Holds reports whether H(p.X, p.Y).
func (s System) Holds(p Pair) bool {
	return s.Relation(p.X, p.Y)
}

// CheckQuadratic asserts that p satisfies H and lies on the quadratic
// indexed by p.X.
func (s System) CheckQuadratic(p Pair) error {
	if !s.Holds(p) {
		return Violation(ObligationQuadratic, p, "relation does not hold")
	}
	b, c := s.Quadratic.At(p.X)
	if !IsRoot(b, c, p.Y) {
		return Violation(ObligationQuadratic, p,
			"relation holds but %s is not a root of t² - %s·t + %s", p.Y, b, c)
	}
	return nil
}

// CheckSymmetry asserts H(p.Y, p.X) given H(p.X, p.Y).
func (s System) CheckSymmetry(p Pair) error {
	if !s.Relation(p.Y, p.X) {
		return Violation(ObligationSymmetry, p, "relation does not hold for %s", p.Swapped())
	}
	return nil
}

// Classify classifies a normalized pair against this system.
func (s System) Classify(p Pair) Kind {
	return Classify(p, s.Quadratic.B(p.X), s.IsBase)
}

// Handlers produce the claim once a terminal pair is reached.
type Handlers[T any] struct {
	// Zero handles H(x, 0).
	Zero func(x *big.Int) (T, error)

	// Diag handles H(x, x).
	Diag func(x *big.Int) (T, error)

	// Base handles a pair marked by IsBase.
	Base func(x, y *big.Int) (T, error)
}

// Problem bundles a descent system with its claim handlers.
type Problem[T any] struct {
	System
	Handlers Handlers[T]
}

// Validate checks the system and that every reachable handler is present.
func (p Problem[T]) Validate() error {
	if err := p.System.Validate(); err != nil {
		return err
	}
	if p.Handlers.Zero == nil || p.Handlers.Diag == nil {
		return fmt.Errorf("%w: zero and diagonal handlers are required", ErrInvalidProblem)
	}
	if p.IsBase != nil && p.Handlers.Base == nil {
		return fmt.Errorf("%w: base handler is required when a base predicate is set", ErrInvalidProblem)
	}
	return nil
}
