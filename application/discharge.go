package application

import (
	"fmt"

	"github.com/felixgeelhaar/descent/domain/descent"
)

// Handler names recorded in the ledger.
const (
	HandlerBase = "base"
	HandlerZero = "zero"
	HandlerDiag = "diag"
)

type discharged[T any] struct {
	claim   T
	handler string
	pair    descent.Pair
}

// Discharge produces the claim for an exceptional pair of kind.
//
// Base, zero and diagonal pairs go to their handler directly. The two
// boundary kinds are resolved through the companion root of the pair's
// quadratic, which must be 0 or x.
func Discharge[T any](problem descent.Problem[T], kind descent.Kind, pair descent.Pair) (T, error) {
	var zero T
	if err := problem.Validate(); err != nil {
		return zero, err
	}
	if err := pair.Validate(); err != nil {
		return zero, err
	}
	d, err := discharge(problem, kind, pair)
	if err != nil {
		return zero, err
	}
	return d.claim, nil
}

func discharge[T any](problem descent.Problem[T], kind descent.Kind, pair descent.Pair) (discharged[T], error) {
	h := problem.Handlers

	switch kind {
	case descent.KindBase:
		if h.Base == nil {
			return discharged[T]{}, fmt.Errorf("%w: no base handler", descent.ErrInvalidProblem)
		}
		return call(kind, HandlerBase, pair, func() (T, error) {
			return h.Base(pair.X, pair.Y)
		})

	case descent.KindZeroFirstCoord:
		// (0, y) is handed over as H(y, 0).
		if err := problem.CheckSymmetry(pair); err != nil {
			return discharged[T]{}, err
		}
		return call(kind, HandlerZero, pair.Swapped(), func() (T, error) {
			return h.Zero(pair.Y)
		})

	case descent.KindOnDiagonal:
		return call(kind, HandlerDiag, pair, func() (T, error) {
			return h.Diag(pair.X)
		})

	case descent.KindVietaEqualsY, descent.KindVietaEqualsYPlusX:
		return dischargeBoundary(problem, kind, pair)

	case descent.KindNone:
		return discharged[T]{}, fmt.Errorf("%w: %s", descent.ErrNotExceptional, pair)

	default:
		return discharged[T]{}, fmt.Errorf("%w: unknown kind %q at %s", descent.ErrNotExceptional, string(kind), pair)
	}
}

// dischargeBoundary splits on the companion c of y in the quadratic at x.
// H(x, c) holds, so c = 0 reduces to the zero handler and c = x to the
// diagonal one.
func dischargeBoundary[T any](problem descent.Problem[T], kind descent.Kind, pair descent.Pair) (discharged[T], error) {
	if err := problem.CheckQuadratic(pair); err != nil {
		return discharged[T]{}, err
	}

	b, c := problem.Quadratic.At(pair.X)
	companion := descent.OtherRoot(b, c, pair.Y)

	switch {
	case companion.Sign() == 0:
		zp := descent.NewPair(pair.X, companion)
		if err := problem.CheckQuadratic(zp); err != nil {
			return discharged[T]{}, err
		}
		return call(kind, HandlerZero, zp, func() (T, error) {
			return problem.Handlers.Zero(pair.X)
		})

	case companion.Cmp(pair.X) == 0:
		dp := descent.NewPair(pair.X, pair.X)
		if err := problem.CheckQuadratic(dp); err != nil {
			return discharged[T]{}, err
		}
		return call(kind, HandlerDiag, dp, func() (T, error) {
			return problem.Handlers.Diag(pair.X)
		})

	default:
		return discharged[T]{}, descent.Violation(descent.ObligationQuadratic, pair,
			"%s pair has companion %s, want 0 or %s", kind, companion, pair.X)
	}
}

func call[T any](kind descent.Kind, handler string, pair descent.Pair, fn func() (T, error)) (discharged[T], error) {
	claim, err := fn()
	if err != nil {
		return discharged[T]{}, fmt.Errorf("discharge %s: %w", kind, err)
	}
	return discharged[T]{claim: claim, handler: handler, pair: pair}, nil
}
