// Package descent provides the core domain model for Vieta-jumping descent.
//
// A descent run starts from a witness pair satisfying a caller-defined
// relation H and repeatedly replaces it with the Vieta partner of the
// larger coordinate until it lands in the exceptional set, where a
// caller-supplied handler produces the claim.
package descent

import (
	"fmt"
	"math/big"
)

// Pair is an ordered pair of non-negative integers.
// Pairs handed out by the engine are normalized so that X <= Y.
type Pair struct {
	X *big.Int `json:"x"`
	Y *big.Int `json:"y"`
}

// NewPair creates a pair holding copies of x and y.
func NewPair(x, y *big.Int) Pair {
	return Pair{
		X: new(big.Int).Set(x),
		Y: new(big.Int).Set(y),
	}
}

// PairOf creates a pair from machine integers.
func PairOf(x, y int64) Pair {
	return Pair{
		X: big.NewInt(x),
		Y: big.NewInt(y),
	}
}

// ParsePair parses two base-10 coordinates.
func ParsePair(xs, ys string) (Pair, error) {
	x, ok := new(big.Int).SetString(xs, 10)
	if !ok {
		return Pair{}, fmt.Errorf("invalid coordinate %q", xs)
	}
	y, ok := new(big.Int).SetString(ys, 10)
	if !ok {
		return Pair{}, fmt.Errorf("invalid coordinate %q", ys)
	}
	return Pair{X: x, Y: y}, nil
}

// Clone returns a deep copy of the pair.
func (p Pair) Clone() Pair {
	return NewPair(p.X, p.Y)
}

// Validate checks that both coordinates are present and non-negative.
func (p Pair) Validate() error {
	if p.X == nil || p.Y == nil {
		return fmt.Errorf("%w: missing coordinate", ErrInvalidWitness)
	}
	if p.X.Sign() < 0 || p.Y.Sign() < 0 {
		return fmt.Errorf("%w: %s has a negative coordinate", ErrInvalidWitness, p)
	}
	return nil
}

// IsNormalized returns true if X <= Y.
func (p Pair) IsNormalized() bool {
	return p.X.Cmp(p.Y) <= 0
}

// Normalized returns the pair ordered so that X <= Y, and whether a swap
// was needed.
func (p Pair) Normalized() (Pair, bool) {
	if p.IsNormalized() {
		return p.Clone(), false
	}
	return NewPair(p.Y, p.X), true
}

// Swapped returns (Y, X).
func (p Pair) Swapped() Pair {
	return NewPair(p.Y, p.X)
}

// OnDiagonal returns true if X = Y.
func (p Pair) OnDiagonal() bool {
	return p.X.Cmp(p.Y) == 0
}

// Measure returns the descent measure of a normalized pair, its second
// coordinate.
func (p Pair) Measure() *big.Int {
	return new(big.Int).Set(p.Y)
}

// Equal reports whether both coordinates match.
func (p Pair) Equal(other Pair) bool {
	return p.X.Cmp(other.X) == 0 && p.Y.Cmp(other.Y) == 0
}

// String returns the pair as "(x, y)".
func (p Pair) String() string {
	return fmt.Sprintf("(%s, %s)", p.X, p.Y)
}
