package vieta

import (
	"fmt"
	"math/big"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/pack"
)

// DivisorPlusOneName is the name of the divisor-plus-one family.
const DivisorPlusOneName = "divisor-plus-one"

// DivisorPlusOne is the family of positive pairs (a, b) for which ab
// divides a² + b² + 1. Its claim is that the quotient is always 3.
type DivisorPlusOne struct{}

// NewDivisorPlusOne creates the divisor-plus-one family.
func NewDivisorPlusOne() *DivisorPlusOne {
	return &DivisorPlusOne{}
}

// Name returns the family name.
func (*DivisorPlusOne) Name() string {
	return DivisorPlusOneName
}

// Description returns a one-line summary.
func (*DivisorPlusOne) Description() string {
	return "if ab divides a²+b²+1 then the quotient is 3"
}

// Info describes the family.
func (d *DivisorPlusOne) Info() pack.Info {
	return pack.Info{
		Name:        d.Name(),
		Description: d.Description(),
		Relation:    "a² + b² + 1 = ab·k",
		Claim:       "k = 3",
	}
}

// Quotient returns k = (a² + b² + 1) / ab, or ErrNotAWitness.
func (*DivisorPlusOne) Quotient(witness descent.Pair) (*big.Int, error) {
	if err := witness.Validate(); err != nil {
		return nil, err
	}
	den := new(big.Int).Mul(witness.X, witness.Y)
	if den.Sign() == 0 {
		return nil, fmt.Errorf("%w: %s has a zero coordinate", pack.ErrNotAWitness, witness)
	}
	num := new(big.Int).Add(square(witness.X), square(witness.Y))
	num.Add(num, big.NewInt(1))

	k, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Sign() != 0 {
		return nil, fmt.Errorf("%w: %s does not divide %s for %s", pack.ErrNotAWitness, den, num, witness)
	}
	return k, nil
}

// Problem builds the descent problem for the quotient of witness.
func (d *DivisorPlusOne) Problem(witness descent.Pair) (descent.Problem[pack.Claim], error) {
	k, err := d.Quotient(witness)
	if err != nil {
		return descent.Problem[pack.Claim]{}, err
	}
	return d.ProblemFor(k), nil
}

// ProblemFor builds the descent problem for a fixed quotient k.
func (d *DivisorPlusOne) ProblemFor(k *big.Int) descent.Problem[pack.Claim] {
	k = new(big.Int).Set(k)
	one := big.NewInt(1)
	three := big.NewInt(3)

	relation := func(a, b *big.Int) bool {
		lhs := new(big.Int).Add(square(a), square(b))
		lhs.Add(lhs, one)
		rhs := new(big.Int).Mul(a, b)
		return lhs.Cmp(rhs.Mul(rhs, k)) == 0
	}

	conclude := func(where string) (pack.Claim, error) {
		if k.Cmp(three) != 0 {
			return pack.Claim{}, fmt.Errorf("%s: quotient %s, want 3", where, k)
		}
		return pack.Claim{
			Problem:   d.Name(),
			Statement: "k = 3",
			Quotient:  new(big.Int).Set(k),
		}, nil
	}

	return descent.Problem[pack.Claim]{
		System: descent.System{
			Name:     d.Name(),
			Relation: relation,
			Quadratic: descent.Quadratic{
				B: func(x *big.Int) *big.Int { return new(big.Int).Mul(k, x) },
				C: func(x *big.Int) *big.Int { return new(big.Int).Add(square(x), one) },
			},
			IsBase: func(x, _ *big.Int) bool { return x.Cmp(one) <= 0 },
		},
		Handlers: descent.Handlers[pack.Claim]{
			// x = 1: y divides 2, so (1, 1) or (1, 2), both with k = 3.
			Base: func(x, y *big.Int) (pack.Claim, error) {
				if x.Cmp(one) != 0 || !relation(x, y) {
					return pack.Claim{}, fmt.Errorf("base case: (%s, %s) is not a witness", x, y)
				}
				return conclude(fmt.Sprintf("base case (%s, %s)", x, y))
			},
			// H(x, 0) reads x² + 1 = 0.
			Zero: func(x *big.Int) (pack.Claim, error) {
				return pack.Claim{}, fmt.Errorf("zero case: %s² + 1 = 0 has no solution", x)
			},
			// 2x² + 1 = kx² forces x = 1.
			Diag: func(x *big.Int) (pack.Claim, error) {
				if x.Cmp(one) != 0 {
					return pack.Claim{}, fmt.Errorf("diagonal case: x² does not divide 1 for x = %s", x)
				}
				return conclude("diagonal case")
			},
		},
	}
}

// Witnesses returns the first limit witnesses: (1, 1), (1, 2), (2, 5),
// (5, 13), ..., every other Fibonacci number.
func (*DivisorPlusOne) Witnesses(limit int) []descent.Pair {
	if limit <= 0 {
		return nil
	}

	pairs := []descent.Pair{descent.PairOf(1, 1)}
	prev, cur := big.NewInt(1), big.NewInt(2)
	pairs = append(pairs, descent.NewPair(prev, cur))
	for len(pairs) < limit {
		next := new(big.Int).Sub(new(big.Int).Mul(big.NewInt(3), cur), prev)
		pairs = append(pairs, descent.NewPair(cur, next))
		prev, cur = cur, next
	}
	return firstN(pairs, limit)
}
