package vieta

import (
	"fmt"
	"math/big"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/pack"
)

// QuotientSquareName is the name of the quotient-square family.
const QuotientSquareName = "imo1988-q6"

// QuotientSquare is the family of pairs (a, b) for which ab + 1 divides
// a² + b². Its claim is that the quotient k is a perfect square.
type QuotientSquare struct{}

// NewQuotientSquare creates the quotient-square family.
func NewQuotientSquare() *QuotientSquare {
	return &QuotientSquare{}
}

// Name returns the family name.
func (*QuotientSquare) Name() string {
	return QuotientSquareName
}

// Description returns a one-line summary.
func (*QuotientSquare) Description() string {
	return "if ab+1 divides a²+b² then the quotient is a perfect square"
}

// Info describes the family.
func (q *QuotientSquare) Info() pack.Info {
	return pack.Info{
		Name:        q.Name(),
		Description: q.Description(),
		Relation:    "a² + b² = (ab + 1)·k",
		Claim:       "k = d² for some integer d",
	}
}

// Quotient returns k = (a² + b²) / (ab + 1), or ErrNotAWitness if the
// division is not exact.
func (*QuotientSquare) Quotient(witness descent.Pair) (*big.Int, error) {
	if err := witness.Validate(); err != nil {
		return nil, err
	}
	num := new(big.Int).Add(square(witness.X), square(witness.Y))
	den := new(big.Int).Add(new(big.Int).Mul(witness.X, witness.Y), big.NewInt(1))

	k, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Sign() != 0 {
		return nil, fmt.Errorf("%w: %s does not divide %s for %s", pack.ErrNotAWitness, den, num, witness)
	}
	return k, nil
}

// Problem builds the descent problem for the quotient of witness.
func (q *QuotientSquare) Problem(witness descent.Pair) (descent.Problem[pack.Claim], error) {
	k, err := q.Quotient(witness)
	if err != nil {
		return descent.Problem[pack.Claim]{}, err
	}
	return q.ProblemFor(k), nil
}

// ProblemFor builds the descent problem for a fixed quotient k.
func (q *QuotientSquare) ProblemFor(k *big.Int) descent.Problem[pack.Claim] {
	k = new(big.Int).Set(k)
	one := big.NewInt(1)

	relation := func(a, b *big.Int) bool {
		lhs := new(big.Int).Add(square(a), square(b))
		rhs := new(big.Int).Add(new(big.Int).Mul(a, b), one)
		return lhs.Cmp(rhs.Mul(rhs, k)) == 0
	}

	claim := func(root *big.Int) pack.Claim {
		return pack.Claim{
			Problem:   q.Name(),
			Statement: fmt.Sprintf("k = %s = %s²", k, root),
			Quotient:  new(big.Int).Set(k),
			Root:      new(big.Int).Set(root),
		}
	}

	return descent.Problem[pack.Claim]{
		System: descent.System{
			Name:     q.Name(),
			Relation: relation,
			Quadratic: descent.Quadratic{
				B: func(x *big.Int) *big.Int { return new(big.Int).Mul(k, x) },
				C: func(x *big.Int) *big.Int { return new(big.Int).Sub(square(x), k) },
			},
			DescentBound: partnerBelow,
		},
		Handlers: descent.Handlers[pack.Claim]{
			Zero: func(x *big.Int) (pack.Claim, error) {
				if square(x).Cmp(k) != 0 {
					return pack.Claim{}, fmt.Errorf("zero case: %s² ≠ %s", x, k)
				}
				return claim(x), nil
			},
			Diag: func(x *big.Int) (pack.Claim, error) {
				// 2x² = (x² + 1)k forces x ∈ {0, 1} and k = x².
				if x.Cmp(one) > 0 || square(x).Cmp(k) != 0 {
					return pack.Claim{}, fmt.Errorf("diagonal case: (%s, %s) with k = %s", x, x, k)
				}
				return claim(x), nil
			},
		},
	}
}

// partnerBelow reports 0 <= partner < x. The partner times y is x² − k,
// which is below x² < x·y whenever 0 < x < y and k > 0.
func partnerBelow(x, y, partner *big.Int) bool {
	product := new(big.Int).Mul(partner, y)
	return product.Sign() >= 0 && product.Cmp(new(big.Int).Mul(x, y)) < 0
}

// Witnesses returns the first limit witnesses with a positive smaller
// coordinate. Every one lies on a chain 0, d, d³, d⁵ − d, ... for k = d².
func (*QuotientSquare) Witnesses(limit int) []descent.Pair {
	if limit <= 0 {
		return nil
	}

	bound := big.NewInt(8)
	for {
		pairs := []descent.Pair{descent.PairOf(1, 1)}
		for d := big.NewInt(2); new(big.Int).Exp(d, big.NewInt(3), nil).Cmp(bound) <= 0; d = new(big.Int).Add(d, big.NewInt(1)) {
			pairs = append(pairs, chain(big.NewInt(0), d, square(d), bound)...)
		}
		if len(pairs) >= limit {
			return firstN(pairs, limit)
		}
		bound.Mul(bound, big.NewInt(4))
	}
}
