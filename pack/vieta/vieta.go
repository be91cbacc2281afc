// Package vieta provides the built-in Vieta-jumping problem families.
//
// Each family fixes a relation H on pairs of non-negative integers whose
// solutions with a fixed first coordinate are the roots of a monic
// quadratic, so that descent from any witness terminates in a small,
// fully understood set of pairs.
package vieta

import (
	"math/big"
	"sort"

	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/pack"
)

// Families returns every built-in family.
func Families() []pack.Family {
	return []pack.Family{
		NewQuotientSquare(),
		NewDivisorPlusOne(),
	}
}

// Register adds every built-in family to reg.
func Register(reg pack.Registry) error {
	for _, f := range Families() {
		if err := reg.Register(f); err != nil {
			return err
		}
	}
	return nil
}

// chain walks a0, a1, a2, ... with a(n+1) = k·a(n) − a(n−1) and returns
// the consecutive pairs (a(n), a(n+1)) with a(n) > 0 and a(n+1) <= bound.
// The sequence must be non-decreasing from a1 on.
func chain(a0, a1, k, bound *big.Int) []descent.Pair {
	var pairs []descent.Pair
	prev, cur := new(big.Int).Set(a0), new(big.Int).Set(a1)
	for {
		next := new(big.Int).Sub(new(big.Int).Mul(k, cur), prev)
		if next.Cmp(bound) > 0 || next.Cmp(cur) < 0 {
			return pairs
		}
		if cur.Sign() > 0 {
			pairs = append(pairs, descent.NewPair(cur, next))
		}
		if next.Cmp(cur) == 0 {
			return pairs
		}
		prev, cur = cur, next
	}
}

// firstN sorts pairs by (y, x) and keeps at most n.
func firstN(pairs []descent.Pair, n int) []descent.Pair {
	sort.Slice(pairs, func(i, j int) bool {
		if c := pairs[i].Y.Cmp(pairs[j].Y); c != 0 {
			return c < 0
		}
		return pairs[i].X.Cmp(pairs[j].X) < 0
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

func square(x *big.Int) *big.Int {
	return new(big.Int).Mul(x, x)
}
