package descent

import "math/big"

// BasePredicate marks caller-defined terminal pairs.
type BasePredicate func(x, y *big.Int) bool

// Classify decides whether the normalized pair p is exceptional given
// b = B(p.X). The first matching condition wins:
//
//	base > x = 0 > x = y > B(x) = y > B(x) = y + x
//
// A nil isBase never matches.
func Classify(p Pair, b *big.Int, isBase BasePredicate) Kind {
	switch {
	case isBase != nil && isBase(p.X, p.Y):
		return KindBase
	case p.X.Sign() == 0:
		return KindZeroFirstCoord
	case p.X.Cmp(p.Y) == 0:
		return KindOnDiagonal
	case b.Cmp(p.Y) == 0:
		return KindVietaEqualsY
	case b.Cmp(new(big.Int).Add(p.Y, p.X)) == 0:
		return KindVietaEqualsYPlusX
	default:
		return KindNone
	}
}
