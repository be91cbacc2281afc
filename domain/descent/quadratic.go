package descent

import (
	"fmt"
	"math/big"
)

// Coefficient computes one coefficient of the quadratic indexed by x.
type Coefficient func(x *big.Int) *big.Int

// Quadratic describes the family of monic quadratics t² - B(x)·t + C(x)
// whose roots in t are exactly the y with H(x, y).
type Quadratic struct {
	B Coefficient
	C Coefficient
}

// At evaluates both coefficients at x.
func (q Quadratic) At(x *big.Int) (b, c *big.Int) {
	return q.B(x), q.C(x)
}

// OtherRoot returns the partner root of t² - b·t + c = 0 given the root x.
// By Vieta's formulas the roots sum to b, so the partner is b - x; c is not
// needed to compute it. The result may be negative.
func OtherRoot(b, _ *big.Int, x *big.Int) *big.Int {
	return new(big.Int).Sub(b, x)
}

// Evaluate returns t² - b·t + c.
func Evaluate(b, c, t *big.Int) *big.Int {
	v := new(big.Int).Mul(t, t)
	v.Sub(v, new(big.Int).Mul(b, t))
	return v.Add(v, c)
}

// IsRoot reports whether t² - b·t + c = 0.
func IsRoot(b, c, t *big.Int) bool {
	return Evaluate(b, c, t).Sign() == 0
}

// CheckVieta verifies that x and y are the two roots of t² - b·t + c,
// that is x + y = b and x·y = c.
func CheckVieta(b, c, x, y *big.Int) error {
	sum := new(big.Int).Add(x, y)
	if sum.Cmp(b) != 0 {
		return fmt.Errorf("roots %s and %s sum to %s, want %s", x, y, sum, b)
	}
	prod := new(big.Int).Mul(x, y)
	if prod.Cmp(c) != 0 {
		return fmt.Errorf("roots %s and %s multiply to %s, want %s", x, y, prod, c)
	}
	return nil
}
