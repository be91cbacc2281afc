// Package pack provides types for named families of descent problems.
package pack

import (
	"math/big"

	"github.com/felixgeelhaar/descent/domain/descent"
)

// Claim is what a discharged descent proves about one witness.
type Claim struct {
	// Problem is the family name.
	Problem string `json:"problem"`

	// Statement is the human-readable conclusion.
	Statement string `json:"statement"`

	// Quotient is the family parameter recovered from the witness.
	Quotient *big.Int `json:"quotient"`

	// Root is set when the claim exhibits a square root of the quotient.
	Root *big.Int `json:"root,omitempty"`
}

// String returns the statement.
func (c Claim) String() string {
	return c.Statement
}

// Family is a named problem that can be instantiated from any witness.
type Family interface {
	// Name is the unique identifier for the family.
	Name() string

	// Description explains what the family proves.
	Description() string

	// Problem builds the descent problem for a witness. It returns
	// ErrNotAWitness if the pair does not satisfy the family's relation.
	Problem(witness descent.Pair) (descent.Problem[Claim], error)

	// Witnesses enumerates up to limit witnesses with the smaller
	// coordinate positive, in increasing order of the larger coordinate.
	Witnesses(limit int) []descent.Pair
}

// Info is a static description of a family.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Relation    string `json:"relation"`
	Claim       string `json:"claim"`
}
