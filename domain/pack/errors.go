package pack

import "errors"

// Domain errors for pack operations.
var (
	// ErrFamilyNotFound is returned when a family does not exist.
	ErrFamilyNotFound = errors.New("problem family not found")

	// ErrFamilyExists is returned when a family already exists.
	ErrFamilyExists = errors.New("problem family already exists")

	// ErrInvalidFamily is returned when a family is invalid.
	ErrInvalidFamily = errors.New("invalid problem family")

	// ErrNotAWitness is returned when a pair does not satisfy a family's relation.
	ErrNotAWitness = errors.New("pair is not a witness")
)
