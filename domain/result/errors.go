package result

import "errors"

// Domain errors for result store operations.
var (
	// ErrRecordNotFound is returned when no record exists for a witness.
	ErrRecordNotFound = errors.New("result record not found")

	// ErrInvalidRecord is returned when a record cannot be stored.
	ErrInvalidRecord = errors.New("invalid result record")

	// ErrConnectionFailed is returned when connection to the store backend fails.
	ErrConnectionFailed = errors.New("store connection failed")
)
