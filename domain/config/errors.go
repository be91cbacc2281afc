package config

import "errors"

var (
	// ErrConfigNotFound is returned when the solver config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidFormat is returned when a config file does not parse.
	ErrInvalidFormat = errors.New("malformed config")

	// ErrUnsupportedFormat is returned for extensions other than
	// .json, .yaml and .yml.
	ErrUnsupportedFormat = errors.New("unsupported config extension")

	// ErrValidationFailed wraps ValidationErrors.
	ErrValidationFailed = errors.New("invalid solver config")

	// ErrMissingEnvVar is returned in strict mode for an unset ${VAR}.
	ErrMissingEnvVar = errors.New("environment variable not set")
)
