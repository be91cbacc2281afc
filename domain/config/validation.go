package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the dotted path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates solver configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *SolverConfig) ValidationErrors {
	v.errors = nil

	v.validateRequired(config)
	v.validateLogging(config)
	v.validateEngine(config)
	v.validateSweep(config)
	v.validateStorage(config)
	v.validateTelemetry(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateRequired(config *SolverConfig) {
	if config.Name == "" {
		v.addError("name", "name is required")
	}
	if config.Version == "" {
		v.addError("version", "version is required")
	}
}

func (v *Validator) validateLogging(config *SolverConfig) {
	if config.Logging.Level != "" {
		validLevels := map[string]bool{
			"trace": true, "debug": true, "info": true, "warn": true, "error": true,
		}
		if !validLevels[strings.ToLower(config.Logging.Level)] {
			v.addError("logging.level", fmt.Sprintf("invalid level: %s", config.Logging.Level))
		}
	}
	if config.Logging.Format != "" && config.Logging.Format != "json" && config.Logging.Format != "console" {
		v.addError("logging.format", fmt.Sprintf("invalid format: %s", config.Logging.Format))
	}
}

func (v *Validator) validateEngine(config *SolverConfig) {
	if config.Engine.MaxSteps < 0 {
		v.addError("engine.max_steps", "max_steps must be non-negative")
	}
	if config.Engine.Timeout < 0 {
		v.addError("engine.timeout", "timeout must be non-negative")
	}
}

func (v *Validator) validateSweep(config *SolverConfig) {
	if config.Sweep.Limit < 0 {
		v.addError("sweep.limit", "limit must be non-negative")
	}
	if config.Sweep.Concurrency < 0 {
		v.addError("sweep.concurrency", "concurrency must be non-negative")
	}
	for i, name := range config.Sweep.Problems {
		if strings.TrimSpace(name) == "" {
			v.addError(fmt.Sprintf("sweep.problems[%d]", i), "problem name is required")
		}
	}
	if config.Sweep.Breaker.Enabled && config.Sweep.Breaker.Threshold <= 0 {
		v.addError("sweep.breaker.threshold", "threshold must be positive when the breaker is enabled")
	}
}

func (v *Validator) validateStorage(config *SolverConfig) {
	switch config.Storage.Backend {
	case "", BackendMemory, BackendBadger:
	case BackendSQLite:
		if config.Storage.Path == "" {
			v.addError("storage.path", "path is required for the sqlite backend")
		}
	case BackendPostgres:
		if config.Storage.DSN == "" {
			v.addError("storage.dsn", "dsn is required for the postgres backend")
		}
	case BackendRedis:
		if config.Storage.Address == "" {
			v.addError("storage.address", "address is required for the redis backend")
		}
	default:
		v.addError("storage.backend", fmt.Sprintf("unknown backend: %s", config.Storage.Backend))
	}
}

func (v *Validator) validateTelemetry(config *SolverConfig) {
	switch config.Telemetry.Exporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if config.Telemetry.Endpoint == "" {
			v.addError("telemetry.endpoint", "endpoint is required for the otlp exporter")
		}
	default:
		v.addError("telemetry.exporter", fmt.Sprintf("unknown exporter: %s", config.Telemetry.Exporter))
	}
	if config.Telemetry.SampleRate < 0 || config.Telemetry.SampleRate > 1 {
		v.addError("telemetry.sample_rate", "sample_rate must be between 0 and 1")
	}
}
