package config

import (
	"encoding/json"

	domainconfig "github.com/felixgeelhaar/descent/domain/config"
)

// JSONSchema represents a JSON Schema document.
type JSONSchema struct {
	Schema      string                 `json:"$schema,omitempty"`
	ID          string                 `json:"$id,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"type,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Default     any                    `json:"default,omitempty"`
	Minimum     *float64               `json:"minimum,omitempty"`
	Maximum     *float64               `json:"maximum,omitempty"`
	Pattern     string                 `json:"pattern,omitempty"`
}

// durationPattern accepts Go duration strings such as "30s" or "1m30s".
const durationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

// GenerateSchema generates a JSON Schema for the SolverConfig.
func GenerateSchema() *JSONSchema {
	defaults := domainconfig.Default()

	return &JSONSchema{
		Schema:      "https://json-schema.org/draft/2020-12/schema",
		ID:          "https://github.com/felixgeelhaar/descent/solver-config.schema.json",
		Title:       "Solver Configuration",
		Description: "Configuration schema for the descent solver",
		Type:        "object",
		Required:    []string{"name", "version"},
		Properties: map[string]*JSONSchema{
			"name": {
				Type:        "string",
				Description: "A human-readable name for this configuration",
			},
			"version": {
				Type:        "string",
				Description: "The configuration schema version",
				Default:     defaults.Version,
			},
			"logging":   generateLoggingSchema(defaults),
			"engine":    generateEngineSchema(),
			"sweep":     generateSweepSchema(defaults),
			"storage":   generateStorageSchema(),
			"telemetry": generateTelemetrySchema(defaults),
		},
	}
}

func generateLoggingSchema(defaults *domainconfig.SolverConfig) *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Log output",
		Properties: map[string]*JSONSchema{
			"level": {
				Type:    "string",
				Enum:    []string{"trace", "debug", "info", "warn", "error"},
				Default: defaults.Logging.Level,
			},
			"format": {
				Type:    "string",
				Enum:    []string{"console", "json"},
				Default: defaults.Logging.Format,
			},
		},
	}
}

func generateEngineSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Single descent settings",
		Properties: map[string]*JSONSchema{
			"max_steps": {
				Type:        "integer",
				Description: "Maximum number of Vieta jumps (0 derives the cap from the witness)",
				Minimum:     floatPtr(0),
			},
			"timeout": {
				Type:        "string",
				Description: "Timeout for one descent",
				Pattern:     durationPattern,
			},
		},
	}
}

func generateSweepSchema(defaults *domainconfig.SolverConfig) *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Batch runs over enumerated witnesses",
		Properties: map[string]*JSONSchema{
			"problems": {
				Type:        "array",
				Description: "Problem families to sweep (empty means all)",
				Items:       &JSONSchema{Type: "string"},
			},
			"limit": {
				Type:        "integer",
				Description: "Witnesses enumerated per family",
				Default:     defaults.Sweep.Limit,
				Minimum:     floatPtr(0),
			},
			"concurrency": {
				Type:        "integer",
				Description: "Maximum descents in flight",
				Default:     defaults.Sweep.Concurrency,
				Minimum:     floatPtr(0),
			},
			"breaker": {
				Type:        "object",
				Description: "Stops a family after repeated invariant violations",
				Properties: map[string]*JSONSchema{
					"enabled": {
						Type:    "boolean",
						Default: defaults.Sweep.Breaker.Enabled,
					},
					"threshold": {
						Type:    "integer",
						Default: defaults.Sweep.Breaker.Threshold,
						Minimum: floatPtr(1),
					},
					"timeout": {
						Type:    "string",
						Default: defaults.Sweep.Breaker.Timeout.Duration().String(),
						Pattern: durationPattern,
					},
				},
			},
		},
	}
}

func generateStorageSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Result store",
		Properties: map[string]*JSONSchema{
			"backend": {
				Type:    "string",
				Enum: []string{
					domainconfig.BackendMemory,
					domainconfig.BackendBadger,
					domainconfig.BackendSQLite,
					domainconfig.BackendPostgres,
					domainconfig.BackendRedis,
				},
				Default: domainconfig.BackendMemory,
			},
			"path": {
				Type:        "string",
				Description: "Badger directory (empty keeps badger in memory) or sqlite database file",
			},
			"dsn": {
				Type:        "string",
				Description: "Postgres connection string",
			},
			"address": {
				Type:        "string",
				Description: "Redis host:port",
			},
		},
	}
}

func generateTelemetrySchema(defaults *domainconfig.SolverConfig) *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Trace export",
		Properties: map[string]*JSONSchema{
			"exporter": {
				Type:    "string",
				Enum:    []string{domainconfig.ExporterNone, domainconfig.ExporterStdout, domainconfig.ExporterOTLP},
				Default: defaults.Telemetry.Exporter,
			},
			"endpoint": {
				Type:        "string",
				Description: "OTLP gRPC endpoint",
				Default:     defaults.Telemetry.Endpoint,
			},
			"insecure": {
				Type:    "boolean",
				Default: defaults.Telemetry.Insecure,
			},
			"service_name": {
				Type:    "string",
				Default: defaults.Telemetry.ServiceName,
			},
			"sample_rate": {
				Type:    "number",
				Minimum: floatPtr(0),
				Maximum: floatPtr(1),
				Default: defaults.Telemetry.SampleRate,
			},
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}

// SchemaJSON returns the JSON Schema as a JSON string.
func SchemaJSON() (string, error) {
	data, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
