package api

import (
	domainconfig "github.com/felixgeelhaar/descent/domain/config"
	infraconfig "github.com/felixgeelhaar/descent/infrastructure/config"
)

// Re-export configuration types.
type (
	// SolverConfig is the complete solver configuration.
	SolverConfig = domainconfig.SolverConfig
	// ConfigDuration is a time.Duration that supports JSON/YAML string representation.
	ConfigDuration = domainconfig.Duration
	// ValidationErrors is a collection of validation errors.
	ValidationErrors = domainconfig.ValidationErrors

	// ConfigLoader loads configuration files.
	ConfigLoader = infraconfig.Loader
	// ConfigLoaderOption configures a loader.
	ConfigLoaderOption = infraconfig.LoaderOption
	// ConfigBuildResult holds the component settings built from configuration.
	ConfigBuildResult = infraconfig.BuildResult
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *SolverConfig {
	return domainconfig.Default()
}

// LoadConfig loads a YAML or JSON configuration file.
func LoadConfig(path string) (*SolverConfig, error) {
	return infraconfig.NewLoader().LoadFile(path)
}

// BuildConfig validates cfg and derives the component settings.
func BuildConfig(cfg *SolverConfig) (*ConfigBuildResult, error) {
	return infraconfig.NewBuilder(cfg).Build()
}

// ConfigSchemaJSON returns the JSON schema of the configuration.
func ConfigSchemaJSON() (string, error) {
	return infraconfig.SchemaJSON()
}
