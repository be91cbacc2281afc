package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/descent/infrastructure/config"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath string
	strict     bool
	showSchema bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Validate a solver configuration file for correctness.

This command checks:
  - File format (YAML or JSON)
  - Required fields (name, version)
  - Field types and ranges
  - Storage backend and trace exporter names
  - Environment variable references (in strict mode)

Examples:
  # Validate a configuration file
  descent validate -c descent.yaml

  # Strict validation (fail on missing env vars)
  descent validate -c descent.yaml --strict

  # Show the JSON schema for configuration
  descent validate --schema`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showSchema {
				return a.showConfigSchema()
			}
			return a.validateConfig(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Enable strict validation (fail on missing env vars)")
	cmd.Flags().BoolVar(&opts.showSchema, "schema", false, "Show JSON schema for configuration")

	return cmd
}

// validateConfig validates the configuration file.
func (a *App) validateConfig(opts *validateOptions) error {
	if opts.configPath == "" {
		return fmt.Errorf("configuration file path is required (-c flag)")
	}

	loaderOpts := []config.LoaderOption{
		config.WithValidation(true),
	}
	if opts.strict {
		loaderOpts = append(loaderOpts, config.WithStrictEnv(true))
	}

	cfg, err := config.NewLoaderWithOptions(loaderOpts...).LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	build, err := config.NewBuilder(cfg).Build()
	if err != nil {
		return fmt.Errorf("configuration build failed: %w", err)
	}

	fmt.Fprintf(a.stdout, "✓ Configuration is valid\n")
	fmt.Fprintf(a.stdout, "  Name: %s\n", cfg.Name)
	fmt.Fprintf(a.stdout, "  Version: %s\n", cfg.Version)

	fmt.Fprintf(a.stdout, "\nConfiguration summary:\n")
	if build.MaxSteps > 0 {
		fmt.Fprintf(a.stdout, "  Max steps: %d\n", build.MaxSteps)
	} else {
		fmt.Fprintf(a.stdout, "  Max steps: bounded by the witness\n")
	}
	if build.Timeout > 0 {
		fmt.Fprintf(a.stdout, "  Timeout: %s\n", build.Timeout)
	}
	if len(build.Problems) > 0 {
		fmt.Fprintf(a.stdout, "  Problems: %s\n", strings.Join(build.Problems, ", "))
	}
	fmt.Fprintf(a.stdout, "  Sweep: %d witnesses, %d concurrent\n", build.Limit, build.Executor.MaxConcurrent)
	if build.Executor.BreakerEnabled {
		fmt.Fprintf(a.stdout, "  Circuit breaker: enabled (threshold=%d, timeout=%s)\n",
			build.Executor.CircuitBreakerThreshold, build.Executor.CircuitBreakerTimeout)
	}
	fmt.Fprintf(a.stdout, "  Storage: %s", build.Storage.Backend)
	if build.Storage.Path != "" {
		fmt.Fprintf(a.stdout, " (%s)", build.Storage.Path)
	}
	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "  Telemetry: %s\n", build.Telemetry.Exporter)

	return nil
}

// showConfigSchema displays the JSON schema for configuration.
func (a *App) showConfigSchema() error {
	schemaJSON, err := config.SchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Fprintln(a.stdout, schemaJSON)
	return nil
}
