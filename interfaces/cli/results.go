package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	domainconfig "github.com/felixgeelhaar/descent/domain/config"
	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/result"
)

type resultsOptions struct {
	runtimeOptions
	problem    string
	status     string
	limit      int
	jsonOutput bool
}

func (a *App) newResultsCmd() *cobra.Command {
	opts := &resultsOptions{}

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List stored sweep results",
		Long: `List the records a sweep stored in a persistent result store.

Examples:
  # List every stored failure of one problem in a badger directory
  descent results --path ./results --problem imo1988-q6 --status failed

  # List the results of a sqlite database
  descent results --store sqlite --path results.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listResults(cmd, opts)
		},
	}

	opts.addBaseFlags(cmd)
	opts.addStoreFlags(cmd, "badger, sqlite, postgres, redis")
	cmd.Flags().StringVar(&opts.problem, "problem", "", "Only list records of this problem")
	cmd.Flags().StringVar(&opts.status, "status", "", "Only list records with this status (completed, failed)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Maximum number of records")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func (a *App) listResults(cmd *cobra.Command, opts *resultsOptions) error {
	cfg, err := a.loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	// A bare path means a badger directory.
	if opts.backend == "" && (cfg.Storage.Backend == "" || cfg.Storage.Backend == domainconfig.BackendMemory) {
		if opts.path == "" && cfg.Storage.Path == "" {
			return fmt.Errorf("results need a persistent store (--store, --path or storage.backend)")
		}
		opts.backend = domainconfig.BackendBadger
	}

	rt, err := a.setup(cmd.Context(), &opts.runtimeOptions, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.close() }()

	if err := rt.openStore(cmd.Context()); err != nil {
		return err
	}

	filter := result.ListFilter{Problem: opts.problem, Limit: opts.limit}
	if opts.status != "" {
		filter.Status = []descent.RunStatus{descent.RunStatus(opts.status)}
	}

	records, err := rt.store.List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}

	if opts.jsonOutput {
		return a.writeJSON(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(a.stdout, "No results found")
		return nil
	}
	for _, r := range records {
		mark := "✓"
		if !r.Verified() {
			mark = "✗"
		}
		fmt.Fprintf(a.stdout, "%s %-18s %-14s %3d steps -> %s [%s]", mark, r.Problem, r.Witness, r.Steps, r.Terminal, r.Kind)
		if r.Error != "" {
			fmt.Fprintf(a.stdout, " %s", r.Error)
		}
		fmt.Fprintln(a.stdout)
	}
	return nil
}
