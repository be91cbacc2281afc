package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/descent/application"
	"github.com/felixgeelhaar/descent/domain/result"
	"github.com/felixgeelhaar/descent/infrastructure/resilience"
)

type sweepOptions struct {
	runtimeOptions
	limit       int
	concurrency int
	force       bool
	jsonOutput  bool
}

func (a *App) newSweepCmd() *cobra.Command {
	opts := &sweepOptions{}

	cmd := &cobra.Command{
		Use:   "sweep [problems...]",
		Short: "Solve the enumerated witnesses of problem families",
		Long: `Sweep enumerates witnesses of each named problem (all registered
problems, or those in the configuration, when none are named) and solves
them concurrently. Every result is stored, failures included. Witnesses
with a verified record are skipped unless --force is given.

A family whose runs keep failing trips its circuit breaker, and its
remaining witnesses are rejected without being solved.

Examples:
  # Sweep every problem with the defaults
  descent sweep

  # Sweep one problem into a badger database
  descent sweep imo1988-q6 --limit 20 --store badger --path ./results`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sweep(cmd, opts, args)
		},
	}

	opts.addBaseFlags(cmd)
	opts.addRunFlags(cmd, "per run")
	opts.addStoreFlags(cmd, "memory, badger, sqlite, postgres, redis")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Witnesses per problem")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Concurrent runs per problem")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Re-solve witnesses that already have a verified record")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func (a *App) sweep(cmd *cobra.Command, opts *sweepOptions, args []string) error {
	cfg, err := a.loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.limit > 0 {
		cfg.Sweep.Limit = opts.limit
	}
	if opts.concurrency > 0 {
		cfg.Sweep.Concurrency = opts.concurrency
	}

	rt, err := a.setup(cmd.Context(), &opts.runtimeOptions, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.close() }()

	if err := rt.openStore(cmd.Context()); err != nil {
		return err
	}

	sweeper, err := application.NewSweeper(application.SweepConfig{
		Engine:   rt.engine,
		Registry: rt.registry,
		Store:    rt.store,
		Executor: resilience.NewExecutor[*result.Record](rt.build.Executor),
		Limit:    rt.build.Limit,
		Force:    opts.force,
	})
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = rt.build.Problems
	}

	summaries, err := sweeper.Sweep(cmd.Context(), names...)
	if opts.jsonOutput {
		if jerr := a.writeJSON(summaries); jerr != nil {
			return jerr
		}
	} else {
		a.printSummaries(summaries)
	}
	if err != nil {
		return err
	}

	for _, s := range summaries {
		if s.Failed > 0 || s.Rejected > 0 {
			return fmt.Errorf("sweep of %s had %d failed and %d rejected witnesses", s.Problem, s.Failed, s.Rejected)
		}
	}
	return nil
}

func (a *App) printSummaries(summaries []application.SweepSummary) {
	for _, s := range summaries {
		fmt.Fprintf(a.stdout, "%s: %d witnesses in %s\n", s.Problem, s.Total, s.Duration)
		fmt.Fprintf(a.stdout, "  solved %d, skipped %d, failed %d, rejected %d\n",
			s.Solved, s.Skipped, s.Failed, s.Rejected)
		if s.BreakerOpen {
			fmt.Fprintln(a.stdout, "  circuit breaker open")
		}
		for _, f := range s.Failures {
			fmt.Fprintf(a.stdout, "  ✗ %s: %s\n", f.Witness, f.Error)
		}
	}
}
