package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/descent/application"
	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/ledger"
	"github.com/felixgeelhaar/descent/domain/pack"
)

type solveOptions struct {
	runtimeOptions
	trace      bool
	jsonOutput bool
}

func (a *App) newSolveCmd() *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve <problem> <x> <y>",
		Short: "Descend from one witness and discharge its claim",
		Long: `Solve runs the descent for a single witness of a registered problem.

The witness may be given in either order. Coordinates are arbitrary
precision integers.

Examples:
  # Prove that the quotient of (8, 30) is a square
  descent solve imo1988-q6 8 30

  # Show every ledger entry of the run
  descent solve divisor-plus-one 34 13 --trace

  # Emit the outcome as JSON with spans on stderr
  descent solve imo1988-q6 30 112 --json --telemetry stdout`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.solve(cmd, opts, args)
		},
	}

	opts.addBaseFlags(cmd)
	opts.addRunFlags(cmd, "for the run")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Print the run ledger")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func (a *App) solve(cmd *cobra.Command, opts *solveOptions, args []string) error {
	witness, err := parseWitness(args[1], args[2])
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	rt, err := a.setup(cmd.Context(), &opts.runtimeOptions, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.close() }()

	fam, err := rt.registry.MustGet(args[0])
	if err != nil {
		return err
	}
	problem, err := fam.Problem(witness)
	if err != nil {
		return err
	}

	out, err := application.Solve(cmd.Context(), rt.engine, problem, witness)
	if out != nil {
		if perr := a.printOutcome(fam.Name(), witness, out, opts); perr != nil {
			return perr
		}
	}
	if err != nil {
		return fmt.Errorf("solve %s %s: %w", fam.Name(), witness, err)
	}
	return nil
}

func (a *App) printOutcome(name string, witness descent.Pair, out *application.Outcome[pack.Claim], opts *solveOptions) error {
	if opts.jsonOutput {
		if !opts.trace {
			out.Entries = nil
		}
		return a.writeJSON(out)
	}

	fmt.Fprintf(a.stdout, "Problem:  %s\n", name)
	fmt.Fprintf(a.stdout, "Witness:  %s\n", witness)
	fmt.Fprintf(a.stdout, "Run:      %s (%s)\n", out.RunID, out.Status)
	fmt.Fprintf(a.stdout, "Steps:    %d\n", out.Steps)
	fmt.Fprintf(a.stdout, "Terminal: %s", out.Terminal)
	if out.Kind != descent.KindNone {
		fmt.Fprintf(a.stdout, " [%s]", out.Kind)
	}
	fmt.Fprintln(a.stdout)
	if len(out.Measures) > 0 {
		measures := make([]string, len(out.Measures))
		for i, m := range out.Measures {
			measures[i] = m.String()
		}
		fmt.Fprintf(a.stdout, "Measures: %s\n", strings.Join(measures, " > "))
	}
	if out.Claim.Statement != "" {
		fmt.Fprintf(a.stdout, "Claim:    %s\n", out.Claim.Statement)
	}

	if opts.trace {
		fmt.Fprintf(a.stdout, "\nLedger (%d entries):\n", len(out.Entries))
		for _, e := range out.Entries {
			a.printEntry(e)
		}
	}
	return nil
}

func (a *App) printEntry(e ledger.Entry) {
	fmt.Fprintf(a.stdout, "  %-17s %-11s %s\n", e.Type, e.State, string(e.Details))
}

func parseWitness(xs, ys string) (descent.Pair, error) {
	return descent.ParsePair(xs, ys)
}
