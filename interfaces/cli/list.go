package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/descent/domain/pack"
	infrapack "github.com/felixgeelhaar/descent/infrastructure/pack"
	"github.com/felixgeelhaar/descent/pack/vieta"
)

type listOptions struct {
	verbose    bool
	jsonOutput bool
}

type describer interface {
	Info() pack.Info
}

func (a *App) newListCmd() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered problems",
		Long: `List the problem families the solver can descend on.

Examples:
  # List problem names
  descent list

  # Include each problem's relation and claim
  descent list -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listProblems(opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show relation and claim")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func (a *App) listProblems(opts *listOptions) error {
	reg := infrapack.NewRegistry()
	if err := vieta.Register(reg); err != nil {
		return err
	}

	infos := make([]pack.Info, 0, reg.Len())
	for _, fam := range reg.List() {
		info := pack.Info{Name: fam.Name(), Description: fam.Description()}
		if d, ok := fam.(describer); ok {
			info = d.Info()
		}
		infos = append(infos, info)
	}

	if opts.jsonOutput {
		return a.writeJSON(infos)
	}

	for _, info := range infos {
		fmt.Fprintf(a.stdout, "%-18s %s\n", info.Name, info.Description)
		if opts.verbose {
			if info.Relation != "" {
				fmt.Fprintf(a.stdout, "  relation: %s\n", info.Relation)
			}
			if info.Claim != "" {
				fmt.Fprintf(a.stdout, "  claim:    %s\n", info.Claim)
			}
		}
	}
	return nil
}
