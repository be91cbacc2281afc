package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	domainconfig "github.com/felixgeelhaar/descent/domain/config"
	"github.com/felixgeelhaar/descent/infrastructure/config"
)

type initOptions struct {
	force bool
}

func (a *App) newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write a default configuration file",
		Long: `Write the default configuration to a file (descent.yaml unless named).
The format follows the extension: .yaml, .yml or .json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "descent.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteFile(path, domainconfig.Default(), opts.force); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing file")

	return cmd
}
