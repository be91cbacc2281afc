package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/descent/infrastructure/config"
)

func (a *App) newExportSchemaCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export-schema",
		Short: "Print the JSON Schema of descent.yaml",
		Long: `Export-schema writes the JSON Schema that solver configuration files
are validated against, for use in editors and CI.

Examples:
  descent export-schema
  descent export-schema -o descent.schema.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := config.SchemaJSON()
			if err != nil {
				return fmt.Errorf("generate schema: %w", err)
			}
			if output == "" {
				fmt.Fprintln(a.stdout, schema)
				return nil
			}
			if err := os.WriteFile(output, []byte(schema), 0600); err != nil {
				return fmt.Errorf("write schema: %w", err)
			}
			fmt.Fprintf(a.stdout, "Schema exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
