package cli

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/descent/interfaces/mcp"
)

type mcpOptions struct {
	runtimeOptions
	httpAddr string
}

func (a *App) newMCPCmd() *cobra.Command {
	opts := &mcpOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the solver over the Model Context Protocol",
		Long: `MCP starts a Model Context Protocol server exposing the tools
list_problems, witnesses and solve.

The server speaks over stdin and stdout unless --http is given. Logs
always go to stderr.

Examples:
  # Serve over stdio for a local client
  descent mcp

  # Serve over HTTP
  descent mcp --http localhost:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serveMCP(cmd, opts)
		},
	}

	opts.addBaseFlags(cmd)
	opts.addRunFlags(cmd, "for each run")
	cmd.Flags().StringVar(&opts.httpAddr, "http", "", "Serve over HTTP on this address")

	return cmd
}

func (a *App) serveMCP(cmd *cobra.Command, opts *mcpOptions) error {
	cfg, err := a.loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	rt, err := a.setup(cmd.Context(), &opts.runtimeOptions, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.close() }()

	srv, err := mcp.NewServer(mcp.Config{
		Name:         "descent",
		Version:      Version,
		Instructions: "Call list_problems to see the registered families, witnesses to enumerate pairs, and solve to prove the claim for one pair.",
		Engine:       rt.engine,
		Registry:     rt.registry,
	})
	if err != nil {
		return err
	}

	if opts.httpAddr != "" {
		return srv.ServeHTTP(cmd.Context(), opts.httpAddr)
	}
	return srv.ServeStdio(cmd.Context())
}
