package cmd

import (
	"fmt"
	"time"

	"github.com/mj1618/macropad/internal/executor"
	"github.com/mj1618/macropad/internal/server"
	"github.com/mj1618/macropad/internal/version"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing virtual macro pad buttons",
	Long: `Start a Model Context Protocol (MCP) server that exposes the loaded profile
as tools. AI agents can press, release and tap buttons, inspect the profile
and read the believed mouse position.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  macropad serve
  macropad serve --backend dryrun
  macropad serve --transport streamable-http --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addProfileFlags(serveCmd, "auto")
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Duration("error-ttl", time.Minute, "How long unreported macro errors are kept")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	errTTL, _ := cmd.Flags().GetDuration("error-ttl")

	res, _, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	errs := server.NewErrorLog(errTTL, nil)
	eng, err := newEngine(cmd, res, settings.Backend, executor.WithErrorHandler(errs.Record))
	if err != nil {
		return fmt.Errorf("failed to open input backend: %w", err)
	}
	defer eng.Close()

	var inspector server.MouseInspector
	if eng.mouse != nil {
		inspector = eng.mouse
	}
	srv := server.New(eng.exec, inspector, errs, version.Version,
		server.WithLogger(logger),
		server.WithBackend(eng.provider.Name),
	)
	return srv.Serve(server.Config{Transport: transport, Port: port, Version: version.Version})
}
