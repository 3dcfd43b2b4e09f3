package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rarian/internal/logging"
	"github.com/Aman-CERP/rarian/internal/mcpserver"
)

func newServeCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, logLevel)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level written to ~/.rarian/logs/rarian.log while serving (debug|info|warn|error)")

	return cmd
}

func runServe(cmd *cobra.Command, logLevel string) error {
	root, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Server.Transport != "stdio" {
		return fmt.Errorf("unsupported transport: %s (supported: stdio)", cfg.Server.Transport)
	}

	// The stdio transport owns stdout for JSON-RPC framing; logs must go
	// only to the rotating file, never to stdout/stderr.
	cleanup, err := logging.SetupServeMode(logLevel)
	if err != nil {
		return fmt.Errorf("failed to setup serve-mode logging: %w", err)
	}
	defer cleanup()

	env, err := openEnvironment(root, cfg, false)
	if err != nil {
		return fmt.Errorf("failed to open environment: %w", err)
	}
	defer func() { _ = env.Close() }()

	server := mcpserver.NewServer(env, slog.Default())
	return server.Serve(cmd.Context())
}
