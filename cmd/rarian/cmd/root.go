// Package cmd provides the CLI commands for rarian.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rarian/internal/logging"
	"github.com/Aman-CERP/rarian/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the rarian CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rarian",
		Short:   "Local, schema-driven metadata index for a content-addressed archive",
		Version: version.Version,
		Long: `rarian indexes structured metadata about files in a content-addressed
archive and answers search queries against it.

A collection is created against a schema (what attributes to index and
how); entries are ingested from YAML, then searched with a small query
language over term and range indexes.`,
	}

	cmd.SetVersionTemplate("rarian version {{.Version}}\n")
	cmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Collection root directory (default: search upward from cwd for .rarian.yaml or .git)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.rarian/logs/")
	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newLogsCmd())

	return cmd
}

func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
