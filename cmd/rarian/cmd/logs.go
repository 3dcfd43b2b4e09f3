package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rarian/internal/logging"
)

func newLogsCmd() *cobra.Command {
	var (
		lines   int
		level   string
		filter  string
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the tail of rarian's debug log file",
		Long: `Show the last N lines written to rarian's debug log file
(~/.rarian/logs/rarian.log by default). The file is written by commands
run with --debug and by "rarian serve".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd, lines, level, filter, logFile)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level to show (debug|info|warn|error)")
	cmd.Flags().StringVar(&filter, "filter", "", "Only show lines matching this regex")
	cmd.Flags().StringVar(&logFile, "file", "", "Path to log file (default: ~/.rarian/logs/rarian.log)")

	return cmd
}

func runLogs(cmd *cobra.Command, lines int, level, filter, logFile string) error {
	path, err := logging.FindLogFile(logFile)
	if err != nil {
		return err
	}

	var pattern *regexp.Regexp
	if filter != "" {
		pattern, err = regexp.Compile(filter)
		if err != nil {
			return fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	viewer := logging.NewViewer(logging.ViewerConfig{Level: level, Pattern: pattern})
	entries, err := viewer.Tail(path, lines)
	if err != nil {
		return err
	}

	viewer.Print(cmd.OutOrStdout(), entries)
	return nil
}
