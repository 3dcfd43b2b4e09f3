package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rarian/internal/collection"
	"github.com/Aman-CERP/rarian/internal/entrystore"
	"github.com/Aman-CERP/rarian/internal/entryio"
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/output"
	"github.com/Aman-CERP/rarian/internal/uid"
)

func newExportCmd() *cobra.Command {
	var entriesDir string

	cmd := &cobra.Command{
		Use:   "export <collection-name>",
		Short: "Write every entry in a collection to entries/<uuid>.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], entriesDir)
		},
	}

	cmd.Flags().StringVar(&entriesDir, "entries", "", "Directory to write an entries/ subdirectory into (default: the collection root)")

	return cmd
}

func runExport(cmd *cobra.Command, name, entriesDir string) error {
	root, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if entriesDir == "" {
		entriesDir = root
	}

	env, err := openEnvironment(root, cfg, true)
	if err != nil {
		return fmt.Errorf("failed to open environment: %w", err)
	}
	defer func() { _ = env.Close() }()

	exported := 0
	err = env.View(func(tx *kv.Tx) error {
		c, err := collection.Open(tx, name)
		if err != nil {
			return err
		}
		return c.IterEntries(tx, func(u uid.UID, entry entrystore.Entry) error {
			if err := entryio.Export(entriesDir, u, entry); err != nil {
				return err
			}
			exported++
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	out := output.New(cmd.OutOrStdout())
	out.Successf("exported %d entries from %q", exported, name)
	return nil
}
