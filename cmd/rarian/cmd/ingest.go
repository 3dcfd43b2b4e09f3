package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rarian/internal/collection"
	"github.com/Aman-CERP/rarian/internal/entryio"
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/output"
)

func newIngestCmd() *cobra.Command {
	var entriesDir string

	cmd := &cobra.Command{
		Use:   "ingest <collection-name>",
		Short: "Insert every entry YAML file into a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args[0], entriesDir)
		},
	}

	cmd.Flags().StringVar(&entriesDir, "entries", "", "Directory holding an entries/ subdirectory (default: the collection root)")

	return cmd
}

func runIngest(cmd *cobra.Command, name, entriesDir string) error {
	root, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if entriesDir == "" {
		entriesDir = root
	}

	imported, err := entryio.ImportAll(entriesDir)
	if err != nil {
		return fmt.Errorf("failed to read entries: %w", err)
	}

	env, err := openEnvironment(root, cfg, false)
	if err != nil {
		return fmt.Errorf("failed to open environment: %w", err)
	}
	defer func() { _ = env.Close() }()

	inserted := 0
	err = env.Update(func(tx *kv.Tx) error {
		c, err := collection.Open(tx, name)
		if err != nil {
			return err
		}
		for _, ie := range imported {
			if _, err := c.Insert(tx, ie.Entry); err != nil {
				return fmt.Errorf("failed to insert entry %s: %w", ie.UID.String(), err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return err
	}

	out := output.New(cmd.OutOrStdout())
	out.Successf("ingested %d entries into %q", inserted, name)
	return nil
}
