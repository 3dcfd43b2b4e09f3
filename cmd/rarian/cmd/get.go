package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rarian/internal/collection"
	"github.com/Aman-CERP/rarian/internal/entrystore"
	"github.com/Aman-CERP/rarian/internal/entryio"
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/uid"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection-name> <uuid>",
		Short: "Print a single entry as YAML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args[0], args[1])
		},
	}
}

func runGet(cmd *cobra.Command, name, uuidStr string) error {
	u, err := uid.Parse(uuidStr)
	if err != nil {
		return fmt.Errorf("invalid uuid %q: %w", uuidStr, err)
	}

	root, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	env, err := openEnvironment(root, cfg, true)
	if err != nil {
		return fmt.Errorf("failed to open environment: %w", err)
	}
	defer func() { _ = env.Close() }()

	var entry entrystore.Entry
	err = env.View(func(tx *kv.Tx) error {
		c, err := collection.Open(tx, name)
		if err != nil {
			return err
		}
		entry, err = c.Get(tx, u)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to read entry: %w", err)
	}

	data, err := entryio.ToYAML(entry)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
