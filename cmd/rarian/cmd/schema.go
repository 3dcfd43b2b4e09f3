package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/schema"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect a collection's schema",
	}
	cmd.AddCommand(newSchemaShowCmd())
	return cmd
}

func newSchemaShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <collection-name>",
		Short: "Print a collection's schema as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaShow(cmd, args[0])
		},
	}
}

func runSchemaShow(cmd *cobra.Command, name string) error {
	root, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	env, err := openEnvironment(root, cfg, true)
	if err != nil {
		return fmt.Errorf("failed to open environment: %w", err)
	}
	defer func() { _ = env.Close() }()

	var s schema.Schema
	err = env.View(func(tx *kv.Tx) error {
		var err error
		s, err = schema.Get(tx, name)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	data, err := schema.ToYAML(s)
	if err != nil {
		return fmt.Errorf("failed to render schema: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
