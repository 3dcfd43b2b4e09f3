package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/output"
	"github.com/Aman-CERP/rarian/internal/schema"

	"github.com/Aman-CERP/rarian/internal/collection"
)

func newCreateCmd() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "create <collection-name>",
		Short: "Create a collection from a schema YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args[0], schemaPath)
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "Path to the schema YAML file (default: the collection's configured schema path)")

	return cmd
}

func runCreate(cmd *cobra.Command, name, schemaPath string) error {
	root, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if schemaPath == "" {
		schemaPath = cfg.SchemaPath(root)
	}

	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	s, err := schema.ParseYAML(data)
	if err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}

	env, err := openEnvironment(root, cfg, false)
	if err != nil {
		return fmt.Errorf("failed to open environment: %w", err)
	}
	defer func() { _ = env.Close() }()

	err = env.Update(func(tx *kv.Tx) error {
		_, err := collection.Create(tx, name, s)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	out := output.New(cmd.OutOrStdout())
	out.Successf("created collection %q", name)
	return nil
}
