package cmd

import (
	"fmt"
	"os"

	"github.com/Aman-CERP/rarian/internal/config"
	"github.com/Aman-CERP/rarian/internal/kv"
)

// rootFlag is the collection root directory, shared by every subcommand
// that needs to locate a config file, schema, entries, or environment.
var rootFlag string

func loadConfig() (root string, cfg *config.Config, err error) {
	start := rootFlag
	if start == "" {
		start = "."
	}

	root, err = config.FindCollectionRoot(start)
	if err != nil {
		return "", nil, err
	}

	cfg, err = config.Load(root)
	if err != nil {
		return "", nil, err
	}
	return root, cfg, nil
}

func openEnvironment(root string, cfg *config.Config, readOnly bool) (*kv.Environment, error) {
	dir := cfg.EnvironmentPath(root)
	if err := os.MkdirAll(dir, 0o755); err != nil && !readOnly {
		return nil, fmt.Errorf("failed to create environment directory: %w", err)
	}
	return kv.Open(dir, kv.Options{ReadOnly: readOnly})
}
