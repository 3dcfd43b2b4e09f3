// Package config loads CLI-level configuration for rarian: where a
// collection lives on disk, default schema/entry paths, and server
// settings. It has no bearing on the storage/indexing engine itself,
// which takes an explicit directory and schema regardless of config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the CLI-level configuration for rarian.
type Config struct {
	Version int          `yaml:"version" json:"version"`
	Paths   PathsConfig  `yaml:"paths" json:"paths"`
	Server  ServerConfig `yaml:"server" json:"server"`
}

// PathsConfig configures where a collection's on-disk artifacts live,
// relative to the collection root unless absolute.
type PathsConfig struct {
	// Environment is the directory the bbolt-backed Environment opens.
	Environment string `yaml:"environment" json:"environment"`
	// Schema is the path to the schema YAML source file.
	Schema string `yaml:"schema" json:"schema"`
	// Entries is the entry YAML directory that EntriesPath resolves. The
	// ingest and export commands do not read it: their --entries flag
	// defaults to the collection root.
	Entries string `yaml:"entries" json:"entries"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			Environment: "env",
			Schema:      "schema.yaml",
			Entries:     "entries",
		},
		Server: ServerConfig{
			Transport: "stdio",
			LogLevel:  "info",
		},
	}
}

// Load loads configuration for the collection rooted at dir, in order
// of increasing precedence:
//  1. Hardcoded defaults
//  2. Project config (.rarian.yaml in dir)
//  3. Environment variables (RARIAN_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromFile attempts to load configuration from .rarian.yaml or .rarian.yml.
func (c *Config) loadFromFile(dir string) error {
	yamlPath := filepath.Join(dir, ".rarian.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return c.loadYAML(yamlPath)
	}

	ymlPath := filepath.Join(dir, ".rarian.yml")
	if _, err := os.Stat(ymlPath); err == nil {
		return c.loadYAML(ymlPath)
	}

	return nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if other.Paths.Environment != "" {
		c.Paths.Environment = other.Paths.Environment
	}
	if other.Paths.Schema != "" {
		c.Paths.Schema = other.Paths.Schema
	}
	if other.Paths.Entries != "" {
		c.Paths.Entries = other.Paths.Entries
	}
	if other.Server.Transport != "" {
		c.Server.Transport = other.Server.Transport
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}
}

// applyEnvOverrides applies RARIAN_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RARIAN_ENVIRONMENT_PATH"); v != "" {
		c.Paths.Environment = v
	}
	if v := os.Getenv("RARIAN_SCHEMA_PATH"); v != "" {
		c.Paths.Schema = v
	}
	if v := os.Getenv("RARIAN_ENTRIES_PATH"); v != "" {
		c.Paths.Entries = v
	}
	if v := os.Getenv("RARIAN_TRANSPORT"); v != "" {
		c.Server.Transport = v
	}
	if v := os.Getenv("RARIAN_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	validTransports := map[string]bool{"stdio": true}
	if !validTransports[strings.ToLower(c.Server.Transport)] {
		return fmt.Errorf("server.transport must be 'stdio', got %s", c.Server.Transport)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FindCollectionRoot finds the collection root directory by walking up
// from startDir looking for a .rarian.yaml/.yml file or a .git directory.
func FindCollectionRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		if fileExists(filepath.Join(currentDir, ".rarian.yaml")) ||
			fileExists(filepath.Join(currentDir, ".rarian.yml")) {
			return currentDir, nil
		}
		if dirExists(filepath.Join(currentDir, ".git")) {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

// EnvironmentPath returns the absolute path to the collection's
// Environment directory, resolving c.Paths.Environment relative to root
// when it is not already absolute.
func (c *Config) EnvironmentPath(root string) string {
	return resolvePath(root, c.Paths.Environment)
}

// SchemaPath returns the absolute path to the collection's schema file.
func (c *Config) SchemaPath(root string) string {
	return resolvePath(root, c.Paths.Schema)
}

// EntriesPath returns the absolute path to the collection's entry
// import/export directory.
func (c *Config) EntriesPath(root string) string {
	return resolvePath(root, c.Paths.Entries)
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// dirExists checks if a directory exists.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
