package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".respkv", "cli.yaml")
}

// Load reads the CLI configuration from path, falling back to the default
// path when empty. A missing file yields the defaults; fields absent from
// the file keep their default values.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cli config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse cli config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
