package config

import (
	"path/filepath"
	"time"
)

// CLIConfig is the configuration for respkv-cli.
type CLIConfig struct {
	// Server is the default host:port.
	Server string `yaml:"server"`
	// Output is the default output format: text, json or yaml.
	Output string `yaml:"output"`
	// Timeout bounds dialing and each request.
	Timeout time.Duration `yaml:"timeout"`
	// HistoryFile stores REPL history. Empty disables persistence.
	HistoryFile string `yaml:"history_file"`
	// TLS connects over TLS, verifying the server against the system roots
	// or CACert.
	TLS bool `yaml:"tls"`
	// CACert is a PEM bundle to trust instead of the system roots. Setting
	// it implies TLS.
	CACert string `yaml:"cacert"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  "127.0.0.1:6379",
		Output:  "text",
		Timeout: 5 * time.Second,
		// Next to the config file.
		HistoryFile: filepath.Join(filepath.Dir(DefaultConfigPath()), "history"),
	}
}
