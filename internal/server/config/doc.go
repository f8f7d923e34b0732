// Package config defines the respkv-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation run after loading
//
// Configuration is loaded via internal/infra/confloader from defaults, a
// YAML or TOML file, and RESPKV_* environment variables.
package config
