// Package main provides the entry point for respkv-server.
//
// The server provides:
//
//   - A RESP2/RESP3 listener for string, hash and set commands
//   - An optional HTTP admin endpoint with health, version and Prometheus metrics
//
// Usage:
//
//	respkv-server [flags]
//	respkv-server --config /path/to/config.yaml
//
// Configuration is layered: built-in defaults, then the config file (YAML
// or TOML), then RESPKV_* environment variables. Changing log.level in the
// config file takes effect without a restart.
package main
