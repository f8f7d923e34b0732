// Package config provides the respkv-cli configuration file
// (~/.respkv/cli.yaml): default server, output format and timeout.
package config
