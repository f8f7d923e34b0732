// Package command defines the respkv-cli command tree using urfave/cli/v2.
//
//   - root.go: the application, global flags and settings resolution
//   - exec.go: one-shot command execution
//   - repl.go: interactive mode (the default with no subcommand)
//   - bench.go: concurrent load generation over a connection pool
package command
