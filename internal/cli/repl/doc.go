// Package repl provides the interactive mode of respkv-cli.
//
//   - repl.go: the read-eval-print loop
//   - args.go: splitting an input line into arguments
//   - completer.go: command name completion
//   - history.go: command history persistence
package repl
