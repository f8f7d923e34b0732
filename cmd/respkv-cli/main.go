// Package main provides the entry point for respkv-cli.
//
// respkv-cli is the command-line client for respkv, supporting single
// commands, an interactive REPL and a load generator.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/respkv/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
