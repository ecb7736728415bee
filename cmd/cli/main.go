// Package main is the entry point for the breakeven CLI.
package main

import (
	"os"

	"breakeven/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
