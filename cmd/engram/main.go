// Package main is the entry point for the engram CLI.
//
// This file is intentionally minimal - all logic lives in the commands
// package.
package main

import (
	"os"

	"github.com/engramlabs/engram/cmd/engram/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
