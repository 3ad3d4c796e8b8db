// Package main provides the entry point for the clauderun CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/randalmurphal/claudelocal/cmd/clauderun/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		if !errors.Is(err, commands.ErrSilent) {
			fmt.Fprintln(os.Stderr, "clauderun:", err)
		}
		os.Exit(1)
	}
}
