// Package main provides the entry point for sigguard.
//
// sigguard registers the signal-triggered shutdown dispatcher around a
// supervised workload and can print the signal classification table of
// the current platform.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/sigguard/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
