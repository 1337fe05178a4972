// Package main provides the viewdeps CLI for searching view dependencies.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/viewdeps/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
