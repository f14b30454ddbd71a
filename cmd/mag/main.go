// Package main is the entry point for the mag CLI tool.
package main

import (
	"os"

	"github.com/corvid-tools/magpie/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
