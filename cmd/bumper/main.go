/*
Package main provides the CLI entry point for Bumper.
*/
package main

import (
	"os"

	"github.com/oarkflow/bumper/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
