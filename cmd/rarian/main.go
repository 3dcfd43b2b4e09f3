// Package main provides the entry point for the rarian CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/rarian/cmd/rarian/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
