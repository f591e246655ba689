// Package main provides the dynd command line tool.
package main

import (
	"os"

	"github.com/born-ml/dynd/cmd/dynd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
