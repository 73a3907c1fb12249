// Package main is the entry point for the journeys CLI.
package main

import (
	"fmt"
	"os"

	"github.com/b1ack-panther/jikan-journeys/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "journeys: %v\n", err)
		os.Exit(1)
	}
}
