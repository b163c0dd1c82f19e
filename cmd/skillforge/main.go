// skillforge is the CLI for the failure-learning loop: it initializes
// the shared store, lists and reviews aggregated failure patterns, and
// promotes patterns into skill documents.
package main

import (
	"os"

	"github.com/runger/skillforge/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
