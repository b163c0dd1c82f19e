// Package cmd implements the skillforge command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skillforge",
	Short: "turn repeated shell failures into reusable skills",
	Long: `skillforge - a learning loop for your shell
  - watches command failures and aggregates recurring signatures
  - promotes frequent patterns into reusable skill documents`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(observationsCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(dismissCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
