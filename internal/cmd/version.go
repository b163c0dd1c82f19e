package cmd

import (
	"github.com/spf13/cobra"
)

// Version info - injected at build time via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("skillforge %s (commit: %s, built: %s)\n", Version, GitCommit, BuildDate)
	},
}
