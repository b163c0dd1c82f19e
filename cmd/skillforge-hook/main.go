// skillforge-hook is the shell hook binary for ingesting command
// failures. It reads command data from environment variables (and
// optionally stdin) and appends an observation to the shared store.
//
// This binary is designed for minimal startup time and fire-and-forget
// behavior. It never blocks the user's shell prompt: a missing store,
// disabled auto-detection, or a failed store write all exit 0.
package main

import (
	"fmt"
	"io"
	"os"
)

// Version info - injected at build time via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "observe":
		return runObserve(cmdArgs, stderr)
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "skillforge-hook %s (commit: %s, built: %s)\n", Version, GitCommit, BuildDate)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "skillforge-hook: unknown command: %s\n", cmd)
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `skillforge-hook - shell hook for failure observation

Usage: skillforge-hook <command> [flags...]

Commands:
  observe          Record a failing command from environment variables

Environment variables for 'observe':
  SKILLFORGE_CMD         Raw command string (required)
  SKILLFORGE_EXIT        Exit code of the command (required; 0 is a no-op)
  SKILLFORGE_OUTPUT      Combined stdout/stderr text (optional)
  SKILLFORGE_FILE        File the failure relates to (optional)
  SKILLFORGE_SESSION_ID  Session identifier (optional; generated if unset)
  SKILLFORGE_NO_RECORD   If "1", skip recording entirely

Flags for 'observe':
  --output-stdin   Read combined output from stdin instead of SKILLFORGE_OUTPUT

Exit codes:
  0  Success (or store unavailable / auto-detection disabled - silent drop)
  1  Invalid arguments`)
}
