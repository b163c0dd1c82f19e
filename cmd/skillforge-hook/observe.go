package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/runger/skillforge/internal/classify"
	"github.com/runger/skillforge/internal/config"
	"github.com/runger/skillforge/internal/log"
	"github.com/runger/skillforge/internal/observe"
	"github.com/runger/skillforge/internal/store"
)

// observeTimeout bounds the whole observe path; a contended store must
// never hold the hook open longer than this.
const observeTimeout = 2 * time.Second

// observeConfig holds the parsed configuration for the observe command.
type observeConfig struct {
	outputStdin bool // Read combined output from stdin instead of SKILLFORGE_OUTPUT
}

// parseObserveArgs parses the command line arguments for the observe command.
func parseObserveArgs(args []string) (*observeConfig, error) {
	cfg := &observeConfig{}

	for _, arg := range args {
		switch arg {
		case "--output-stdin":
			cfg.outputStdin = true
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
			// Ignore positional arguments
		}
	}

	return cfg, nil
}

// runObserve handles the observe subcommand: gate checks, signature
// extraction, and a best-effort store append.
//
// Exit codes:
//   - 0: Success, silent no-op, or recoverable store failure
//   - 1: Invalid arguments
func runObserve(args []string, stderr io.Writer) int {
	if os.Getenv("SKILLFORGE_NO_RECORD") == "1" {
		return 0
	}

	hookCfg, err := parseObserveArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "skillforge-hook observe: %v\n", err)
		return 1
	}

	// Exit code absent means there is nothing to track.
	exitStr := os.Getenv("SKILLFORGE_EXIT")
	if exitStr == "" {
		return 0
	}
	exitCode, err := strconv.Atoi(exitStr)
	if err != nil {
		fmt.Fprintf(stderr, "skillforge-hook observe: SKILLFORGE_EXIT must be an integer\n")
		return 1
	}
	if exitCode == 0 {
		return 0
	}

	cmdText := os.Getenv("SKILLFORGE_CMD")
	if cmdText == "" {
		fmt.Fprintf(stderr, "skillforge-hook observe: SKILLFORGE_CMD is required\n")
		return 1
	}

	output, err := readOutput(hookCfg)
	if err != nil {
		fmt.Fprintf(stderr, "skillforge-hook observe: %v\n", err)
		return 1
	}

	logger := log.NewFromEnv()

	appCfg, err := config.Load()
	if err != nil {
		log.LogObservationDropped(logger, "config unreadable", err)
		return 0
	}
	paths := config.DefaultPaths()

	dbPath := appCfg.Store.Path
	if dbPath == "" {
		dbPath = paths.DatabaseFile()
	}

	// Both gates must hold: an initialized store and the auto-detection
	// sentinel. Absence of either is a silent no-op, not an error.
	if _, err := os.Stat(dbPath); err != nil {
		return 0
	}
	if _, err := os.Stat(paths.AutoDetectFile()); err != nil {
		return 0
	}

	sig, ok := classify.Extract(cmdText, exitCode, output)
	if !ok {
		return 0
	}

	sessionID := os.Getenv("SKILLFORGE_SESSION_ID")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(context.Background(), observeTimeout)
	defer cancel()

	db, err := store.Open(ctx, store.Options{Path: dbPath, MustExist: true})
	if err != nil {
		log.LogObservationDropped(logger, "store open failed", err)
		return 0
	}
	defer db.Close()

	_, err = observe.NewStore(db.DB()).Record(ctx, observe.Observation{
		Category:  sig.Category,
		Situation: sig.Situation,
		FilePath:  os.Getenv("SKILLFORGE_FILE"),
		SessionID: sessionID,
	})
	if err != nil {
		// Recording is best-effort; the shell must never see this.
		log.LogObservationDropped(logger, "store write failed", err)
	}

	return 0
}

// readOutput returns the combined stdout/stderr text for the command.
func readOutput(cfg *observeConfig) (string, error) {
	if !cfg.outputStdin {
		return os.Getenv("SKILLFORGE_OUTPUT"), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read output from stdin: %w", err)
	}
	return string(data), nil
}
