package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/skillforge/internal/observe"
	"github.com/runger/skillforge/internal/pattern"
	"github.com/runger/skillforge/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store and auto-detection status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	cmd.Printf("store:           %s\n", e.storePath())
	cmd.Printf("skills:          %s\n", e.skillsDir())

	autoDetect := "disabled"
	if _, err := os.Stat(e.paths.AutoDetectFile()); err == nil {
		autoDetect = "enabled"
	}
	cmd.Printf("auto-detection:  %s\n", autoDetect)

	ctx := cmd.Context()
	db, err := e.openStore(ctx)
	if errors.Is(err, store.ErrStoreMissing) {
		cmd.Println("schema version:  not initialized (run 'skillforge init')")
		return nil
	}
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := db.Version(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("schema version:  %d\n", version)

	obsCount, err := observe.NewStore(db.DB()).TotalCount(ctx)
	if err != nil {
		return err
	}
	patCount, err := pattern.NewStore(db.DB()).TotalCount(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("observations:    %d\n", obsCount)
	cmd.Printf("patterns:        %d\n", patCount)
	return nil
}
