package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/runger/skillforge/internal/pattern"
)

var dismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Decline a pattern so review stops surfacing it",
	Long: `Dismiss marks a pattern as explicitly declined. Its count keeps
growing on repeat sightings, but it will not be offered for promotion
again until the store is reset or the pattern is promoted explicitly.`,
	Args: cobra.ExactArgs(1),
	RunE: runDismiss,
}

func runDismiss(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid pattern id %q: must be numeric", args[0])
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := e.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := pattern.NewStore(db.DB()).Dismiss(ctx, id); err != nil {
		return err
	}

	cmd.Printf("dismissed pattern %d\n", id)
	return nil
}
