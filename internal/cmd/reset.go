package cmd

import (
	"github.com/spf13/cobra"

	"github.com/runger/skillforge/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete and recreate the store",
	Long: `Reset deletes the store file entirely and recreates it empty from
the canonical schema. All observations and patterns are lost.

Skill artifacts already written to the skills directory are preserved.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	if err := store.Reset(cmd.Context(), e.storePath()); err != nil {
		return err
	}

	cmd.Printf("store reset: %s\n", e.storePath())
	cmd.Println("skill artifacts were not touched")
	return nil
}
