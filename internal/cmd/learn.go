package cmd

import (
	"github.com/spf13/cobra"

	"github.com/runger/skillforge/internal/pattern"
)

var learnCmd = &cobra.Command{
	Use:   "learn <situation> <instruction>",
	Short: "Record a fix for a recurring failure",
	Long: `Learn aggregates a (situation, instruction) pair into the pattern
store. Repeating the same pair increments its count; once a pattern
recurs often enough it shows up in 'skillforge patterns' and the
review flow, ready to be promoted into a skill.`,
	Args: cobra.ExactArgs(2),
	RunE: runLearn,
}

func runLearn(cmd *cobra.Command, args []string) error {
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

	rec, err := pattern.NewStore(db.DB()).Upsert(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	if rec.Count == 1 {
		cmd.Printf("learned pattern %d\n", rec.ID)
	} else {
		cmd.Printf("pattern %d seen %d times\n", rec.ID, rec.Count)
	}
	return nil
}
