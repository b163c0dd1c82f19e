package cmd

import (
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/runger/skillforge/internal/pattern"
)

var patternsLimit int

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List promotion candidates",
	Long: `List patterns that are not yet promoted and not dismissed, most
frequent first. These are the candidates the review flow walks through.`,
	Args: cobra.NoArgs,
	RunE: runPatterns,
}

func init() {
	patternsCmd.Flags().IntVarP(&patternsLimit, "limit", "n", 20, "maximum patterns to list")
}

func runPatterns(cmd *cobra.Command, args []string) error {
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

	records, err := pattern.NewStore(db.DB()).Candidates(ctx, patternsLimit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		cmd.Println("no promotion candidates")
		return nil
	}

	cmd.Printf("%5s  %5s  %s\n", "ID", "COUNT", "SITUATION")
	for _, rec := range records {
		cmd.Printf("%5d  %5d  %s\n", rec.ID, rec.Count, runewidth.Truncate(rec.Situation, 70, "…"))
	}
	return nil
}
