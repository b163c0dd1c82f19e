package cmd

import (
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/runger/skillforge/internal/observe"
)

var observationsLimit int

var observationsCmd = &cobra.Command{
	Use:   "observations",
	Short: "Show the most frequently sighted failure situations",
	Args:  cobra.NoArgs,
	RunE:  runObservations,
}

func init() {
	observationsCmd.Flags().IntVarP(&observationsLimit, "limit", "n", 20, "maximum situations to list")
}

func runObservations(cmd *cobra.Command, args []string) error {
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

	obs := observe.NewStore(db.DB())

	total, err := obs.TotalCount(ctx)
	if err != nil {
		return err
	}
	counts, err := obs.CountBySituation(ctx, observationsLimit)
	if err != nil {
		return err
	}

	cmd.Printf("%d observations recorded\n", total)
	if len(counts) == 0 {
		return nil
	}

	cmd.Printf("\n%5s  %-8s  %s\n", "COUNT", "CATEGORY", "SITUATION")
	for _, sc := range counts {
		cmd.Printf("%5d  %-8s  %s\n", sc.Count, sc.Category, runewidth.Truncate(sc.Situation, 70, "…"))
	}
	return nil
}
