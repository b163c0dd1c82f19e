package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/skillforge/internal/log"
	"github.com/runger/skillforge/internal/pattern"
	"github.com/runger/skillforge/internal/review"
	"github.com/runger/skillforge/internal/skill"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Interactively review promotion candidates",
	Long: `Review steps through promotion candidates one by one. For each
pattern: p promotes it into a skill, d dismisses it, q quits.`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

// storeDecider executes review decisions against the shared store.
type storeDecider struct {
	patterns *pattern.Store
	promoter *skill.Promoter
}

func (d *storeDecider) Promote(ctx context.Context, rec pattern.Record) (string, error) {
	result, err := d.promoter.Promote(ctx, skill.Request{
		PatternID:   rec.ID,
		Situation:   rec.Situation,
		Instruction: rec.Instruction,
		Count:       rec.Count,
	})
	if err != nil {
		return "", err
	}
	return result.SkillPath, nil
}

func (d *storeDecider) Dismiss(ctx context.Context, id int64) error {
	return d.patterns.Dismiss(ctx, id)
}

func runReview(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	tmpl, err := skill.LoadTemplate(e.templatePath())
	if err != nil {
		return err
	}

	db, err := e.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	patterns := pattern.NewStore(db.DB())
	candidates, err := patterns.Candidates(ctx, 100)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		cmd.Println("no patterns to review")
		return nil
	}

	decider := &storeDecider{
		patterns: patterns,
		promoter: skill.NewPromoter(patterns, tmpl, e.skillsDir(), e.cfg.Skills.MaxNameAttempts, log.NewFromEnv()),
	}

	// Match lipgloss output to the real terminal capabilities.
	lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).ColorProfile())

	model := review.NewModel(candidates, decider)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("review session failed: %w", err)
	}
	return nil
}
