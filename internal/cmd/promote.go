package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/runger/skillforge/internal/log"
	"github.com/runger/skillforge/internal/pattern"
	"github.com/runger/skillforge/internal/skill"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <id> <situation> <instruction> <count>",
	Short: "Promote a pattern into a skill artifact",
	Long: `Promote materializes one pattern as a skill directory containing a
rendered SKILL.md, then marks the pattern promoted.

Promotion is not idempotent: promoting the same pattern again creates a
second artifact with a suffixed name. Check 'skillforge patterns' first.`,
	Args: cobra.ExactArgs(4),
	RunE: runPromote,
}

func runPromote(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid pattern id %q: must be numeric", args[0])
	}
	count, err := strconv.ParseInt(args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid count %q: must be numeric", args[3])
	}

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
	promoter := skill.NewPromoter(patterns, tmpl, e.skillsDir(), e.cfg.Skills.MaxNameAttempts, log.NewFromEnv())

	result, err := promoter.Promote(ctx, skill.Request{
		PatternID:   id,
		Situation:   args[1],
		Instruction: args[2],
		Count:       count,
	})
	if err != nil {
		return err
	}

	if result.StoreWarning != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", result.StoreWarning)
	}
	cmd.Printf("created skill: %s\n", result.SkillPath)
	return nil
}
