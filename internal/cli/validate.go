package cli

import (
	"fmt"

	"github.com/julianstephens/lectio/internal/catalog"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/validation"
)

type ValidateCmd struct {
	Plan string `arg:"" optional:"" help:"Validate only this plan."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	v := validation.New()

	plans := ctx.Catalog.ListAll()
	if cmd.Plan != "" {
		plan, ok := ctx.Catalog.GetByID(cmd.Plan)
		if !ok {
			return fmt.Errorf("%w: %s", catalog.ErrPlanNotFound, cmd.Plan)
		}
		plans = []models.ReadingPlan{plan}
	}

	failed := 0
	for _, plan := range plans {
		result := v.ValidatePlan(plan)
		if !result.HasConflicts() {
			ctx.println(okLine(plan.ID))
			continue
		}
		failed++
		ctx.println(failLine(plan.ID))
		ctx.print(result.FormatReport())
	}

	if cmd.Plan == "" {
		result := v.ValidateProgress(ctx.Progress.Load(), ctx.Catalog, ctx.Now())
		if result.HasConflicts() {
			failed++
			ctx.println(failLine("progress"))
			ctx.print(result.FormatReport())
			if result.Has(validation.ConflictStreakMismatch) || result.Has(validation.ConflictTotalMismatch) {
				ctx.println(mutedStyle.Render("Run 'lectio doctor --fix' to recompute streaks and totals."))
			}
		} else {
			ctx.println(okLine("progress"))
		}
	}

	if failed > 0 {
		return fmt.Errorf("validation failed: %d problem group(s)", failed)
	}
	return nil
}
