package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lectio/internal/catalog"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/progress"
)

type PlansCmd struct{}

func (cmd *PlansCmd) Run(ctx *Context) error {
	plans := ctx.Catalog.ListAll()
	if len(plans) == 0 {
		ctx.println("No reading plans available.")
		return nil
	}

	current := ""
	if p := ctx.Progress.Load(); p != nil {
		current = p.CurrentPlanID
	}

	ctx.println(headingStyle.Render("Reading plans"))
	for _, plan := range plans {
		marker := " "
		if plan.ID == current {
			marker = okStyle.Render("▶")
		}
		ctx.printf("%s %-28s %s %s\n", marker, plan.ID, plan.Name,
			mutedStyle.Render(fmt.Sprintf("(%s, %d days)", plan.Type, plan.TotalDays)))
	}
	return nil
}

type PlanShowCmd struct {
	ID  string `arg:"" help:"Plan id."`
	Day int    `help:"Show only this day's reading." default:"0"`
}

func (cmd *PlanShowCmd) Run(ctx *Context) error {
	plan, ok := ctx.Catalog.GetByID(cmd.ID)
	if !ok {
		return fmt.Errorf("%w: %s", catalog.ErrPlanNotFound, cmd.ID)
	}

	var pp *models.PlanProgress
	if p := ctx.Progress.Load(); p != nil {
		pp, _ = progress.GetPlanProgress(p, plan.ID)
	}

	if cmd.Day > 0 {
		r, ok := catalog.GetReadingByDay(plan, cmd.Day)
		if !ok {
			return fmt.Errorf("plan %s has no day %d", plan.ID, cmd.Day)
		}
		printReading(ctx, r, pp)
		return nil
	}

	ctx.println(headingStyle.Render(plan.Name))
	ctx.println(plan.Description)
	ctx.println(mutedStyle.Render(fmt.Sprintf("%s · %d days · %s", plan.Type, plan.TotalDays, plan.EstimatedDuration)))
	ctx.println()
	for _, r := range plan.Readings {
		done := " "
		if pp != nil && pp.HasCompleted(r.ID) {
			done = okStyle.Render("✓")
		}
		ctx.printf("%s Day %3d  %s\n", done, r.Day, strings.Join(r.Passages, ", "))
	}
	return nil
}

func printReading(ctx *Context, r models.Reading, pp *models.PlanProgress) {
	ctx.printf("Day %d\n", r.Day)
	for _, passage := range r.Passages {
		ctx.println("  " + passageStyle.Render(passage))
	}
	if r.Theme != "" {
		ctx.println(mutedStyle.Render("Theme: " + r.Theme))
	}
	if len(r.StudyTags) > 0 {
		ctx.println(mutedStyle.Render("Tags: " + strings.Join(r.StudyTags, ", ")))
	}
	ctx.println(mutedStyle.Render("Reading id: " + r.ID))
	if pp != nil && pp.HasCompleted(r.ID) {
		ctx.println(okLine("Completed"))
	}
}
