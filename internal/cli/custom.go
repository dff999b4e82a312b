package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/lectio/internal/builder"
	"github.com/julianstephens/lectio/internal/catalog"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/progress"
	"github.com/julianstephens/lectio/internal/validation"
)

var errInvalidPlan = errors.New("plan is invalid")

type CustomCreateCmd struct {
	Name        string   `required:"" help:"Plan name."`
	Description string   `required:"" help:"Plan description."`
	Day         []string `short:"d" sep:"none" help:"Comma-separated passages for one day. Repeat once per day."`
	Tags        []string `help:"Study tags for every reading."`
	Theme       string   `help:"Theme for every reading."`
	Start       bool     `help:"Make the new plan active."`
}

func (cmd *CustomCreateCmd) Run(ctx *Context) error {
	plan := builder.FromDays(cmd.Name, cmd.Description, cmd.Day, cmd.Tags, cmd.Theme)
	return saveCustomPlan(ctx, plan, cmd.Start)
}

type CustomSequentialCmd struct {
	Name        string `required:"" help:"Plan name."`
	Description string `required:"" help:"Plan description."`
	Book        string `required:"" help:"Book to read, e.g. 'Mark'."`
	Chapters    int    `required:"" help:"Number of chapters, one per day."`
	Start       bool   `help:"Make the new plan active."`
}

func (cmd *CustomSequentialCmd) Run(ctx *Context) error {
	plan := builder.Sequential(cmd.Name, cmd.Description, cmd.Book, cmd.Chapters)
	return saveCustomPlan(ctx, plan, cmd.Start)
}

func saveCustomPlan(ctx *Context, plan models.ReadingPlan, start bool) error {
	result := validation.New().ValidatePlan(plan)
	if result.HasConflicts() {
		ctx.print(result.FormatReport())
		return errInvalidPlan
	}

	if err := ctx.Catalog.SaveCustom(plan); err != nil {
		return err
	}
	ctx.println(okLine(fmt.Sprintf("Created %s (%s, %d days)", plan.Name, plan.ID, plan.TotalDays)))

	if start {
		if _, err := ctx.Tracker.Start(plan.ID); err != nil {
			return err
		}
		ctx.println(okLine("Plan is now active"))
	}
	return nil
}

type CustomListCmd struct{}

func (cmd *CustomListCmd) Run(ctx *Context) error {
	plans := ctx.Catalog.Custom()
	if len(plans) == 0 {
		ctx.println("No custom plans. Create one with 'lectio custom create'.")
		return nil
	}
	for _, p := range plans {
		ctx.printf("%-44s %s %s\n", p.ID, p.Name, mutedStyle.Render(fmt.Sprintf("(%d days)", p.TotalDays)))
	}
	return nil
}

type CustomDeleteCmd struct {
	ID  string `arg:"" help:"Custom plan id."`
	Yes bool   `short:"y" help:"Do not ask for confirmation."`
}

// Run deletes the plan together with its progress and notes
func (cmd *CustomDeleteCmd) Run(ctx *Context) error {
	plan, ok := ctx.Catalog.GetByID(cmd.ID)
	if !ok {
		return fmt.Errorf("%w: %s", catalog.ErrPlanNotFound, cmd.ID)
	}
	if !plan.IsCustom() {
		return fmt.Errorf("%w: %s", catalog.ErrBuiltinReadOnly, plan.ID)
	}

	ok, err := ctx.confirmed(cmd.Yes, fmt.Sprintf("Delete %s?", plan.Name),
		"Its progress and notes are deleted too.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup("custom delete")

	if _, err := ctx.Catalog.DeleteCustom(plan.ID); err != nil {
		return err
	}

	wasActive := false
	if p := ctx.Progress.Load(); p != nil {
		wasActive = p.CurrentPlanID == plan.ID
		if _, ok := p.PlanProgress[plan.ID]; ok {
			if err := ctx.Progress.Save(progress.RemovePlan(p, plan.ID)); err != nil {
				return fmt.Errorf("plan deleted but its progress was not: %w", err)
			}
		}
	}

	removed, err := ctx.Notes.DeleteForReadings(plan.ReadingIDs())
	if err != nil {
		return fmt.Errorf("plan deleted but its notes were not: %w", err)
	}

	ctx.println(okLine(fmt.Sprintf("Deleted %s and %d note(s)", plan.Name, removed)))
	if wasActive {
		ctx.println(warnLine("That was the active plan. Pick another with 'lectio start <plan-id>'."))
	}
	return nil
}
