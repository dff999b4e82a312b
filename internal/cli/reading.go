package cli

import (
	"fmt"
	"sort"

	"github.com/julianstephens/lectio/internal/catalog"
	"github.com/julianstephens/lectio/internal/progress"
	"github.com/julianstephens/lectio/internal/scheduler"
	"github.com/julianstephens/lectio/internal/tracker"
)

type StartCmd struct {
	Plan string `arg:"" help:"Plan id to make active."`
}

func (cmd *StartCmd) Run(ctx *Context) error {
	plan, err := ctx.Tracker.Start(cmd.Plan)
	if err != nil {
		return err
	}
	ctx.println(okLine(fmt.Sprintf("Active plan: %s", plan.Name)))
	return nil
}

type TodayCmd struct{}

func (cmd *TodayCmd) Run(ctx *Context) error {
	st, err := ctx.Tracker.Status()
	if err != nil {
		return err
	}

	ctx.println(headingStyle.Render(st.Plan.Name))
	printReading(ctx, st.Reading, st.Progress)
	if note, ok := ctx.Notes.GetForReading(st.Reading.ID); ok {
		ctx.println(mutedStyle.Render("Note: " + note.Content))
	}
	if next, ok := ctx.Scheduler.NextUnread(st.Plan, st.Progress); ok && next.Day < st.Reading.Day {
		ctx.println(warnLine(fmt.Sprintf("Day %d (%s) is still unread", next.Day, next.ID)))
	}
	ctx.println()
	printSummary(ctx, st.Summary)
	return nil
}

type CompleteCmd struct {
	Reading  string `arg:"" optional:"" help:"Reading id. Defaults to today's reading."`
	Continue bool   `help:"Move on to the next day right away."`
}

func (cmd *CompleteCmd) Run(ctx *Context) error {
	st, err := ctx.Tracker.Complete(cmd.Reading, cmd.Continue)
	if err != nil {
		return err
	}

	ctx.println(okLine(fmt.Sprintf("Completed day %d of %s", st.Reading.Day, st.Plan.Name)))
	ctx.printf("Streak: %d day(s), longest %d\n", st.Summary.CurrentStreak, st.Summary.LongestStreak)
	if st.Summary.Finished {
		ctx.println(okStyle.Render("Plan finished. Well done!"))
	}
	return nil
}

type ProgressCmd struct {
	All bool `help:"Show every plan with recorded progress."`
}

func (cmd *ProgressCmd) Run(ctx *Context) error {
	if !cmd.All {
		st, err := ctx.Tracker.Status()
		if err != nil {
			return err
		}
		ctx.println(headingStyle.Render(st.Plan.Name))
		printSummary(ctx, st.Summary)
		return nil
	}

	p := ctx.Progress.Load()
	if p == nil || len(p.PlanProgress) == 0 {
		ctx.println("No progress recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(p.PlanProgress))
	for id := range p.PlanProgress {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	now := ctx.Now()
	for _, id := range ids {
		marker := " "
		if id == p.CurrentPlanID {
			marker = okStyle.Render("▶")
		}
		plan, ok := ctx.Catalog.GetByID(id)
		if !ok {
			ctx.printf("%s %s %s\n", marker, id, warnStyle.Render("(plan not in catalog)"))
			continue
		}
		sum := ctx.Scheduler.Summarize(plan, p.PlanProgress[id], now)
		ctx.printf("%s %-28s %s %3d%%  %d/%d  streak %d\n", marker, id, bar(sum.Percentage, 20),
			sum.Percentage, sum.Completed, sum.TotalDays, sum.CurrentStreak)
	}
	return nil
}

func printSummary(ctx *Context, sum scheduler.Summary) {
	ctx.printf("Day %d of %d\n", min(sum.Day, sum.TotalDays), sum.TotalDays)
	ctx.printf("%s %d%% (%d/%d readings)\n", bar(sum.Percentage, 30), sum.Percentage, sum.Completed, sum.TotalDays)
	ctx.printf("Streak: %d day(s), longest %d\n", sum.CurrentStreak, sum.LongestStreak)
	if sum.CompletedToday {
		ctx.println(okLine("Read today"))
	} else {
		ctx.println(mutedStyle.Render("Not read yet today"))
	}
}

type StreakCmd struct {
	Verify bool `help:"Recompute the streak from completion history and compare."`
}

func (cmd *StreakCmd) Run(ctx *Context) error {
	st, err := ctx.Tracker.Status()
	if err != nil {
		return err
	}
	pp := st.Progress
	ctx.printf("Current streak: %d day(s)\n", pp.CurrentStreak)
	ctx.printf("Longest streak: %d day(s)\n", pp.LongestStreak)

	if !cmd.Verify {
		return nil
	}
	res := progress.Verify(pp, ctx.Now())
	if res.Current == pp.CurrentStreak && res.Longest == pp.LongestStreak {
		ctx.println(okLine("Streak matches completion history"))
		return nil
	}
	ctx.println(warnLine(fmt.Sprintf("History gives current %d, longest %d. Run 'lectio doctor --fix' to repair.",
		res.Current, res.Longest)))
	return nil
}

type ResetCmd struct {
	Plan string `arg:"" optional:"" help:"Plan id. Defaults to the active plan."`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (cmd *ResetCmd) Run(ctx *Context) error {
	planID := cmd.Plan
	if planID == "" {
		p := ctx.Progress.Load()
		if p == nil || p.CurrentPlanID == "" {
			return tracker.ErrNoActivePlan
		}
		planID = p.CurrentPlanID
	}
	plan, ok := ctx.Catalog.GetByID(planID)
	if !ok {
		return fmt.Errorf("%w: %s", catalog.ErrPlanNotFound, planID)
	}

	ok, err := ctx.confirmed(cmd.Yes, fmt.Sprintf("Reset progress for %s?", plan.Name),
		"Completions and streaks for this plan will be cleared.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Reset cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup("reset")
	if err := ctx.Tracker.Reset(plan.ID); err != nil {
		return err
	}
	ctx.println(okLine(fmt.Sprintf("Reset %s", plan.Name)))
	return nil
}
