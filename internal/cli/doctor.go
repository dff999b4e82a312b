package cli

import (
	"errors"
	"fmt"
	"time"

	errs "github.com/julianstephens/lectio/internal/errors"
	"github.com/julianstephens/lectio/internal/progress"
	"github.com/julianstephens/lectio/internal/storage"
	"github.com/julianstephens/lectio/internal/validation"
)

var errHealthCheckFailed = errors.New("one or more health checks failed")

type DoctorCmd struct {
	Fix bool `help:"Recompute streaks and totals from history and recreate a missing active entry."`
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	check := func(name string, err error) bool {
		if err != nil {
			ctx.println(failLine(name + ": FAIL"))
			ctx.printf("   Error: %v\n", err)
			hasError = true
			return false
		}
		ctx.println(okLine(name + ": OK"))
		return true
	}

	reachable := check("Store reachable", checkStoreReachable(ctx))
	check("Schema version", checkSchemaVersion(ctx))

	if ctx.isFileStore() {
		if err := checkBackupsPresent(ctx); err != nil {
			ctx.println(warnLine("Backups present: WARNING"))
			ctx.println("   " + errs.Warning(err))
		} else {
			ctx.println(okLine("Backups present: OK"))
		}
	}

	if reachable {
		check("Progress record", cmd.checkProgress(ctx))
		check("Custom plans", checkCustomPlans(ctx))
	} else {
		ctx.println("⊘ Data validation: SKIPPED (store not reachable)")
	}

	check("Clock/timezone", checkClockTimezone(ctx))

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return errHealthCheckFailed
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to read keys: %w", err)
	}
	if s, ok := ctx.Store.(*storage.SQLiteStore); ok {
		var result int
		if err := s.GetDB().QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("schema version %d is newer than supported version %d", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: at %d of %d, run 'lectio migrate'", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found, consider creating one with 'lectio backup create'")
	}
	return nil
}

// fixable conflicts are the ones --fix can rewrite
var fixable = map[validation.ConflictType]bool{
	validation.ConflictStreakMismatch:      true,
	validation.ConflictLongestBelowCurrent: true,
	validation.ConflictTotalMismatch:       true,
	validation.ConflictMissingCurrentEntry: true,
}

func (cmd *DoctorCmd) checkProgress(ctx *Context) error {
	p, migrated, err := ctx.Progress.LoadStrict()
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	now := ctx.Now()

	if migrated {
		if !cmd.Fix {
			return errors.New("progress is in the single-plan format, run 'lectio migrate' or 'lectio doctor --fix'")
		}
		ctx.println(mutedStyle.Render("   Upgraded single-plan progress record"))
	}

	result := validation.New().ValidateProgress(p, ctx.Catalog, now)
	var broken []string
	for _, c := range result.Conflicts {
		if !fixable[c.Type] {
			ctx.println(warnLine(c.Description))
			continue
		}
		broken = append(broken, c.Description)
	}

	if !cmd.Fix {
		if len(broken) > 0 {
			for _, msg := range broken {
				ctx.printf("   - %s\n", msg)
			}
			return fmt.Errorf("%d problem(s) found, run 'lectio doctor --fix'", len(broken))
		}
		return nil
	}

	if !migrated && len(broken) == 0 {
		return nil
	}
	ctx.PerformAutomaticBackup("doctor fix")
	next, changed := progress.Repair(p, now)
	next, _ = progress.EnsureCurrent(next, now)
	if err := ctx.Progress.Save(next); err != nil {
		return err
	}
	for _, id := range changed {
		ctx.printf("   Repaired %s\n", id)
	}
	return nil
}

func checkCustomPlans(ctx *Context) error {
	v := validation.New()
	bad := 0
	for _, plan := range ctx.Catalog.Custom() {
		result := v.ValidatePlan(plan)
		if !result.HasConflicts() {
			continue
		}
		bad++
		ctx.printf("   %s:\n", plan.ID)
		for _, msg := range result.Messages() {
			ctx.printf("   - %s\n", msg)
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d custom plan(s) are invalid", bad)
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	loc, err := ctx.Config.Location()
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", ctx.Config.Timezone, err)
	}
	now := ctx.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	ctx.println(mutedStyle.Render(fmt.Sprintf("   %s (%s)", now.Format("2006-01-02 15:04"), loc)))
	return nil
}
