package cli

import (
	"fmt"

	"github.com/julianstephens/lectio/internal/storage"
)

type MigrateCmd struct{}

func (cmd *MigrateCmd) Run(ctx *Context) error {
	if m, ok := ctx.Store.(storage.Migrator); ok {
		n, err := m.Migrate(func(msg string) {
			ctx.println("  " + msg)
		})
		if err != nil {
			return fmt.Errorf("schema migration failed: %w", err)
		}
		if n == 0 {
			ctx.println(okLine("Schema is up to date"))
		} else {
			ctx.println(okLine(fmt.Sprintf("Applied %d schema migration(s)", n)))
		}
	}

	p, migrated, err := ctx.Progress.LoadStrict()
	if err != nil {
		return fmt.Errorf("progress could not be read: %w", err)
	}
	if !migrated {
		ctx.println(okLine("Progress record is current"))
		return nil
	}

	ctx.PerformAutomaticBackup("migrate")
	if err := ctx.Progress.Save(p); err != nil {
		return err
	}
	ctx.println(okLine(fmt.Sprintf("Upgraded single-plan progress for %s", p.CurrentPlanID)))
	return nil
}
