package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/lectio/internal/storage"
)

type InitCmd struct {
	Plan string `help:"Start this plan right away." placeholder:"PLAN-ID"`
}

func (cmd *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		if !errors.Is(err, storage.ErrAlreadyInitialized) {
			return err
		}
		ctx.printf("Storage already initialized at: %s\n", maskPassword(ctx.Store.GetConfigPath()))
		if err := ctx.Store.Load(); err != nil {
			return err
		}
	} else {
		ctx.printf("Initialized lectio storage at: %s\n", maskPassword(ctx.Store.GetConfigPath()))
	}

	if cmd.Plan == "" {
		ctx.println("Run 'lectio plans' to pick a reading plan, then 'lectio start <plan-id>'.")
		return nil
	}

	plan, err := ctx.Tracker.Start(cmd.Plan)
	if err != nil {
		return fmt.Errorf("failed to start plan: %w", err)
	}
	ctx.println(okLine(fmt.Sprintf("Started %s", plan.Name)))
	return nil
}
