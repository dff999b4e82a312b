package cli

import "errors"

type ClearCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

// Run deletes every stored key. Built-in plans are unaffected.
func (cmd *ClearCmd) Run(ctx *Context) error {
	ok, err := ctx.confirmed(cmd.Yes, "Clear all lectio data?",
		"Progress, notes, study focus and custom plans are deleted.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Clear cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup("clear")

	err = errors.Join(
		ctx.Progress.Clear(),
		ctx.Notes.Clear(),
		ctx.Focus.Clear(),
		ctx.Catalog.ClearCustom(),
	)
	if err != nil {
		return err
	}
	ctx.println(okLine("All data cleared"))
	return nil
}
