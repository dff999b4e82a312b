package cli

import "github.com/julianstephens/lectio/internal/tui"

type TuiCmd struct{}

func (cmd *TuiCmd) Run(ctx *Context) error {
	return tui.Run(ctx.Tracker, ctx.Catalog, ctx.Notes)
}
