package cli

import (
	"strings"

	"github.com/julianstephens/lectio/internal/focus"
)

type FocusShowCmd struct{}

func (cmd *FocusShowCmd) Run(ctx *Context) error {
	f := ctx.Focus.Load()
	if len(f.Tags) == 0 && len(f.CustomTags) == 0 {
		ctx.println("No study focus set.")
		return nil
	}
	if len(f.Tags) > 0 {
		ctx.println("Tags:        " + strings.Join(f.Tags, ", "))
	}
	if len(f.CustomTags) > 0 {
		ctx.println("Custom tags: " + strings.Join(f.CustomTags, ", "))
	}
	return nil
}

type FocusAddCmd struct {
	Tags   []string `arg:"" help:"Tags to add."`
	Custom bool     `help:"Add as custom tags."`
}

func (cmd *FocusAddCmd) Run(ctx *Context) error {
	if err := ctx.Focus.Save(focus.AddTags(ctx.Focus.Load(), cmd.Custom, cmd.Tags...)); err != nil {
		return err
	}
	ctx.println(okLine("Study focus updated"))
	return nil
}

type FocusRemoveCmd struct {
	Tags []string `arg:"" help:"Tags to remove."`
}

func (cmd *FocusRemoveCmd) Run(ctx *Context) error {
	if err := ctx.Focus.Save(focus.RemoveTags(ctx.Focus.Load(), cmd.Tags...)); err != nil {
		return err
	}
	ctx.println(okLine("Study focus updated"))
	return nil
}
