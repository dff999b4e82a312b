package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lectio/internal/notes"
	"github.com/julianstephens/lectio/internal/utils"
)

// resolveReading maps "today" to the active plan's reading id
func resolveReading(ctx *Context, id string) (string, error) {
	if id != "today" {
		return id, nil
	}
	st, err := ctx.Tracker.Status()
	if err != nil {
		return "", err
	}
	return st.Reading.ID, nil
}

type NoteSetCmd struct {
	Reading string   `arg:"" help:"Reading id, or 'today'."`
	Text    []string `arg:"" help:"Note text."`
}

func (cmd *NoteSetCmd) Run(ctx *Context) error {
	readingID, err := resolveReading(ctx, cmd.Reading)
	if err != nil {
		return err
	}
	if _, _, ok := ctx.Catalog.FindReading(readingID); !ok {
		ctx.println(warnLine(fmt.Sprintf("Reading %s is not in any known plan", readingID)))
	}

	note, err := ctx.Notes.Upsert(readingID, strings.Join(cmd.Text, " "))
	if err != nil {
		return err
	}
	ctx.println(okLine(fmt.Sprintf("Saved note %s", note.ID)))
	return nil
}

type NoteShowCmd struct {
	Reading string `arg:"" help:"Reading id, or 'today'."`
}

func (cmd *NoteShowCmd) Run(ctx *Context) error {
	readingID, err := resolveReading(ctx, cmd.Reading)
	if err != nil {
		return err
	}
	note, ok := ctx.Notes.GetForReading(readingID)
	if !ok {
		ctx.printf("No note for %s.\n", readingID)
		return nil
	}
	ctx.println(note.Content)
	ctx.println(mutedStyle.Render("Updated " + utils.FormatForDisplay(note.UpdatedAt, ctx.Progress.Location())))
	return nil
}

type NoteListCmd struct{}

func (cmd *NoteListCmd) Run(ctx *Context) error {
	list := ctx.Notes.List()
	if len(list) == 0 {
		ctx.println("No notes yet.")
		return nil
	}
	for _, n := range list {
		label := n.ReadingID
		if plan, r, ok := ctx.Catalog.FindReading(n.ReadingID); ok {
			label = fmt.Sprintf("%s day %d", plan.Name, r.Day)
		}
		ctx.printf("%s\n  %s\n", headingStyle.Render(label), n.Content)
	}
	return nil
}

type NoteDeleteCmd struct {
	Reading string `arg:"" help:"Reading id, or 'today'."`
}

func (cmd *NoteDeleteCmd) Run(ctx *Context) error {
	readingID, err := resolveReading(ctx, cmd.Reading)
	if err != nil {
		return err
	}
	note, ok := ctx.Notes.GetForReading(readingID)
	if !ok {
		return fmt.Errorf("%w for reading %s", notes.ErrNoteNotFound, readingID)
	}
	if err := ctx.Notes.Delete(note.ID); err != nil {
		return err
	}
	ctx.println(okLine("Note deleted"))
	return nil
}
