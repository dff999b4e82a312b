package cli

import (
	"fmt"

	"github.com/julianstephens/lectio/internal/transfer"
)

type ExportCmd struct {
	File string `arg:"" type:"path" help:"Destination file. A .yaml or .yml extension writes YAML."`
}

func (cmd *ExportCmd) Run(ctx *Context) error {
	bundle, err := ctx.Transfer.Export(ctx.Now())
	if err != nil {
		return err
	}
	if err := transfer.WriteFile(cmd.File, bundle); err != nil {
		return err
	}
	ctx.println(okLine(fmt.Sprintf("Exported %d note(s) and %d custom plan(s) to %s",
		len(bundle.Notes), len(bundle.CustomPlans), cmd.File)))
	return nil
}

type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"Bundle written by 'lectio export'."`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (cmd *ImportCmd) Run(ctx *Context) error {
	bundle, err := transfer.ReadFile(cmd.File)
	if err != nil {
		return err
	}

	ok, err := ctx.confirmed(cmd.Yes, "Import "+cmd.File+"?",
		"Data present in the bundle replaces what is stored now.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Import cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup("import")

	report, err := ctx.Transfer.Import(bundle)
	if report.Notes > 0 {
		ctx.println(okLine(fmt.Sprintf("Imported %d note(s)", report.Notes)))
	}
	if report.StudyFocus {
		ctx.println(okLine("Imported study focus"))
	}
	if report.CustomPlans > 0 {
		ctx.println(okLine(fmt.Sprintf("Imported %d custom plan(s)", report.CustomPlans)))
	}
	if report.Progress {
		msg := "Imported progress"
		if report.MigratedProgress {
			msg += " (upgraded from the single-plan format)"
		}
		ctx.println(okLine(msg))
	}
	return err
}
