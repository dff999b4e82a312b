package main

import (
	stderrors "errors"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/lectio/internal/cli"
	"github.com/julianstephens/lectio/internal/config"
	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/errors"
	"github.com/julianstephens/lectio/internal/logger"
	"github.com/julianstephens/lectio/internal/migration"
	"github.com/julianstephens/lectio/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path"`
	Store   string `help:"Store location: a .db or .json file, or a password-less postgres:// URL."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init  cli.InitCmd  `cmd:"" help:"Initialize lectio storage."`
	Tui   cli.TuiCmd   `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Plans cli.PlansCmd `cmd:"" help:"List reading plans."`
	Plan  struct {
		Show cli.PlanShowCmd `cmd:"" help:"Show a plan's readings."`
	} `cmd:"" help:"Inspect a reading plan."`
	Start    cli.StartCmd    `cmd:"" help:"Make a plan the active plan."`
	Today    cli.TodayCmd    `cmd:"" help:"Show today's reading."`
	Complete cli.CompleteCmd `cmd:"" help:"Mark a reading complete."`
	Progress cli.ProgressCmd `cmd:"" help:"Show progress for the active plan."`
	Streak   cli.StreakCmd   `cmd:"" help:"Show the reading streak."`
	Reset    cli.ResetCmd    `cmd:"" help:"Reset a plan's progress."`
	Note     struct {
		Set    cli.NoteSetCmd    `cmd:"" help:"Write the note for a reading."`
		Show   cli.NoteShowCmd   `cmd:"" help:"Show the note for a reading."`
		List   cli.NoteListCmd   `cmd:"" help:"List all notes."`
		Delete cli.NoteDeleteCmd `cmd:"" help:"Delete the note for a reading."`
	} `cmd:"" help:"Manage reading notes."`
	Focus struct {
		Show   cli.FocusShowCmd   `cmd:"" help:"Show study focus tags." default:"1"`
		Add    cli.FocusAddCmd    `cmd:"" help:"Add study focus tags."`
		Remove cli.FocusRemoveCmd `cmd:"" help:"Remove study focus tags."`
	} `cmd:"" help:"Manage study focus."`
	Custom struct {
		Create     cli.CustomCreateCmd     `cmd:"" help:"Create a plan from explicit daily passages."`
		Sequential cli.CustomSequentialCmd `cmd:"" help:"Create a chapter-a-day plan for one book."`
		List       cli.CustomListCmd       `cmd:"" help:"List custom plans."`
		Delete     cli.CustomDeleteCmd     `cmd:"" help:"Delete a custom plan with its progress and notes."`
	} `cmd:"" help:"Manage custom plans."`
	Export cli.ExportCmd `cmd:"" help:"Export all data to a JSON or YAML bundle."`
	Import cli.ImportCmd `cmd:"" help:"Import a bundle written by export."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Migrate     cli.MigrateCmd  `cmd:"" help:"Run schema migrations and upgrade old progress records."`
	Doctor      cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate    cli.ValidateCmd `cmd:"" help:"Validate plans and stored progress."`
	Clear       cli.ClearCmd    `cmd:"" help:"Delete all stored data."`
	Credentials struct {
		Set    cli.CredentialsSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Delete cli.CredentialsDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status cli.CredentialsStatusCmd `cmd:"" help:"Check the OS keyring." default:"1"`
	} `cmd:"" help:"Manage PostgreSQL credentials."`
	Debugging struct {
		DBPath  cli.DebugDBPathCmd  `cmd:"" name:"db-path" help:"Print the store location."`
		Keys    cli.DebugKeysCmd    `cmd:"" help:"List stored keys."`
		DumpKey cli.DebugDumpKeyCmd `cmd:"" name:"dump-key" help:"Print the raw value of a key."`
		History cli.DebugHistoryCmd `cmd:"" help:"Print previous values of a key."`
	} `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

// noLoad lists commands that run before the store exists or never touch it
var noLoad = map[string]bool{
	"init":        true,
	"credentials": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily Bible reading plans with progress, streaks and notes"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(config.Overrides{
		ConfigPath: CLI.Config,
		Store:      CLI.Store,
		Debug:      CLI.Debug,
	})
	if err != nil {
		errors.Fatal(errors.WithHint(err, "check the config file and LECTIO_* environment variables"))
	}
	if err := cfg.Validate(); err != nil {
		errors.Fatal(errors.WithHint(err, "check "+cfg.ConfigPath+" and LECTIO_* environment variables"))
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := cli.NewProvider(cfg)
	if err != nil {
		errors.Fatal(err)
	}

	if !noLoad[strings.Fields(ctx.Command())[0]] {
		if err := store.Load(); err != nil {
			errors.Fatal(withLoadHint(err))
		}
	}
	defer store.Close()

	appCtx, err := cli.NewContext(cfg, store)
	if err != nil {
		errors.Fatal(err)
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

func withLoadHint(err error) error {
	switch {
	case stderrors.Is(err, storage.ErrNotInitialized):
		return errors.WithHint(err, "run 'lectio init' first")
	case stderrors.Is(err, migration.ErrSchemaTooNew):
		return errors.WithHint(err, "upgrade lectio or restore an older backup")
	default:
		return err
	}
}
