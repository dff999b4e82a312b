package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/lectio/internal/backup"
	"github.com/julianstephens/lectio/internal/catalog"
	"github.com/julianstephens/lectio/internal/config"
	"github.com/julianstephens/lectio/internal/constants"
	errs "github.com/julianstephens/lectio/internal/errors"
	"github.com/julianstephens/lectio/internal/focus"
	"github.com/julianstephens/lectio/internal/logger"
	"github.com/julianstephens/lectio/internal/notes"
	"github.com/julianstephens/lectio/internal/progress"
	"github.com/julianstephens/lectio/internal/scheduler"
	"github.com/julianstephens/lectio/internal/storage"
	"github.com/julianstephens/lectio/internal/tracker"
	"github.com/julianstephens/lectio/internal/transfer"
)

var errFileStoreOnly = errors.New("backups are only available for file stores; use 'lectio export' with PostgreSQL")

// ConfirmFunc asks the user a yes/no question
type ConfirmFunc func(title, description string) (bool, error)

type Context struct {
	Config    config.Config
	Store     storage.Provider
	Progress  *progress.Store
	Notes     *notes.Store
	Focus     *focus.Store
	Catalog   *catalog.Catalog
	Scheduler *scheduler.Scheduler
	Tracker   *tracker.Tracker
	Transfer  *transfer.Service
	Out       io.Writer
	Confirm   ConfirmFunc
	clock     func() time.Time
}

type Option func(*Context)

// WithClock replaces time.Now for every store, for tests
func WithClock(clock func() time.Time) Option {
	return func(c *Context) { c.clock = clock }
}

// WithOutput redirects command output
func WithOutput(w io.Writer) Option {
	return func(c *Context) { c.Out = w }
}

// WithConfirm replaces the interactive confirmation prompt
func WithConfirm(fn ConfirmFunc) Option {
	return func(c *Context) { c.Confirm = fn }
}

// NewContext wires every store to one provider
func NewContext(cfg config.Config, store storage.Provider, opts ...Option) (*Context, error) {
	c := &Context{
		Config:    cfg,
		Store:     store,
		Scheduler: scheduler.New(),
		Out:       os.Stdout,
		Confirm:   huhConfirm,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	cat, err := catalog.New(store)
	if err != nil {
		return nil, err
	}
	c.Catalog = cat
	c.Progress = progress.NewStore(store, progress.WithClock(c.clock), progress.WithLocation(loc))
	c.Notes = notes.NewStore(store, notes.WithClock(c.clock))
	c.Focus = focus.NewStore(store)
	c.Tracker = tracker.New(c.Progress, c.Catalog, c.Scheduler)
	c.Transfer = transfer.New(c.Progress, c.Notes, c.Focus, c.Catalog)

	return c, nil
}

// Now is the current time in the configured timezone
func (c *Context) Now() time.Time {
	return c.Progress.Now()
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

func huhConfirm(title, description string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// confirmed returns true without asking when yes is set
func (c *Context) confirmed(yes bool, title, description string) (bool, error) {
	if yes {
		return true, nil
	}
	ok, err := c.Confirm(title, description)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func (c *Context) isFileStore() bool {
	return c.Config.Backend != constants.BackendPostgres
}

func (c *Context) backupManager() (*backup.Manager, error) {
	if !c.isFileStore() {
		return nil, errFileStoreOnly
	}
	return backup.NewManager(c.Store.GetConfigPath(),
		backup.WithKeep(c.Config.MaxBackups),
		backup.WithClock(c.clock),
		backup.WithBackupDir(c.Config.BackupDir),
	), nil
}

// PerformAutomaticBackup snapshots the store before a destructive command.
// Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup(reason string) {
	if !c.Config.AutoBackup || !c.isFileStore() {
		return
	}
	mgr, err := c.backupManager()
	if err != nil {
		return
	}
	path, err := mgr.CreateBackup()
	if err != nil {
		logger.Warn("Automatic backup failed", "reason", reason, "error", err)
		c.println(warnStyle.Render(errs.Warning(fmt.Errorf("automatic backup before %s failed: %w", reason, err))))
		return
	}
	logger.Debug("Automatic backup created", "reason", reason, "path", path)
}

func (c *Context) print(s string) {
	fmt.Fprint(c.Out, s)
}
