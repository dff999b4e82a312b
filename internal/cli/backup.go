package cli

import (
	"errors"
	"fmt"
	"path/filepath"
)

type BackupCreateCmd struct{}

func (cmd *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	path, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	ctx.println(okLine("Backup created: " + path))
	return nil
}

type BackupListCmd struct{}

func (cmd *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		ctx.println("No backups found.")
		return nil
	}

	ctx.printf("Backups in %s:\n", mgr.GetBackupDir())
	for _, b := range backups {
		ctx.printf("  %s  %s  %s\n", b.Timestamp.In(ctx.Progress.Location()).Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path), mutedStyle.Render(formatSize(b.Size)))
	}
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" optional:"" help:"Backup file to restore. Defaults to the newest backup."`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (cmd *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}

	path := cmd.File
	if path == "" {
		backups, err := mgr.ListBackups()
		if err != nil {
			return fmt.Errorf("failed to list backups: %w", err)
		}
		if len(backups) == 0 {
			return errors.New("no backups to restore")
		}
		path = backups[0].Path
	} else if filepath.Dir(path) == "." {
		path = filepath.Join(mgr.GetBackupDir(), path)
	}

	ok, err := ctx.confirmed(cmd.Yes, "Restore "+filepath.Base(path)+"?",
		"The current store is backed up first, then replaced.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.println("Restore cancelled.")
		return nil
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	previous, restoreErr := mgr.RestoreBackup(path)
	if err := ctx.Store.Load(); err != nil {
		return errors.Join(restoreErr, fmt.Errorf("failed to reopen store: %w", err))
	}
	if restoreErr != nil {
		return restoreErr
	}

	ctx.println(okLine("Restored " + filepath.Base(path)))
	if previous != "" {
		ctx.println(mutedStyle.Render("Previous data saved to " + previous))
	}
	return nil
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
