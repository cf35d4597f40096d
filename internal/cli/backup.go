package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/streakwars/internal/backup"
	"github.com/julianstephens/streakwars/internal/constants"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
}

func (c *Context) backupManager() (*backup.Manager, error) {
	if c.Config.Store != constants.StoreSQLite {
		return nil, fmt.Errorf("backups are only supported for the sqlite store (current: %s)", c.Config.Store)
	}
	return backup.NewManager(c.Config.SQLitePath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	// Flush and create the schema so the copy reflects saved state.
	if game, err := ctx.Game(); err != nil {
		return err
	} else if err := game.Flush(ctx.Context()); err != nil {
		return err
	}

	path, err := mgr.Create(ctx.Context())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.printf("✓ Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		ctx.printf("  %s  %s  (%s)\n", b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), humanize.Bytes(uint64(b.Size)))
	}
	ctx.printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}

	path := c.BackupFile
	if !filepath.IsAbs(path) {
		if candidate := filepath.Join(mgr.Dir(), path); fileExists(candidate) {
			path = candidate
		}
	}
	if !fileExists(path) {
		return fmt.Errorf("backup file not found: %s", path)
	}

	if !c.Yes {
		ctx.println(warnStyle.Render("⚠️  This will replace your current game data with the backup."))
		ctx.println("A backup of the current database is created first.")
		ctx.printf("\nRestore from: %s\n", filepath.Base(path))
		ctx.printf("Continue? [y/N]: ")
		// EOF without an answer counts as no.
		answer, _ := bufio.NewReader(ctx.In).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	// Hold the lock but release every connection to the database file.
	if _, err := ctx.Backend(); err != nil {
		return err
	}
	if ctx.game != nil {
		if err := ctx.game.Close(ctx.Context()); err != nil {
			return err
		}
		ctx.game = nil
	}
	if err := ctx.store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	ctx.store = nil

	safety, err := mgr.Restore(ctx.Context(), path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if safety != "" {
		ctx.printf("Saved the replaced database as %s\n", filepath.Base(safety))
	}
	ctx.println("✓ Game data restored")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
