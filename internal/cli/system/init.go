package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/helpme/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing SQLite database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	w := ctx.Writer()
	dbPath := ctx.Store.GetConfigPath()

	if ctx.IsSQLite() {
		if _, err := os.Stat(dbPath); err == nil {
			if c.Force {
				if err := ctx.Store.Close(); err != nil {
					return fmt.Errorf("failed to close existing database: %w", err)
				}
				if err := os.Remove(dbPath); err != nil {
					return fmt.Errorf("failed to delete existing database: %w", err)
				}
				fmt.Fprintf(w, "Deleted existing database at: %s\n", dbPath)
			} else {
				// Snapshot before any pending migration touches the file.
				ctx.PerformAutomaticBackup()
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Initialized helpme storage at: %s\n", dbPath)

	profile, created, err := ctx.Profiles().EnsureDefault(ctx.Ctx, ctx.OwnerID, ctx.Config.DefaultTimezone)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(w, "Created profile %q for owner %s (time zone %s)\n", profile.DisplayName, ctx.OwnerID, profile.TimeZone)
		fmt.Fprintln(w, "Personalize it with 'helpme profile set'.")
	}
	return nil
}
