package system

import (
	"fmt"

	"github.com/julianstephens/helpme/internal/cli"
)

// migrator is implemented by both storage providers.
type migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("storage provider does not support migrations")
	}
	w := ctx.Writer()

	ctx.PerformAutomaticBackup()

	count, err := m.Migrate(func(msg string) {
		fmt.Fprintln(w, msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Fprintln(w, "No migrations to apply. Database is up to date.")
	} else {
		fmt.Fprintf(w, "\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
