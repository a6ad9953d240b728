package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/helpme/internal/backup"
	"github.com/julianstephens/helpme/internal/cli"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/storage"
	"github.com/julianstephens/helpme/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name     string
	needsDB  bool
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Profile present", needsDB: true, warnOnly: true, run: checkProfile},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Model provider", warnOnly: true, run: checkModel},
	{name: "Today's plan", needsDB: true, run: checkTodaysPlan},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	w := ctx.Writer()
	fmt.Fprintln(w, "Running diagnostics...")
	fmt.Fprintln(w)

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Fprintf(w, "❌ Database reachable: FAIL\n")
		fmt.Fprintf(w, "   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Fprintf(w, "✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Fprintf(w, "⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Fprintf(w, "✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Fprintf(w, "⚠ %s: WARNING\n", c.name)
			fmt.Fprintf(w, "   %v\n", err)
		default:
			fmt.Fprintf(w, "❌ %s: FAIL\n", c.name)
			fmt.Fprintf(w, "   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Fprintln(w)
	if hasError {
		fmt.Fprintln(w, "Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Fprintln(w, "All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetProfile(ctx.Ctx, ctx.OwnerID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func schemaVersion(ctx *cli.Context) (int, int, error) {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return 0, 0, fmt.Errorf("storage provider does not report a schema version")
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return current, latest, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := schemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := schemaVersion(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d, run 'helpme migrate'", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'helpme backup create'")
	}
	return nil
}

func checkProfile(ctx *cli.Context) error {
	_, err := ctx.Profiles().Get(ctx.Ctx, ctx.OwnerID)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		return fmt.Errorf("no profile for owner %s, plans will be heuristic until one exists", ctx.OwnerID)
	}
	return err
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := utils.LoadLocation(ctx.Config.DefaultTimezone); err != nil {
		return fmt.Errorf("default time zone %q cannot be loaded: %w", ctx.Config.DefaultTimezone, err)
	}
	if p, err := ctx.Store.GetProfile(ctx.Ctx, ctx.OwnerID); err == nil {
		if _, err := utils.LoadLocation(p.TimeZone); err != nil {
			return fmt.Errorf("profile time zone %q cannot be loaded, UTC is used instead", p.TimeZone)
		}
	}
	return nil
}

func checkModel(ctx *cli.Context) error {
	if ctx.Model != nil {
		return nil
	}
	return fmt.Errorf("no model provider configured (provider %q); plans use the heuristic ranking and summaries are unavailable",
		ctx.Config.Model.Provider)
}

func checkTodaysPlan(ctx *cli.Context) error {
	res, found, err := validatePlan(ctx, ctx.Today())
	if err != nil || !found {
		return err
	}
	if res.HasProblems() {
		return fmt.Errorf("%s", res.FormatReport())
	}
	return nil
}
