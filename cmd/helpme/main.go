package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	_ "time/tzdata"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/helpme/internal/cli"
	"github.com/julianstephens/helpme/internal/cli/backups"
	"github.com/julianstephens/helpme/internal/cli/plans"
	"github.com/julianstephens/helpme/internal/cli/review"
	"github.com/julianstephens/helpme/internal/cli/settings"
	"github.com/julianstephens/helpme/internal/cli/system"
	"github.com/julianstephens/helpme/internal/cli/tasks"
	"github.com/julianstephens/helpme/internal/completion"
	"github.com/julianstephens/helpme/internal/config"
	"github.com/julianstephens/helpme/internal/constants"
	"github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/keyring"
	"github.com/julianstephens/helpme/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite database path or PostgreSQL connection string. Defaults to the settings file, then the OS keyring, then ${default_db}. Credentials must NOT be embedded in a connection string given here." type:"string"`
	Settings string `help:"YAML settings file." type:"string" default:"${default_settings}"`
	Owner    string `help:"Owner id whose data is read and written."`
	Debug    bool   `help:"Log debug output to stderr."`

	Init         system.InitCmd        `cmd:"" help:"Initialize helpme storage and a default profile."`
	Migrate      system.MigrateCmd     `cmd:"" help:"Run database migrations."`
	Doctor       system.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Validate     system.ValidateCmd    `cmd:"" help:"Check a stored plan for consistency."`
	Checkin      plans.CheckInCmd      `cmd:"" help:"Record the morning check-in and plan the day."`
	Plan         plans.PlanCmd         `cmd:"" help:"Show the plan for a day."`
	Reprioritize plans.ReprioritizeCmd `cmd:"" help:"Regenerate the plan for a day."`
	Today        plans.TodayCmd        `cmd:"" help:"Open the interactive dashboard for today."`
	Complete     tasks.CompleteCmd     `cmd:"" help:"Complete a task and log its energy cost."`
	Energy       tasks.EnergyCmd       `cmd:"" help:"Show remaining energy for a day."`
	Summary      review.SummaryCmd     `cmd:"" help:"Write the evening summary for a day."`
	Trends       review.TrendsCmd      `cmd:"" help:"Show recent days and a success insight."`
	Task         struct {
		Add  tasks.TaskAddCmd  `cmd:"" help:"Add a new task."`
		List tasks.TaskListCmd `cmd:"" help:"List open tasks."`
	} `cmd:"" help:"Manage tasks."`
	Profile struct {
		Show settings.ProfileShowCmd `cmd:"" help:"Show your profile." default:"1"`
		Set  settings.ProfileSetCmd  `cmd:"" help:"Create or update your profile."`
	} `cmd:"" help:"Manage the profile used as planning context."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		SetConnection system.KeyringSetConnectionCmd `cmd:"" name:"set-connection" help:"Store a PostgreSQL connection string."`
		SetAPIKey     system.KeyringSetAPIKeyCmd     `cmd:"" name:"set-api-key" help:"Store the model provider API key."`
		Delete        system.KeyringDeleteCmd        `cmd:"" help:"Delete stored credentials."`
		Status        system.KeyringStatusCmd        `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Energy-aware daily planner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":          constants.Version,
			"default_db":       constants.DefaultConfigPath,
			"default_settings": constants.DefaultSettingsPath,
		},
	)

	settingsPath := cli.ExpandHome(CLI.Settings)
	cfg, err := config.Load(settingsPath)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(settingsPath),
		Level:     cfg.LogLevel,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	owner := firstNonEmpty(CLI.Owner, cfg.OwnerID, constants.DefaultOwnerID)
	command := ctx.Command()
	needsStore := cli.NeedsStore(command)

	store, source, err := cli.StoreFor(command, CLI.Config, cfg, keyring.GetConnectionString)
	if err != nil {
		errors.Fatal(err)
	}
	if needsStore {
		logger.Debug("Resolved storage", "source", source)
	}

	cli.ResolveAPIKey(&cfg.Model, keyring.GetModelAPIKey)
	var model completion.Client
	if needsStore {
		// Built once and shared by every service of this run.
		model, err = completion.New(cfg.Model)
		if err != nil {
			logger.Warn("Model provider unavailable, using heuristic planning", "provider", cfg.Model.Provider, "error", err)
		}
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	appCtx := &cli.Context{
		Ctx:     runCtx,
		Store:   store,
		Config:  cfg,
		OwnerID: owner,
		Model:   model,
	}

	// Load the store before running the command (Init command will handle its own loading)
	if needsStore && !strings.HasPrefix(command, "init") {
		if err := store.Load(); err != nil {
			stop()
			errors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if store != nil {
		store.Close()
	}
	stop()
	if err != nil {
		errors.Fatal(err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
