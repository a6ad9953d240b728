package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/helpme/internal/backup"
	"github.com/julianstephens/helpme/internal/checkins"
	"github.com/julianstephens/helpme/internal/completion"
	"github.com/julianstephens/helpme/internal/config"
	"github.com/julianstephens/helpme/internal/logger"
	"github.com/julianstephens/helpme/internal/planner"
	"github.com/julianstephens/helpme/internal/prioritizer"
	"github.com/julianstephens/helpme/internal/profiles"
	"github.com/julianstephens/helpme/internal/reflection"
	"github.com/julianstephens/helpme/internal/storage"
	"github.com/julianstephens/helpme/internal/storage/sqlite"
	"github.com/julianstephens/helpme/internal/tasks"
	"github.com/julianstephens/helpme/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Ctx     context.Context
	Store   storage.Provider
	Config  *config.Config
	OwnerID string
	// Model is nil when no provider is configured.
	Model completion.Client
	Out   io.Writer
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// IsSQLite reports whether the store is the single-file provider, the only
// one that supports backups.
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

func (c *Context) Planner() *planner.Planner {
	// A nil interface, not a typed nil, keeps the planner on its heuristic path.
	var ranker planner.ModelRanker
	if c.Model != nil {
		ranker = prioritizer.New(c.Model)
	}
	return planner.New(c.Store, ranker)
}

func (c *Context) CheckIns() *checkins.Service {
	return checkins.New(c.Store, c.Planner())
}

func (c *Context) Tasks() *tasks.Service {
	return tasks.New(c.Store)
}

func (c *Context) Profiles() *profiles.Service {
	return profiles.New(c.Store)
}

func (c *Context) Reflection() *reflection.Service {
	return reflection.New(c.Store, c.Model)
}

// Today is the current date in the owner's profile time zone.
func (c *Context) Today() string {
	return c.Tasks().Today(c.Ctx, c.OwnerID)
}

// ResolveDate returns date, or today when it is empty.
func (c *Context) ResolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return c.Today(), nil
	}
	if !utils.ValidateDateFormat(date) {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return date, nil
}

func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
