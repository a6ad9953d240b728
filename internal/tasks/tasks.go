// Package tasks holds the task use-cases the planner depends on: adding to
// the backlog, listing it, and completing a task with energy feedback.
package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/helpme/internal/energy"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/logger"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/storage"
	"github.com/julianstephens/helpme/internal/utils"
	"github.com/julianstephens/helpme/internal/validation"
)

type Store interface {
	storage.ProfileStore
	storage.TaskStore
	storage.CheckInStore
	storage.LedgerStore
}

type Service struct {
	store     Store
	ledger    *energy.Ledger
	validator *validation.Validator
	now       func() time.Time
}

func New(store Store) *Service {
	return &Service{
		store:     store,
		ledger:    energy.NewLedger(store),
		validator: validation.New(),
		now:       time.Now,
	}
}

// Add validates in and appends a pending task to the owner's backlog.
func (s *Service) Add(ctx context.Context, ownerID string, in validation.TaskInput) (models.Task, error) {
	loc := s.location(ctx, ownerID)
	valid, res := s.validator.Task(in, loc)
	if err := res.Err(); err != nil {
		return models.Task{}, err
	}

	task := models.NewTask(ownerID, valid.Title, valid.Intensity, valid.DueAt, valid.Tags, s.now())
	if err := s.store.AddTask(ctx, task); err != nil {
		return models.Task{}, apperrors.Database("failed to add task", err)
	}
	logger.Info("Task added", "owner", ownerID, "task", task.ID, "intensity", task.Intensity)
	return task, nil
}

// ListOpen returns every task that is not completed, oldest first.
func (s *Service) ListOpen(ctx context.Context, ownerID string) ([]models.Task, error) {
	tasks, err := s.store.ListOpenTasks(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Database("failed to list tasks", err)
	}
	return tasks, nil
}

// Completed is the outcome of Complete.
type Completed struct {
	Task             models.Task
	Deducted         int
	EnergyNotTracked bool
	Date             string
}

// Complete marks the task done and charges its energy cost against today's
// budget in the owner's time zone. Without a check-in for today the task is
// still completed but nothing is charged.
func (s *Service) Complete(ctx context.Context, ownerID, taskID string, capacityAfter models.Mood) (Completed, error) {
	if !capacityAfter.Valid() {
		return Completed{}, apperrors.Validation("invalid capacity state", errors.New(string(capacityAfter)))
	}

	task, err := s.store.GetTask(ctx, taskID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && task.OwnerID != ownerID) {
		return Completed{}, apperrors.NotFound("task %s not found", taskID)
	}
	if err != nil {
		return Completed{}, apperrors.Database("failed to load task", err)
	}
	if task.Status == models.TaskStatusCompleted {
		return Completed{}, apperrors.Validation("task is already completed", nil)
	}

	now := s.now()
	today := utils.DateIn(now, s.location(ctx, ownerID))

	recorded, err := s.ledger.RecordCompletion(ctx, energy.Completion{
		OwnerID:       ownerID,
		TaskID:        task.ID,
		Intensity:     task.Intensity,
		CapacityAfter: capacityAfter,
		Date:          today,
		At:            now,
	})
	if err != nil {
		return Completed{}, apperrors.Database("failed to record energy deduction", err)
	}

	done := task.WithStatus(models.TaskStatusCompleted, now)
	if err := s.store.SaveTask(ctx, done); err != nil {
		return Completed{}, apperrors.Database("failed to complete task", err)
	}
	logger.Info("Task completed", "owner", ownerID, "task", task.ID, "deducted", recorded.Amount, "tracked", recorded.Tracked)

	return Completed{
		Task:             done,
		Deducted:         recorded.Amount,
		EnergyNotTracked: !recorded.Tracked,
		Date:             today,
	}, nil
}

// Remaining reports the energy left for date.
func (s *Service) Remaining(ctx context.Context, ownerID, date string) (models.RemainingEnergy, error) {
	r, err := s.ledger.Remaining(ctx, ownerID, date)
	if err != nil {
		return models.RemainingEnergy{}, apperrors.Database("failed to compute remaining energy", err)
	}
	return r, nil
}

// Today is the current date in the owner's time zone.
func (s *Service) Today(ctx context.Context, ownerID string) string {
	return utils.DateIn(s.now(), s.location(ctx, ownerID))
}

func (s *Service) location(ctx context.Context, ownerID string) *time.Location {
	profile, err := s.store.GetProfile(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to load profile, using UTC", "owner", ownerID, "error", err)
		}
		return time.UTC
	}
	return utils.LocationOrUTC(profile.TimeZone)
}
