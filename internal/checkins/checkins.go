// Package checkins records the morning check-in and kicks off planning.
package checkins

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/helpme/internal/energy"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/logger"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/storage"
	"github.com/julianstephens/helpme/internal/validation"
)

// PlanGenerator is satisfied by *planner.Planner.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, ownerID, planDate string) (models.DailyPlan, error)
}

type Service struct {
	store     storage.CheckInStore
	plans     PlanGenerator
	validator *validation.Validator
	now       func() time.Time
}

func New(store storage.CheckInStore, plans PlanGenerator) *Service {
	return &Service{store: store, plans: plans, validator: validation.New(), now: time.Now}
}

// Submitted is the outcome of Submit. The check-in is saved even when plan
// generation fails; PlanErr then carries the reason.
type Submitted struct {
	CheckIn models.CheckIn
	Plan    *models.DailyPlan
	PlanErr error
}

// Submit validates in, derives the energy budget, upserts the check-in and
// generates the day's plan.
func (s *Service) Submit(ctx context.Context, ownerID string, in validation.CheckInInput) (Submitted, error) {
	valid, res := s.validator.CheckIn(in)
	if err := res.Err(); err != nil {
		return Submitted{}, err
	}

	values := models.CheckInValues{
		RestQuality:  valid.RestQuality,
		Mood:         valid.Mood,
		EnergyBudget: energy.EstimateBudget(valid.RestQuality, valid.Mood),
		SleepNotes:   valid.SleepNotes,
	}

	now := s.now()
	var next models.CheckIn
	existing, err := s.store.GetCheckIn(ctx, ownerID, valid.Date)
	switch {
	case err == nil:
		next = existing.Revise(values, now)
	case errors.Is(err, storage.ErrNotFound):
		next = models.NewCheckIn(ownerID, valid.Date, values, now)
	default:
		return Submitted{}, apperrors.Database("failed to save check-in", err)
	}

	saved, err := s.store.UpsertCheckIn(ctx, next)
	if err != nil {
		return Submitted{}, apperrors.Database("failed to save check-in", err)
	}
	logger.Info("Check-in saved", "owner", ownerID, "date", saved.Date, "budget", saved.EnergyBudget)

	out := Submitted{CheckIn: saved}
	plan, err := s.plans.GeneratePlan(ctx, ownerID, saved.Date)
	if err != nil {
		logger.Warn("Plan generation after check-in failed", "owner", ownerID, "date", saved.Date, "error", err)
		out.PlanErr = err
		return out, nil
	}
	out.Plan = &plan
	return out, nil
}

// Get returns the check-in for (ownerID, date), or NOT_FOUND.
func (s *Service) Get(ctx context.Context, ownerID, date string) (models.CheckIn, error) {
	c, err := s.store.GetCheckIn(ctx, ownerID, date)
	if errors.Is(err, storage.ErrNotFound) {
		return models.CheckIn{}, apperrors.NotFound("no check-in for %s", date)
	}
	if err != nil {
		return models.CheckIn{}, apperrors.Database("failed to load check-in", err)
	}
	return c, nil
}
