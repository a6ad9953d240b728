// Package profiles manages the owner context handed to the planning model.
package profiles

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/helpme/internal/constants"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/logger"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/storage"
	"github.com/julianstephens/helpme/internal/validation"
)

type Service struct {
	store     storage.ProfileStore
	validator *validation.Validator
	now       func() time.Time
}

func New(store storage.ProfileStore) *Service {
	return &Service{store: store, validator: validation.New(), now: time.Now}
}

func (s *Service) Get(ctx context.Context, ownerID string) (models.UserProfile, error) {
	p, err := s.store.GetProfile(ctx, ownerID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.UserProfile{}, apperrors.NotFound("no profile for owner %s, run 'helpme profile set'", ownerID)
	}
	if err != nil {
		return models.UserProfile{}, apperrors.Database("failed to load profile", err)
	}
	return p, nil
}

// Set creates or revises the profile whose id is ownerID.
func (s *Service) Set(ctx context.Context, ownerID string, in validation.ProfileInput) (models.UserProfile, error) {
	values, res := s.validator.Profile(in)
	if err := res.Err(); err != nil {
		return models.UserProfile{}, err
	}
	return s.save(ctx, ownerID, values)
}

// EnsureDefault creates a placeholder profile for ownerID when none exists.
// The bool reports whether one was created.
func (s *Service) EnsureDefault(ctx context.Context, ownerID, timeZone string) (models.UserProfile, bool, error) {
	p, err := s.store.GetProfile(ctx, ownerID)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.UserProfile{}, false, apperrors.Database("failed to load profile", err)
	}

	p, err = s.Set(ctx, ownerID, validation.ProfileInput{
		DisplayName:  "Default User",
		Role:         "User",
		WorkingStart: constants.DefaultWorkingStart,
		WorkingEnd:   constants.DefaultWorkingEnd,
		FocusPeriod:  string(models.FocusMorning),
		TimeZone:     timeZone,
	})
	if err != nil {
		return models.UserProfile{}, false, err
	}
	return p, true, nil
}

func (s *Service) save(ctx context.Context, ownerID string, values models.ProfileValues) (models.UserProfile, error) {
	now := s.now()
	var next models.UserProfile

	existing, err := s.store.GetProfile(ctx, ownerID)
	switch {
	case err == nil:
		next = existing.Revise(values, now)
	case errors.Is(err, storage.ErrNotFound):
		next = models.NewUserProfile(values, now)
		next.ID = ownerID
	default:
		return models.UserProfile{}, apperrors.Database("failed to load profile", err)
	}

	if err := s.store.SaveProfile(ctx, next); err != nil {
		return models.UserProfile{}, apperrors.Database("failed to save profile", err)
	}
	logger.Info("Profile saved", "owner", ownerID)
	return next, nil
}
