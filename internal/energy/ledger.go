package energy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/storage"
)

// Store is what the ledger needs from persistence.
type Store interface {
	storage.CheckInStore
	storage.LedgerStore
}

type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Completion describes a finished task as seen by the ledger.
type Completion struct {
	OwnerID       string
	TaskID        string
	Intensity     models.Intensity
	CapacityAfter models.Mood
	Date          string // YYYY-MM-DD in the owner's timezone
	At            time.Time
}

// Recorded reports what RecordCompletion did. Tracked is false when the
// owner had no check-in for the date, in which case nothing was written.
type Recorded struct {
	Tracked bool
	Amount  int
	Event   *models.EnergyDeductionEvent
}

// RecordCompletion appends a deduction event for c when a check-in exists
// for c.Date. A missing check-in is not an error.
func (l *Ledger) RecordCompletion(ctx context.Context, c Completion) (Recorded, error) {
	if _, err := l.store.GetCheckIn(ctx, c.OwnerID, c.Date); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Recorded{}, nil
		}
		return Recorded{}, fmt.Errorf("failed to load check-in: %w", err)
	}

	event := models.EnergyDeductionEvent{
		ID:                    models.NewID(),
		OwnerID:               c.OwnerID,
		PlanDate:              c.Date,
		TaskID:                c.TaskID,
		CapacityStateAfter:    c.CapacityAfter,
		DeductedAmount:        DeductionFor(c.Intensity, c.CapacityAfter),
		TaskIntensitySnapshot: c.Intensity,
		CreatedAt:             c.At,
	}
	if err := l.store.AppendDeduction(ctx, event); err != nil {
		return Recorded{}, err
	}
	return Recorded{Tracked: true, Amount: event.DeductedAmount, Event: &event}, nil
}

// Remaining derives the energy left for a date. Without a check-in every
// field is zero.
func (l *Ledger) Remaining(ctx context.Context, ownerID, date string) (models.RemainingEnergy, error) {
	checkIn, err := l.store.GetCheckIn(ctx, ownerID, date)
	if errors.Is(err, storage.ErrNotFound) {
		return models.RemainingEnergy{}, nil
	}
	if err != nil {
		return models.RemainingEnergy{}, fmt.Errorf("failed to load check-in: %w", err)
	}

	spent, err := l.store.SumDeductions(ctx, ownerID, date)
	if err != nil {
		return models.RemainingEnergy{}, err
	}
	return Balance(checkIn.EnergyBudget, spent), nil
}

// Balance clamps remaining energy at zero.
func Balance(budget, spent int) models.RemainingEnergy {
	return models.RemainingEnergy{
		EnergyBudget:  budget,
		TotalDeducted: spent,
		Remaining:     max(0, budget-spent),
	}
}
