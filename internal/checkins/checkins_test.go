package checkins

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/helpme/internal/constants"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/planner"
	"github.com/julianstephens/helpme/internal/storage/sqlite/sqlitetest"
	"github.com/julianstephens/helpme/internal/validation"
)

const testOwner = "owner-1"

type failingPlans struct{}

func (failingPlans) GeneratePlan(context.Context, string, string) (models.DailyPlan, error) {
	return models.DailyPlan{}, apperrors.Database("failed to generate daily plan", errors.New("disk full"))
}

func TestSubmitCreatesCheckInAndPlan(t *testing.T) {
	store := sqlitetest.Open(t)
	svc := New(store, planner.New(store, nil))
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 7, 0, 0, 0, time.UTC) }

	got, err := svc.Submit(context.Background(), testOwner, validation.CheckInInput{Date: "2026-10-18", RestQuality: 10, Mood: "Fresh", SleepNotes: "great"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got.CheckIn.EnergyBudget != 110 {
		t.Errorf("budget = %d, want 110", got.CheckIn.EnergyBudget)
	}
	if got.PlanErr != nil || got.Plan == nil {
		t.Fatalf("plan = %v err = %v", got.Plan, got.PlanErr)
	}
	if !got.Plan.Empty() || got.Plan.EnergyBudget != 110 || got.Plan.AlgorithmVersion != constants.AlgorithmVersionHeuristic {
		t.Errorf("plan = %+v", got.Plan)
	}

	stored, err := svc.Get(context.Background(), testOwner, "2026-10-18")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.ID != got.CheckIn.ID || stored.SleepNotes == nil || *stored.SleepNotes != "great" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestResubmitRevisesInPlace(t *testing.T) {
	store := sqlitetest.Open(t)
	svc := New(store, planner.New(store, nil))
	ctx := context.Background()

	first, err := svc.Submit(ctx, testOwner, validation.CheckInInput{Date: "2026-10-18", RestQuality: 1, Mood: "Taxed", SleepNotes: "bad"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if first.CheckIn.EnergyBudget != 17 {
		t.Errorf("budget = %d, want 17", first.CheckIn.EnergyBudget)
	}

	second, err := svc.Submit(ctx, testOwner, validation.CheckInInput{Date: "2026-10-18", RestQuality: 5, Mood: "Neutral"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if second.CheckIn.ID != first.CheckIn.ID {
		t.Errorf("id changed: %s -> %s", first.CheckIn.ID, second.CheckIn.ID)
	}
	if second.CheckIn.SleepNotes != nil {
		t.Errorf("notes should be cleared, got %q", *second.CheckIn.SleepNotes)
	}
	if second.Plan == nil || second.Plan.EnergyBudget != second.CheckIn.EnergyBudget {
		t.Errorf("plan should follow the new budget: %+v", second.Plan)
	}
}

func TestSubmitKeepsCheckInWhenPlanFails(t *testing.T) {
	store := sqlitetest.Open(t)
	svc := New(store, failingPlans{})

	got, err := svc.Submit(context.Background(), testOwner, validation.CheckInInput{Date: "2026-10-18", RestQuality: 6, Mood: "Tired"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got.Plan != nil || !apperrors.Is(got.PlanErr, apperrors.CodeDatabase) {
		t.Errorf("plan = %v err = %v", got.Plan, got.PlanErr)
	}
	if _, err := svc.Get(context.Background(), testOwner, "2026-10-18"); err != nil {
		t.Errorf("check-in should be saved: %v", err)
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	store := sqlitetest.Open(t)
	svc := New(store, failingPlans{})

	_, err := svc.Submit(context.Background(), testOwner, validation.CheckInInput{Date: "2026-10-18", RestQuality: 12, Mood: "Fresh"})
	if !apperrors.Is(err, apperrors.CodeValidation) {
		t.Fatalf("Submit() error = %v, want VALIDATION_ERROR", err)
	}
	if _, err := svc.Get(context.Background(), testOwner, "2026-10-18"); !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Errorf("Get() error = %v, want NOT_FOUND", err)
	}
}
