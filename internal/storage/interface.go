package storage

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/helpme/internal/models"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (models.UserProfile, error)
	SaveProfile(ctx context.Context, p models.UserProfile) error
}

type TaskStore interface {
	AddTask(ctx context.Context, t models.Task) error
	GetTask(ctx context.Context, id string) (models.Task, error)
	SaveTask(ctx context.Context, t models.Task) error
	// ListOpenTasks returns every task of the owner whose status is not
	// Completed, oldest first.
	ListOpenTasks(ctx context.Context, ownerID string) ([]models.Task, error)
	// ListCompletedTasks returns tasks completed in [from, to).
	ListCompletedTasks(ctx context.Context, ownerID string, from, to time.Time) ([]models.Task, error)
}

type CheckInStore interface {
	GetCheckIn(ctx context.Context, ownerID, date string) (models.CheckIn, error)
	// UpsertCheckIn inserts or overwrites the check-in for (owner, date) and
	// returns the stored row. An existing row keeps its id and created_at.
	UpsertCheckIn(ctx context.Context, c models.CheckIn) (models.CheckIn, error)
	// ListCheckIns returns check-ins with from <= date <= to, by date.
	ListCheckIns(ctx context.Context, ownerID, from, to string) ([]models.CheckIn, error)
}

type PlanStore interface {
	GetPlan(ctx context.Context, ownerID, date string) (models.DailyPlan, error)
	// UpsertPlan overwrites any plan for (owner, date). Last write wins.
	UpsertPlan(ctx context.Context, p models.DailyPlan) (models.DailyPlan, error)
}

// LedgerStore is append-only. There is deliberately no update or delete.
type LedgerStore interface {
	AppendDeduction(ctx context.Context, e models.EnergyDeductionEvent) error
	ListDeductions(ctx context.Context, ownerID, date string) ([]models.EnergyDeductionEvent, error)
	SumDeductions(ctx context.Context, ownerID, date string) (int, error)
	// SumDeductionsByDate totals deductions per date for from <= date <= to.
	SumDeductionsByDate(ctx context.Context, ownerID, from, to string) (map[string]int, error)
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	ProfileStore
	TaskStore
	CheckInStore
	PlanStore
	LedgerStore

	// Utils
	GetConfigPath() string
}
