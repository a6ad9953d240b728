// Package storagetest exercises a storage.Provider against the behaviour
// the planning core depends on. Each backend's tests call Run with a fresh,
// initialized provider.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/storage"
)

// Run executes every provider check. ownerPrefix keeps rows from parallel
// or repeated runs apart on shared databases.
func Run(t *testing.T, p storage.Provider, ownerPrefix string) {
	t.Helper()
	base := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)

	t.Run("Profiles", func(t *testing.T) { testProfiles(t, p, ownerPrefix+"-profile", base) })
	t.Run("Tasks", func(t *testing.T) { testTasks(t, p, ownerPrefix+"-tasks", base) })
	t.Run("CheckInUpsert", func(t *testing.T) { testCheckIns(t, p, ownerPrefix+"-checkins", base) })
	t.Run("PlanUpsert", func(t *testing.T) { testPlans(t, p, ownerPrefix+"-plans", base) })
	t.Run("ConcurrentPlanUpsert", func(t *testing.T) { testConcurrentPlans(t, p, ownerPrefix+"-race", base) })
	t.Run("Ledger", func(t *testing.T) { testLedger(t, p, ownerPrefix+"-ledger", base) })
}

func testProfiles(t *testing.T, p storage.Provider, owner string, now time.Time) {
	ctx := context.Background()
	if _, err := p.GetProfile(ctx, owner); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetProfile() on empty store error = %v, want ErrNotFound", err)
	}

	bio := "Writes backend services"
	profile := models.NewUserProfile(models.ProfileValues{
		DisplayName:         "Sam",
		Role:                "Engineer",
		Bio:                 &bio,
		WorkingStartMinutes: 9 * 60,
		WorkingEndMinutes:   17*60 + 30,
		PrimaryFocusPeriod:  models.FocusMorning,
		TimeZone:            "Europe/Berlin",
	}, now)
	profile.ID = owner
	if err := p.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("failed to save profile: %v", err)
	}

	revised := profile.Revise(models.ProfileValues{
		DisplayName:         "Sam",
		Role:                "Staff Engineer",
		WorkingStartMinutes: 8 * 60,
		WorkingEndMinutes:   16 * 60,
		PrimaryFocusPeriod:  models.FocusNoon,
		TimeZone:            "UTC",
	}, now.Add(time.Hour))
	if err := p.SaveProfile(ctx, revised); err != nil {
		t.Fatalf("failed to update profile: %v", err)
	}

	got, err := p.GetProfile(ctx, owner)
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if diff := cmp.Diff(revised, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func testTasks(t *testing.T, p storage.Provider, owner string, now time.Time) {
	ctx := context.Background()
	due := now.Add(26 * time.Hour)

	older := models.NewTask(owner, "Write quarterly report", models.IntensityDeepFocus, &due, []string{"work", " work ", "writing"}, now)
	newer := models.NewTask(owner, "Reply to email", models.IntensityQuickWin, nil, nil, now.Add(time.Minute))
	done := models.NewTask(owner, "Book flights", models.IntensityRoutine, nil, nil, now.Add(2*time.Minute))
	foreign := models.NewTask(owner+"-other", "Someone else's task", models.IntensityMeeting, nil, nil, now)
	for _, task := range []models.Task{newer, older, done, foreign} {
		if err := p.AddTask(ctx, task); err != nil {
			t.Fatalf("failed to add task %q: %v", task.Title, err)
		}
	}

	completedAt := now.Add(3 * time.Hour)
	if err := p.SaveTask(ctx, done.WithStatus(models.TaskStatusCompleted, completedAt)); err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}

	open, err := p.ListOpenTasks(ctx, owner)
	if err != nil {
		t.Fatalf("failed to list open tasks: %v", err)
	}
	var ids []string
	for _, task := range open {
		ids = append(ids, task.ID)
	}
	if diff := cmp.Diff([]string{older.ID, newer.ID}, ids); diff != "" {
		t.Errorf("open task ids mismatch (-want +got):\n%s", diff)
	}

	got, err := p.GetTask(ctx, older.ID)
	if err != nil {
		t.Fatalf("failed to get task: %v", err)
	}
	if diff := cmp.Diff(older, got); diff != "" {
		t.Errorf("task round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"work", "writing"}, got.Tags); diff != "" {
		t.Errorf("tags not normalized (-want +got):\n%s", diff)
	}

	dayStart := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	completed, err := p.ListCompletedTasks(ctx, owner, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("failed to list completed tasks: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != done.ID {
		t.Fatalf("completed tasks = %+v, want only %s", completed, done.ID)
	}
	if completed[0].CompletedAt == nil || !completed[0].CompletedAt.Equal(completedAt) {
		t.Errorf("completedAt = %v, want %v", completed[0].CompletedAt, completedAt)
	}

	if _, err := p.GetTask(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetTask(missing) error = %v, want ErrNotFound", err)
	}
	if err := p.SaveTask(ctx, models.Task{ID: "missing", UpdatedAt: now}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("SaveTask(missing) error = %v, want ErrNotFound", err)
	}
}

func testCheckIns(t *testing.T, p storage.Provider, owner string, now time.Time) {
	ctx := context.Background()
	date := "2026-10-18"

	if _, err := p.GetCheckIn(ctx, owner, date); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetCheckIn() error = %v, want ErrNotFound", err)
	}

	first := models.NewCheckIn(owner, date, models.CheckInValues{RestQuality: 4, Mood: models.MoodTired, EnergyBudget: 47}, now)
	saved, err := p.UpsertCheckIn(ctx, first)
	if err != nil {
		t.Fatalf("failed to insert check-in: %v", err)
	}
	if diff := cmp.Diff(first, saved); diff != "" {
		t.Errorf("inserted check-in mismatch (-want +got):\n%s", diff)
	}

	// A second row for the same date with a different id must overwrite in
	// place and keep the original identity.
	notes := "Woke up twice"
	second := models.NewCheckIn(owner, date, models.CheckInValues{RestQuality: 8, Mood: models.MoodFresh, EnergyBudget: 91, SleepNotes: &notes}, now.Add(time.Hour))
	saved, err = p.UpsertCheckIn(ctx, second)
	if err != nil {
		t.Fatalf("failed to upsert check-in: %v", err)
	}
	if saved.ID != first.ID || !saved.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("upsert replaced identity: got id %s created %v", saved.ID, saved.CreatedAt)
	}
	if saved.RestQuality != 8 || saved.EnergyBudget != 91 || saved.SleepNotes == nil || *saved.SleepNotes != notes {
		t.Errorf("upsert did not overwrite values: %+v", saved)
	}

	other := models.NewCheckIn(owner, "2026-10-16", models.CheckInValues{RestQuality: 5, Mood: models.MoodNeutral, EnergyBudget: 56}, now)
	if _, err := p.UpsertCheckIn(ctx, other); err != nil {
		t.Fatalf("failed to insert second date: %v", err)
	}
	list, err := p.ListCheckIns(ctx, owner, "2026-10-15", "2026-10-18")
	if err != nil {
		t.Fatalf("failed to list check-ins: %v", err)
	}
	if len(list) != 2 || list[0].Date != "2026-10-16" || list[1].Date != date {
		t.Errorf("ListCheckIns() = %+v, want two rows ordered by date", list)
	}
}

func testPlans(t *testing.T, p storage.Provider, owner string, now time.Time) {
	ctx := context.Background()
	date := "2026-10-18"

	empty := models.NewDailyPlan(owner, date, models.PlanContent{EnergyBudget: 60, AlgorithmVersion: "v1-det-heuristic"}, now)
	saved, err := p.UpsertPlan(ctx, empty)
	if err != nil {
		t.Fatalf("failed to save empty plan: %v", err)
	}
	if !saved.Empty() || saved.TaskReasoning == nil {
		t.Errorf("empty plan round trip = %+v", saved)
	}

	summary := "Front-load the report while energy is high."
	content := models.PlanContent{
		EnergyBudget:     88,
		AlgorithmVersion: "v2-llm",
		RankedTaskIDs:    []string{"b", "a", "c"},
		TaskReasoning:    map[string]string{"a": "Due today", "b": "Deep work first", "c": "No reasoning provided."},
		ReasoningSummary: &summary,
	}
	regenerated := models.NewDailyPlan(owner, date, content, now.Add(time.Hour))
	saved, err = p.UpsertPlan(ctx, regenerated)
	if err != nil {
		t.Fatalf("failed to overwrite plan: %v", err)
	}
	if saved.ID != empty.ID || !saved.CreatedAt.Equal(empty.CreatedAt) {
		t.Errorf("plan identity changed on overwrite: %s", saved.ID)
	}
	if !saved.UpdatedAt.Equal(now.Add(time.Hour)) {
		t.Errorf("updatedAt = %v, want %v", saved.UpdatedAt, now.Add(time.Hour))
	}
	if diff := cmp.Diff(content.RankedTaskIDs, saved.RankedTaskIDs); diff != "" {
		t.Errorf("ranking order not preserved (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(content.TaskReasoning, saved.TaskReasoning); diff != "" {
		t.Errorf("reasoning mismatch (-want +got):\n%s", diff)
	}
	if saved.AlgorithmVersion != "v2-llm" || saved.EnergyBudget != 88 || saved.ReasoningSummary == nil {
		t.Errorf("plan fields not overwritten: %+v", saved)
	}

	if _, err := p.GetPlan(ctx, owner, "2026-10-19"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetPlan(other date) error = %v, want ErrNotFound", err)
	}
}

func testConcurrentPlans(t *testing.T, p storage.Provider, owner string, now time.Time) {
	ctx := context.Background()
	date := "2026-10-18"

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			plan := models.NewDailyPlan(owner, date, models.PlanContent{
				EnergyBudget:     50 + i,
				AlgorithmVersion: "v1-det-heuristic",
				RankedTaskIDs:    []string{"x"},
				TaskReasoning:    map[string]string{"x": "Due later"},
			}, now.Add(time.Duration(i)*time.Second))
			if _, err := p.UpsertPlan(ctx, plan); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent upsert failed: %v", err)
	}

	got, err := p.GetPlan(ctx, owner, date)
	if err != nil {
		t.Fatalf("failed to read plan after concurrent upserts: %v", err)
	}
	if got.EnergyBudget < 50 || got.EnergyBudget > 53 {
		t.Errorf("unexpected surviving budget %d", got.EnergyBudget)
	}
}

func testLedger(t *testing.T, p storage.Provider, owner string, now time.Time) {
	ctx := context.Background()
	date := "2026-10-18"

	total, err := p.SumDeductions(ctx, owner, date)
	if err != nil || total != 0 {
		t.Fatalf("SumDeductions on empty ledger = (%d, %v), want 0", total, err)
	}

	events := []models.EnergyDeductionEvent{
		{ID: models.NewID(), OwnerID: owner, PlanDate: date, TaskID: "t1", CapacityStateAfter: models.MoodTaxed, DeductedAmount: 18, TaskIntensitySnapshot: models.IntensityDeepFocus, CreatedAt: now},
		{ID: models.NewID(), OwnerID: owner, PlanDate: date, TaskID: "t2", CapacityStateAfter: models.MoodFresh, DeductedAmount: 4, TaskIntensitySnapshot: models.IntensityQuickWin, CreatedAt: now.Add(time.Minute)},
		{ID: models.NewID(), OwnerID: owner, PlanDate: "2026-10-17", TaskID: "t3", CapacityStateAfter: models.MoodNeutral, DeductedAmount: 10, TaskIntensitySnapshot: models.IntensityRoutine, CreatedAt: now.Add(-24 * time.Hour)},
	}
	for _, e := range events {
		if err := p.AppendDeduction(ctx, e); err != nil {
			t.Fatalf("failed to append deduction: %v", err)
		}
	}

	total, err = p.SumDeductions(ctx, owner, date)
	if err != nil {
		t.Fatalf("failed to sum deductions: %v", err)
	}
	if total != 22 {
		t.Errorf("SumDeductions() = %d, want 22", total)
	}

	listed, err := p.ListDeductions(ctx, owner, date)
	if err != nil {
		t.Fatalf("failed to list deductions: %v", err)
	}
	if diff := cmp.Diff(events[:2], listed); diff != "" {
		t.Errorf("deductions mismatch (-want +got):\n%s", diff)
	}

	byDate, err := p.SumDeductionsByDate(ctx, owner, "2026-10-01", "2026-10-31")
	if err != nil {
		t.Fatalf("failed to sum by date: %v", err)
	}
	if diff := cmp.Diff(map[string]int{"2026-10-17": 10, date: 22}, byDate); diff != "" {
		t.Errorf("per-date totals mismatch (-want +got):\n%s", diff)
	}
}
