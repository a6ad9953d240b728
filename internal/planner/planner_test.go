package planner

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/helpme/internal/completion"
	"github.com/julianstephens/helpme/internal/constants"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/prioritizer"
	"github.com/julianstephens/helpme/internal/storage/sqlite"
	"github.com/julianstephens/helpme/internal/storage/sqlite/sqlitetest"
)

const (
	testOwner = "owner-1"
	testDate  = "2026-10-18"
)

var base = time.Date(2026, 10, 18, 7, 0, 0, 0, time.UTC)

type fixture struct {
	store *sqlite.Store
	tasks []models.Task
}

func setup(t *testing.T, withTasks bool) fixture {
	t.Helper()
	ctx := context.Background()
	store := sqlitetest.Open(t)

	profile := models.NewUserProfile(models.ProfileValues{
		DisplayName: "Sam", Role: "Engineer", WorkingStartMinutes: 540, WorkingEndMinutes: 1020,
		PrimaryFocusPeriod: models.FocusMorning, TimeZone: "UTC",
	}, base)
	profile.ID = testOwner
	if err := store.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	checkIn := models.NewCheckIn(testOwner, testDate, models.CheckInValues{RestQuality: 2, Mood: models.MoodTired, EnergyBudget: 29}, base)
	if _, err := store.UpsertCheckIn(ctx, checkIn); err != nil {
		t.Fatalf("UpsertCheckIn: %v", err)
	}

	f := fixture{store: store}
	if !withTasks {
		return f
	}

	due := time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC)
	fixtures := []struct {
		title     string
		intensity models.Intensity
		due       *time.Time
	}{
		{"Write report", models.IntensityDeepFocus, nil},
		{"Reply to email", models.IntensityQuickWin, nil},
		{"Standup", models.IntensityMeeting, &due},
	}
	for i, s := range fixtures {
		task := models.NewTask(testOwner, s.title, s.intensity, s.due, nil, base.Add(time.Duration(i)*time.Minute))
		if err := store.AddTask(ctx, task); err != nil {
			t.Fatalf("AddTask: %v", err)
		}
		f.tasks = append(f.tasks, task)
	}

	done := models.NewTask(testOwner, "Already done", models.IntensityRoutine, nil, nil, base).WithStatus(models.TaskStatusCompleted, base)
	if err := store.AddTask(ctx, done); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	return f
}

func modelReplying(text string) ModelRanker {
	return prioritizer.New(completion.ClientFunc(func(context.Context, completion.Request) (completion.Response, error) {
		return completion.Response{Text: text}, nil
	}))
}

func TestGeneratePlanRequiresCheckIn(t *testing.T) {
	f := setup(t, true)
	p := New(f.store, nil)

	_, err := p.GeneratePlan(context.Background(), testOwner, "2026-10-19")
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Fatalf("GeneratePlan() error = %v, want NOT_FOUND", err)
	}
	if _, err := p.GetPlan(context.Background(), testOwner, "2026-10-19"); !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Errorf("GetPlan() error = %v, want NOT_FOUND", err)
	}
}

func TestGeneratePlanWithNoOpenTasks(t *testing.T) {
	f := setup(t, false)
	p := New(f.store, modelReplying(`{"rankedTaskIds":["x"]}`))

	plan, err := p.GeneratePlan(context.Background(), testOwner, testDate)
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}
	if !plan.Empty() || len(plan.TaskReasoning) != 0 || plan.AlgorithmVersion != constants.AlgorithmVersionHeuristic {
		t.Errorf("plan = %+v, want empty heuristic plan", plan)
	}

	stored, err := p.GetPlan(context.Background(), testOwner, testDate)
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}
	if stored.ID != plan.ID || !stored.Empty() || stored.EnergyBudget != 29 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestGeneratePlanHeuristicFallback(t *testing.T) {
	replies := map[string]ModelRanker{
		"no model":  nil,
		"prose":     modelReplying("Sure, start with the report."),
		"truncated": modelReplying(`{"rankedTaskIds": ["`),
	}
	for name, model := range replies {
		t.Run(name, func(t *testing.T) {
			f := setup(t, true)
			plan, err := New(f.store, model).GeneratePlan(context.Background(), testOwner, testDate)
			if err != nil {
				t.Fatalf("GeneratePlan() error = %v", err)
			}
			if plan.AlgorithmVersion != constants.AlgorithmVersionHeuristic {
				t.Errorf("algorithm = %q", plan.AlgorithmVersion)
			}
			if plan.ReasoningSummary == nil || *plan.ReasoningSummary != constants.HeuristicReasoningSummary {
				t.Errorf("summary = %v", plan.ReasoningSummary)
			}

			// Budget 29 is low: the meeting due today leads (30+5), the quick
			// win follows (15+10) and deep focus sinks (20-15-5).
			want := []string{f.tasks[2].ID, f.tasks[1].ID, f.tasks[0].ID}
			if diff := cmp.Diff(want, plan.RankedTaskIDs); diff != "" {
				t.Errorf("ranking mismatch (-want +got):\n%s", diff)
			}
			if plan.TaskReasoning[f.tasks[0].ID] == "" {
				t.Errorf("missing reasoning: %v", plan.TaskReasoning)
			}
		})
	}
}

func TestGeneratePlanUsesModel(t *testing.T) {
	f := setup(t, true)
	reply := `{"reasoningSummary":"Ease in.","rankedTaskIds":["ghost","` + f.tasks[1].ID + `"],"taskReasoning":{"` + f.tasks[1].ID + `":"Quick start"}}`

	plan, err := New(f.store, modelReplying(reply)).GeneratePlan(context.Background(), testOwner, testDate)
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}
	if plan.AlgorithmVersion != constants.AlgorithmVersionLLM {
		t.Errorf("algorithm = %q", plan.AlgorithmVersion)
	}
	want := []string{f.tasks[1].ID, f.tasks[0].ID, f.tasks[2].ID}
	if diff := cmp.Diff(want, plan.RankedTaskIDs); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
	if plan.TaskReasoning[f.tasks[0].ID] != constants.NoReasoningProvided || plan.TaskReasoning[f.tasks[1].ID] != "Quick start" {
		t.Errorf("reasoning = %v", plan.TaskReasoning)
	}
	if plan.ReasoningSummary == nil || *plan.ReasoningSummary != "Ease in." {
		t.Errorf("summary = %v", plan.ReasoningSummary)
	}
}

func TestRegenerateOverwritesInPlace(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()
	p := New(f.store, nil)
	p.now = func() time.Time { return base.Add(time.Hour) }

	first, err := p.GeneratePlan(ctx, testOwner, testDate)
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}

	// A later check-in edit does not touch the stored plan until it is
	// regenerated.
	checkIn, err := f.store.GetCheckIn(ctx, testOwner, testDate)
	if err != nil {
		t.Fatal(err)
	}
	revised := checkIn.Revise(models.CheckInValues{RestQuality: 10, Mood: models.MoodFresh, EnergyBudget: 110}, base.Add(2*time.Hour))
	if _, err := f.store.UpsertCheckIn(ctx, revised); err != nil {
		t.Fatal(err)
	}
	stale, err := p.GetPlan(ctx, testOwner, testDate)
	if err != nil || stale.EnergyBudget != 29 {
		t.Fatalf("plan budget changed before regeneration: %+v err=%v", stale, err)
	}

	p.model = modelReplying(`{"rankedTaskIds":["` + f.tasks[0].ID + `"]}`)
	p.now = func() time.Time { return base.Add(3 * time.Hour) }
	second, err := p.GeneratePlan(ctx, testOwner, testDate)
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}
	if second.ID != first.ID || !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("identity changed: first=%s/%v second=%s/%v", first.ID, first.CreatedAt, second.ID, second.CreatedAt)
	}
	if second.EnergyBudget != 110 || second.AlgorithmVersion != constants.AlgorithmVersionLLM || !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("second = %+v", second)
	}
}

func TestConcurrentGenerationLeavesOnePlan(t *testing.T) {
	f := setup(t, true)
	p := New(f.store, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.GeneratePlan(context.Background(), testOwner, testDate); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("GeneratePlan() error = %v", err)
	}

	plan, err := p.GetPlan(context.Background(), testOwner, testDate)
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}
	if len(plan.RankedTaskIDs) != len(f.tasks) {
		t.Errorf("ranked = %v", plan.RankedTaskIDs)
	}
}
