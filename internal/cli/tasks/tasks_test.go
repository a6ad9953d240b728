package tasks

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/julianstephens/helpme/internal/cli/clitest"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/validation"
)

func TestTaskAddAndList(t *testing.T) {
	ctx, out := clitest.New(t, nil)

	add := &TaskAddCmd{Title: "Write report", Intensity: "deepfocus", Due: "2026-10-20", Tags: []string{"work", "q4"}}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("task add failed: %v", err)
	}
	if !strings.Contains(out.String(), `Added task "Write report" (DeepFocus)`) {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	out.Reset()
	if err := (&TaskListCmd{JSON: true}).Run(ctx); err != nil {
		t.Fatalf("task list failed: %v", err)
	}
	var listed []models.Task
	if err := json.Unmarshal(out.Bytes(), &listed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 task, got %d", len(listed))
	}
	got := listed[0]
	if got.Intensity != models.IntensityDeepFocus || got.DueAt == nil || len(got.Tags) != 2 || got.OwnerID != clitest.Owner {
		t.Errorf("listed task = %+v", got)
	}
}

func TestTaskAddValidation(t *testing.T) {
	ctx, _ := clitest.New(t, nil)
	err := (&TaskAddCmd{Title: "   ", Intensity: "Routine"}).Run(ctx)
	if !apperrors.Is(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestTaskListEmpty(t *testing.T) {
	ctx, out := clitest.New(t, nil)
	if err := (&TaskListCmd{JSON: true}).Run(ctx); err != nil {
		t.Fatalf("task list failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "[]" {
		t.Errorf("expected empty JSON array, got %q", out.String())
	}
}

func TestCompleteChargesEnergy(t *testing.T) {
	ctx, out := clitest.New(t, nil)
	task, err := ctx.Tasks().Add(ctx.Ctx, ctx.OwnerID, validation.TaskInput{Title: "Deep work", Intensity: "DeepFocus"})
	if err != nil {
		t.Fatalf("failed to add task: %v", err)
	}
	if _, err := ctx.CheckIns().Submit(ctx.Ctx, ctx.OwnerID, validation.CheckInInput{Date: ctx.Today(), RestQuality: 8, Mood: "Fresh"}); err != nil {
		t.Fatalf("failed to check in: %v", err)
	}
	budget, err := ctx.Tasks().Remaining(ctx.Ctx, ctx.OwnerID, ctx.Today())
	if err != nil {
		t.Fatalf("Remaining failed: %v", err)
	}

	out.Reset()
	if err := (&CompleteCmd{TaskID: task.ID, Capacity: "taxed", JSON: true}).Run(ctx); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	var result struct {
		Task             models.Task `json:"task"`
		Deducted         int         `json:"deducted"`
		EnergyNotTracked bool        `json:"energyNotTracked"`
		Date             string      `json:"date"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Deducted != 18 || result.EnergyNotTracked || result.Task.Status != models.TaskStatusCompleted {
		t.Errorf("complete result = %+v", result)
	}

	out.Reset()
	if err := (&EnergyCmd{JSON: true}).Run(ctx); err != nil {
		t.Fatalf("energy failed: %v", err)
	}
	var remaining models.RemainingEnergy
	if err := json.Unmarshal(out.Bytes(), &remaining); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	want := models.RemainingEnergy{EnergyBudget: budget.EnergyBudget, TotalDeducted: 18, Remaining: budget.EnergyBudget - 18}
	if remaining != want {
		t.Errorf("remaining = %+v, want %+v", remaining, want)
	}

	if err := (&CompleteCmd{TaskID: task.ID, Capacity: "Fresh"}).Run(ctx); !apperrors.Is(err, apperrors.CodeValidation) {
		t.Errorf("completing twice: expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCompleteWithoutCheckIn(t *testing.T) {
	ctx, out := clitest.New(t, nil)
	task, err := ctx.Tasks().Add(ctx.Ctx, ctx.OwnerID, validation.TaskInput{Title: "Email", Intensity: "QuickWin"})
	if err != nil {
		t.Fatalf("failed to add task: %v", err)
	}

	out.Reset()
	if err := (&CompleteCmd{TaskID: task.ID, Capacity: "Neutral"}).Run(ctx); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !strings.Contains(out.String(), "energy not tracked") {
		t.Errorf("expected untracked notice, got:\n%s", out.String())
	}
}

func TestCompleteUnknownTask(t *testing.T) {
	ctx, _ := clitest.New(t, nil)
	err := (&CompleteCmd{TaskID: "missing", Capacity: "Neutral"}).Run(ctx)
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCompleteRejectsUnknownCapacity(t *testing.T) {
	ctx, _ := clitest.New(t, nil)
	if err := (&CompleteCmd{TaskID: "x", Capacity: "Ecstatic"}).Run(ctx); err == nil {
		t.Fatal("expected an error for an unknown capacity state")
	}
}

func TestEnergyWithoutCheckIn(t *testing.T) {
	ctx, out := clitest.New(t, nil)
	if err := (&EnergyCmd{}).Run(ctx); err != nil {
		t.Fatalf("energy failed: %v", err)
	}
	if !strings.Contains(out.String(), "No check-in for") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
