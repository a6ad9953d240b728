package plans

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/helpme/internal/cli"
	"github.com/julianstephens/helpme/internal/cli/clitest"
	"github.com/julianstephens/helpme/internal/completion"
	"github.com/julianstephens/helpme/internal/constants"
	"github.com/julianstephens/helpme/internal/energy"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/validation"
)

type checkInPayload struct {
	CheckIn   models.CheckIn   `json:"checkIn"`
	Plan      *models.PlanView `json:"plan"`
	PlanError *string          `json:"planError"`
}

func addTasks(t *testing.T, ctx *cli.Context, titles ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		task, err := ctx.Tasks().Add(ctx.Ctx, ctx.OwnerID, validation.TaskInput{Title: title, Intensity: "Routine"})
		if err != nil {
			t.Fatalf("failed to add task %q: %v", title, err)
		}
		ids = append(ids, task.ID)
	}
	return ids
}

func sorted(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

func checkIn(t *testing.T, ctx *cli.Context, out *bytes.Buffer) checkInPayload {
	t.Helper()
	out.Reset()
	cmd := &CheckInCmd{Rest: 7, Mood: "neutral", Notes: "  woke once  ", JSON: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	var payload checkInPayload
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	return payload
}

func TestCheckInGeneratesHeuristicPlan(t *testing.T) {
	ctx, out := clitest.New(t, nil)
	ids := addTasks(t, ctx, "Inbox", "Report", "Standup")

	payload := checkIn(t, ctx, out)
	if payload.PlanError != nil {
		t.Fatalf("unexpected plan error: %s", *payload.PlanError)
	}
	if want := energy.EstimateBudget(7, models.MoodNeutral); payload.CheckIn.EnergyBudget != want {
		t.Errorf("energy budget = %d, want %d", payload.CheckIn.EnergyBudget, want)
	}
	if payload.CheckIn.SleepNotes == nil || *payload.CheckIn.SleepNotes != "woke once" {
		t.Errorf("sleep notes = %v, want trimmed", payload.CheckIn.SleepNotes)
	}
	if payload.Plan == nil {
		t.Fatal("expected a plan")
	}
	if payload.Plan.AlgorithmVersion != constants.AlgorithmVersionHeuristic {
		t.Errorf("algorithm = %s, want heuristic", payload.Plan.AlgorithmVersion)
	}
	if diff := cmp.Diff(sorted(ids), sorted(payload.Plan.RankedTaskIDs)); diff != "" {
		t.Errorf("ranking is not a permutation of the open tasks (-want +got):\n%s", diff)
	}
	if payload.Plan.EnergyBudget != payload.CheckIn.EnergyBudget {
		t.Errorf("plan budget %d != check-in budget %d", payload.Plan.EnergyBudget, payload.CheckIn.EnergyBudget)
	}

	out.Reset()
	if err := (&PlanCmd{JSON: true}).Run(ctx); err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	var shown models.PlanView
	if err := json.Unmarshal(out.Bytes(), &shown); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if diff := cmp.Diff(*payload.Plan, shown); diff != "" {
		t.Errorf("plan differs from the one generated at check-in (-want +got):\n%s", diff)
	}
}

func TestPlanWithoutCheckIn(t *testing.T) {
	ctx, _ := clitest.New(t, nil)
	addTasks(t, ctx, "Inbox")

	err := (&PlanCmd{}).Run(ctx)
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestPlanRejectsBadDate(t *testing.T) {
	ctx, _ := clitest.New(t, nil)
	if err := (&PlanCmd{Date: "18/10/2026"}).Run(ctx); err == nil || !strings.Contains(err.Error(), "YYYY-MM-DD") {
		t.Fatalf("expected a date format error, got %v", err)
	}
}

func TestReprioritizePicksUpNewTasks(t *testing.T) {
	ctx, out := clitest.New(t, nil)
	ids := addTasks(t, ctx, "Inbox")
	first := checkIn(t, ctx, out)

	ids = append(ids, addTasks(t, ctx, "Late addition")...)

	out.Reset()
	if err := (&ReprioritizeCmd{JSON: true}).Run(ctx); err != nil {
		t.Fatalf("reprioritize failed: %v", err)
	}
	var again models.PlanView
	if err := json.Unmarshal(out.Bytes(), &again); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if diff := cmp.Diff(sorted(ids), sorted(again.RankedTaskIDs)); diff != "" {
		t.Errorf("ranking (-want +got):\n%s", diff)
	}
	if again.PlanDate != first.Plan.PlanDate {
		t.Errorf("plan date changed from %s to %s", first.Plan.PlanDate, again.PlanDate)
	}
}

func TestCheckInUsesModelRanking(t *testing.T) {
	var captured completion.Request
	var ids []string
	model := completion.ClientFunc(func(_ context.Context, req completion.Request) (completion.Response, error) {
		captured = req
		body := fmt.Sprintf(`{"reasoningSummary":"Start light.","rankedTaskIds":[%q,%q,"ghost"],"taskReasoning":{%q:"warm up"}}`,
			ids[1], ids[0], ids[1])
		return completion.Response{Text: "```json\n" + body + "\n```"}, nil
	})

	ctx, out := clitest.New(t, model)
	// The model is only consulted with a profile to give it context.
	if _, _, err := ctx.Profiles().EnsureDefault(ctx.Ctx, ctx.OwnerID, "UTC"); err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	ids = addTasks(t, ctx, "Report", "Inbox")

	payload := checkIn(t, ctx, out)
	if payload.Plan == nil {
		t.Fatal("expected a plan")
	}
	if payload.Plan.AlgorithmVersion != constants.AlgorithmVersionLLM {
		t.Errorf("algorithm = %s, want %s", payload.Plan.AlgorithmVersion, constants.AlgorithmVersionLLM)
	}
	if diff := cmp.Diff([]string{ids[1], ids[0]}, payload.Plan.RankedTaskIDs); diff != "" {
		t.Errorf("ranking (-want +got):\n%s", diff)
	}
	if got := payload.Plan.TaskReasoning[ids[0]]; got != constants.NoReasoningProvided {
		t.Errorf("reasoning for unexplained task = %q", got)
	}
	if payload.Plan.ReasoningSummary == nil || *payload.Plan.ReasoningSummary != "Start light." {
		t.Errorf("summary = %v", payload.Plan.ReasoningSummary)
	}
	if captured.SystemPrompt == "" || len(captured.Messages) == 0 {
		t.Error("model was not given a prompt")
	}
}

func TestCheckInRendersPlan(t *testing.T) {
	ctx, out := clitest.New(t, nil)
	addTasks(t, ctx, "Write report")

	if err := (&CheckInCmd{Rest: 9, Mood: "Fresh"}).Run(ctx); err != nil {
		t.Fatalf("checkin failed: %v", err)
	}
	for _, want := range []string{"Check-in for", "Fresh and rested", "Plan for", "Write report"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCheckInRejectsInvalidInput(t *testing.T) {
	ctx, _ := clitest.New(t, nil)
	err := (&CheckInCmd{Rest: 11, Mood: "Sleepy"}).Run(ctx)
	if !apperrors.Is(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
