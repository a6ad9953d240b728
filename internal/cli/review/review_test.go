package review

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/julianstephens/helpme/internal/cli"
	"github.com/julianstephens/helpme/internal/cli/clitest"
	"github.com/julianstephens/helpme/internal/completion"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/validation"
)

func reply(text string) completion.Client {
	return completion.ClientFunc(func(context.Context, completion.Request) (completion.Response, error) {
		return completion.Response{Text: text}, nil
	})
}

func seedDay(t *testing.T, ctx *cli.Context) {
	t.Helper()
	task, err := ctx.Tasks().Add(ctx.Ctx, ctx.OwnerID, validation.TaskInput{Title: "Design review", Intensity: "DeepFocus"})
	if err != nil {
		t.Fatalf("failed to add task: %v", err)
	}
	if _, err := ctx.CheckIns().Submit(ctx.Ctx, ctx.OwnerID, validation.CheckInInput{Date: ctx.Today(), RestQuality: 6, Mood: "Neutral"}); err != nil {
		t.Fatalf("failed to check in: %v", err)
	}
	if _, err := ctx.Tasks().Complete(ctx.Ctx, ctx.OwnerID, task.ID, models.MoodNeutral); err != nil {
		t.Fatalf("failed to complete task: %v", err)
	}
}

func TestSummaryStoresReflection(t *testing.T) {
	ctx, out := clitest.New(t, reply("  Solid focus block, rest early tonight.  "))
	seedDay(t, ctx)

	out.Reset()
	if err := (&SummaryCmd{}).Run(ctx); err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if !strings.Contains(out.String(), "Solid focus block, rest early tonight.") {
		t.Errorf("summary not rendered:\n%s", out.String())
	}

	stored, err := ctx.CheckIns().Get(ctx.Ctx, ctx.OwnerID, ctx.Today())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.EveningSummary == nil || *stored.EveningSummary != "Solid focus block, rest early tonight." {
		t.Errorf("stored summary = %v", stored.EveningSummary)
	}
}

func TestSummaryWithoutModel(t *testing.T) {
	ctx, _ := clitest.New(t, nil)
	seedDay(t, ctx)
	err := (&SummaryCmd{}).Run(ctx)
	if !apperrors.Is(err, apperrors.CodeExternalService) {
		t.Fatalf("expected EXTERNAL_SERVICE_ERROR, got %v", err)
	}
}

func TestSummaryWithoutCheckIn(t *testing.T) {
	ctx, _ := clitest.New(t, reply("unused"))
	err := (&SummaryCmd{}).Run(ctx)
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

type trendsPayload struct {
	From    string                  `json:"from"`
	To      string                  `json:"to"`
	Rows    []models.DailyReportRow `json:"rows"`
	Insight *string                 `json:"insight"`
}

func runTrends(t *testing.T, ctx *cli.Context, out *bytes.Buffer, cmd *TrendsCmd) trendsPayload {
	t.Helper()
	out.Reset()
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("trends failed: %v", err)
	}
	var p trendsPayload
	if err := json.Unmarshal(out.Bytes(), &p); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return p
}

func TestTrendsReportsToday(t *testing.T) {
	ctx, out := clitest.New(t, reply("You finish more on well-rested days."))
	seedDay(t, ctx)

	p := runTrends(t, ctx, out, &TrendsCmd{Days: 3, JSON: true})
	if p.To != ctx.Today() {
		t.Errorf("to = %s, want %s", p.To, ctx.Today())
	}
	if len(p.Rows) != 1 {
		t.Fatalf("expected one row, got %+v", p.Rows)
	}
	row := p.Rows[0]
	if row.TasksCompletedCount != 1 || row.DeepFocusCount != 1 || row.EnergyUsed != 15 || row.RestQuality != 6 {
		t.Errorf("row = %+v", row)
	}
	if p.Insight == nil || *p.Insight != "You finish more on well-rested days." {
		t.Errorf("insight = %v", p.Insight)
	}
}

func TestTrendsWithoutModelOmitsInsight(t *testing.T) {
	ctx, out := clitest.New(t, nil)
	p := runTrends(t, ctx, out, &TrendsCmd{Days: 7, JSON: true})
	if p.Insight != nil {
		t.Errorf("insight = %q, want null", *p.Insight)
	}
	if p.Rows == nil || len(p.Rows) != 0 {
		t.Errorf("rows = %#v, want empty list", p.Rows)
	}
}

func TestTrendsRejectsZeroDays(t *testing.T) {
	ctx, _ := clitest.New(t, nil)
	if err := (&TrendsCmd{Days: 0}).Run(ctx); err == nil {
		t.Fatal("expected an error for --days 0")
	}
}
