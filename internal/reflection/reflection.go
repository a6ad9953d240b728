// Package reflection looks back over finished days: the evening summary,
// the per-day report behind trends, and a one-line insight drawn from it.
package reflection

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/helpme/internal/completion"
	"github.com/julianstephens/helpme/internal/constants"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/logger"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/prompts"
	"github.com/julianstephens/helpme/internal/storage"
	"github.com/julianstephens/helpme/internal/utils"
)

type Store interface {
	storage.ProfileStore
	storage.TaskStore
	storage.CheckInStore
	storage.LedgerStore
}

type Service struct {
	store  Store
	client completion.Client
	now    func() time.Time
}

// New builds the service. Without a client the model-backed operations
// fail with EXTERNAL_SERVICE_ERROR; DailyReport still works.
func New(store Store, client completion.Client) *Service {
	return &Service{store: store, client: client, now: time.Now}
}

var errNoClient = errors.New("no completion client configured")

// EveningSummary writes a short reflection for date and stores it on the
// check-in, replacing any earlier one.
func (s *Service) EveningSummary(ctx context.Context, ownerID, date string) (models.CheckIn, error) {
	checkIn, err := s.store.GetCheckIn(ctx, ownerID, date)
	if errors.Is(err, storage.ErrNotFound) {
		return models.CheckIn{}, apperrors.NotFound("no check-in for %s", date)
	}
	if err != nil {
		return models.CheckIn{}, apperrors.Database("failed to load check-in", err)
	}
	if s.client == nil {
		return models.CheckIn{}, apperrors.External("failed to generate evening summary", errNoClient)
	}

	start, end, err := utils.DayBounds(date, s.location(ctx, ownerID))
	if err != nil {
		return models.CheckIn{}, apperrors.Validation("invalid date", err)
	}

	var (
		completed []models.Task
		used      int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		completed, err = s.store.ListCompletedTasks(gctx, ownerID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		used, err = s.store.SumDeductions(gctx, ownerID, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.CheckIn{}, apperrors.Database("failed to load the day's activity", err)
	}

	prompt := prompts.EveningSummary(checkIn, completed, used)
	resp, err := s.client.Complete(ctx, completion.UserRequest(prompt.System, prompt.User, constants.EveningSummaryMaxTokens))
	if err != nil {
		return models.CheckIn{}, apperrors.External("failed to generate evening summary", err)
	}
	summary := strings.TrimSpace(resp.Text)
	if summary == "" {
		return models.CheckIn{}, apperrors.External("failed to generate evening summary", errors.New("empty response"))
	}

	saved, err := s.store.UpsertCheckIn(ctx, checkIn.WithEveningSummary(summary, s.now()))
	if err != nil {
		return models.CheckIn{}, apperrors.Database("failed to save evening summary", err)
	}
	logger.Info("Evening summary saved", "owner", ownerID, "date", date, "tasks", len(completed))
	return saved, nil
}

// DailyReport returns one row per check-in with from <= date <= to.
// Completions are bucketed by their date in the owner's time zone.
func (s *Service) DailyReport(ctx context.Context, ownerID, from, to string) ([]models.DailyReportRow, error) {
	loc := s.location(ctx, ownerID)
	start, _, err := utils.DayBounds(from, loc)
	if err != nil {
		return nil, apperrors.Validation("invalid start date", err)
	}
	_, end, err := utils.DayBounds(to, loc)
	if err != nil {
		return nil, apperrors.Validation("invalid end date", err)
	}

	var (
		checkIns  []models.CheckIn
		completed []models.Task
		used      map[string]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		checkIns, err = s.store.ListCheckIns(gctx, ownerID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		completed, err = s.store.ListCompletedTasks(gctx, ownerID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		used, err = s.store.SumDeductionsByDate(gctx, ownerID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Database("failed to build daily report", err)
	}

	type tally struct{ done, deep int }
	byDate := make(map[string]tally)
	for _, t := range completed {
		if t.CompletedAt == nil {
			continue
		}
		d := utils.DateIn(*t.CompletedAt, loc)
		c := byDate[d]
		c.done++
		if t.Intensity == models.IntensityDeepFocus {
			c.deep++
		}
		byDate[d] = c
	}

	rows := make([]models.DailyReportRow, 0, len(checkIns))
	for _, c := range checkIns {
		rows = append(rows, models.DailyReportRow{
			Date:                c.Date,
			RestQuality:         c.RestQuality,
			EnergyBudget:        c.EnergyBudget,
			TasksCompletedCount: byDate[c.Date].done,
			EnergyUsed:          used[c.Date],
			DeepFocusCount:      byDate[c.Date].deep,
		})
	}
	return rows, nil
}

// SuccessInsight asks the model for one sentence relating rest to output
// over the report rows. The result is not stored.
func (s *Service) SuccessInsight(ctx context.Context, ownerID string, rows []models.DailyReportRow) (string, error) {
	if s.client == nil {
		return "", apperrors.External("failed to generate success correlation insight", errNoClient)
	}

	prompt := prompts.SuccessInsight(rows)
	resp, err := s.client.Complete(ctx, completion.UserRequest(prompt.System, prompt.User, constants.InsightMaxTokens))
	if err != nil {
		return "", apperrors.External("failed to generate success correlation insight", err)
	}
	insight := strings.TrimSpace(resp.Text)
	if insight == "" {
		insight = constants.NoInsightGenerated
	}
	logger.Debug("Success insight generated", "owner", ownerID, "days", len(rows))
	return insight, nil
}

func (s *Service) location(ctx context.Context, ownerID string) *time.Location {
	p, err := s.store.GetProfile(ctx, ownerID)
	if err != nil {
		return time.UTC
	}
	return utils.LocationOrUTC(p.TimeZone)
}
