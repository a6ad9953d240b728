// Package planner turns a day's check-in and the owner's open backlog into
// a persisted DailyPlan.
package planner

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/helpme/internal/constants"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/logger"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/prioritizer"
	"github.com/julianstephens/helpme/internal/scheduler"
	"github.com/julianstephens/helpme/internal/storage"
	"github.com/julianstephens/helpme/internal/utils"
)

// Store is the persistence the planner reads and writes.
type Store interface {
	storage.ProfileStore
	storage.TaskStore
	storage.CheckInStore
	storage.PlanStore
}

// ModelRanker proposes an ordering. Any error means "use the heuristic".
type ModelRanker interface {
	Rank(ctx context.Context, profile *models.UserProfile, checkIn models.CheckIn, tasks []models.Task) (*prioritizer.Ranking, error)
}

type Planner struct {
	store     Store
	model     ModelRanker
	heuristic *scheduler.Scheduler
	now       func() time.Time
}

// New builds a planner. model may be nil, in which case every plan is
// heuristic.
func New(store Store, model ModelRanker) *Planner {
	return &Planner{
		store:     store,
		model:     model,
		heuristic: scheduler.New(),
		now:       time.Now,
	}
}

// GeneratePlan ranks every open task for (ownerID, planDate) and upserts
// the plan. It fails with NOT_FOUND when there is no check-in for the day.
// Model failures never surface; they fall back to the heuristic.
func (p *Planner) GeneratePlan(ctx context.Context, ownerID, planDate string) (models.DailyPlan, error) {
	checkIn, err := p.store.GetCheckIn(ctx, ownerID, planDate)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Warn("No check-in found for plan date", "owner", ownerID, "date", planDate)
		return models.DailyPlan{}, apperrors.NotFound("cannot generate a daily plan without a check-in for %s", planDate)
	}
	if err != nil {
		return models.DailyPlan{}, apperrors.Database("failed to generate daily plan", err)
	}

	tasks, err := p.store.ListOpenTasks(ctx, ownerID)
	if err != nil {
		return models.DailyPlan{}, apperrors.Database("failed to generate daily plan", err)
	}

	content := models.PlanContent{
		EnergyBudget:     checkIn.EnergyBudget,
		AlgorithmVersion: constants.AlgorithmVersionHeuristic,
	}
	if len(tasks) > 0 {
		profile := p.loadProfile(ctx, ownerID)
		content = p.rank(ctx, profile, checkIn, tasks)
	}

	plan, err := p.upsert(ctx, ownerID, planDate, content)
	if err != nil {
		return models.DailyPlan{}, apperrors.Database("failed to generate daily plan", err)
	}
	logger.Info("Daily plan generated", "owner", ownerID, "date", planDate, "algorithm", plan.AlgorithmVersion, "tasks", len(plan.RankedTaskIDs))
	return plan, nil
}

// GetPlan returns the stored plan, or NOT_FOUND.
func (p *Planner) GetPlan(ctx context.Context, ownerID, planDate string) (models.DailyPlan, error) {
	plan, err := p.store.GetPlan(ctx, ownerID, planDate)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DailyPlan{}, apperrors.NotFound("no plan for %s", planDate)
	}
	if err != nil {
		return models.DailyPlan{}, apperrors.Database("failed to load daily plan", err)
	}
	return plan, nil
}

// loadProfile returns nil when the owner has no usable profile. The model
// path needs it; the heuristic only needs its time zone.
func (p *Planner) loadProfile(ctx context.Context, ownerID string) *models.UserProfile {
	profile, err := p.store.GetProfile(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to load profile for planning", "owner", ownerID, "error", err)
		}
		return nil
	}
	return &profile
}

func (p *Planner) rank(ctx context.Context, profile *models.UserProfile, checkIn models.CheckIn, tasks []models.Task) models.PlanContent {
	if p.model != nil {
		ranking, err := p.model.Rank(ctx, profile, checkIn, tasks)
		if err == nil {
			return models.PlanContent{
				EnergyBudget:     checkIn.EnergyBudget,
				AlgorithmVersion: constants.AlgorithmVersionLLM,
				RankedTaskIDs:    ranking.RankedTaskIDs,
				TaskReasoning:    ranking.TaskReasoning,
				ReasoningSummary: ranking.ReasoningSummary,
			}
		}
		logger.Warn("Model prioritization failed, falling back to heuristic", "owner", checkIn.OwnerID, "date", checkIn.Date, "error", err)
	}

	tz := ""
	if profile != nil {
		tz = profile.TimeZone
	}
	day, err := utils.ParseDateInLocation(checkIn.Date, utils.LocationOrUTC(tz))
	if err != nil {
		// Stored dates are always YYYY-MM-DD; treat anything else as today.
		day = p.now()
	}

	scored := p.heuristic.Rank(tasks, checkIn.EnergyBudget, day)
	ids := make([]string, len(scored))
	reasons := make(map[string]string, len(scored))
	for i, s := range scored {
		ids[i] = s.ID
		reasons[s.ID] = s.Reasoning
	}
	summary := constants.HeuristicReasoningSummary
	return models.PlanContent{
		EnergyBudget:     checkIn.EnergyBudget,
		AlgorithmVersion: constants.AlgorithmVersionHeuristic,
		RankedTaskIDs:    ids,
		TaskReasoning:    reasons,
		ReasoningSummary: &summary,
	}
}

func (p *Planner) upsert(ctx context.Context, ownerID, planDate string, content models.PlanContent) (models.DailyPlan, error) {
	now := p.now()
	var next models.DailyPlan

	existing, err := p.store.GetPlan(ctx, ownerID, planDate)
	switch {
	case err == nil:
		next = existing.Revise(content, now)
	case errors.Is(err, storage.ErrNotFound):
		next = models.NewDailyPlan(ownerID, planDate, content, now)
	default:
		return models.DailyPlan{}, err
	}
	return p.store.UpsertPlan(ctx, next)
}
