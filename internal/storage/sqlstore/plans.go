package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/storage"
)

func (s *Store) GetPlan(ctx context.Context, ownerID, date string) (models.DailyPlan, error) {
	row := s.queryRow(ctx, `
SELECT id, owner_id, plan_date, energy_budget, algorithm_version, ranked_task_ids, task_reasoning,
       reasoning_summary, created_at, updated_at
FROM daily_plans WHERE owner_id = ? AND plan_date = ?`, ownerID, date)

	var p models.DailyPlan
	var rankedIDs, reasoning, createdAt, updatedAt string
	var summary sql.NullString
	err := row.Scan(&p.ID, &p.OwnerID, &p.PlanDate, &p.EnergyBudget, &p.AlgorithmVersion,
		&rankedIDs, &reasoning, &summary, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyPlan{}, storage.ErrNotFound
	}
	if err != nil {
		return models.DailyPlan{}, fmt.Errorf("failed to get plan: %w", err)
	}

	if err := json.Unmarshal([]byte(rankedIDs), &p.RankedTaskIDs); err != nil {
		return models.DailyPlan{}, fmt.Errorf("failed to decode ranked task ids: %w", err)
	}
	if err := json.Unmarshal([]byte(reasoning), &p.TaskReasoning); err != nil {
		return models.DailyPlan{}, fmt.Errorf("failed to decode task reasoning: %w", err)
	}
	if p.RankedTaskIDs == nil {
		p.RankedTaskIDs = []string{}
	}
	if p.TaskReasoning == nil {
		p.TaskReasoning = map[string]string{}
	}
	p.ReasoningSummary = stringPtr(summary)

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.DailyPlan{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.DailyPlan{}, err
	}
	return p, nil
}

// UpsertPlan relies on the (owner_id, plan_date) unique constraint. The
// stored id and created_at survive an overwrite.
func (s *Store) UpsertPlan(ctx context.Context, p models.DailyPlan) (models.DailyPlan, error) {
	ranked := p.RankedTaskIDs
	if ranked == nil {
		ranked = []string{}
	}
	reasoning := p.TaskReasoning
	if reasoning == nil {
		reasoning = map[string]string{}
	}
	rankedJSON, err := encodeJSON(ranked)
	if err != nil {
		return models.DailyPlan{}, fmt.Errorf("failed to encode ranked task ids: %w", err)
	}
	reasoningJSON, err := encodeJSON(reasoning)
	if err != nil {
		return models.DailyPlan{}, fmt.Errorf("failed to encode task reasoning: %w", err)
	}

	_, err = s.exec(ctx, `
INSERT INTO daily_plans (id, owner_id, plan_date, energy_budget, algorithm_version, ranked_task_ids,
                         task_reasoning, reasoning_summary, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (owner_id, plan_date) DO UPDATE SET
    energy_budget = excluded.energy_budget,
    algorithm_version = excluded.algorithm_version,
    ranked_task_ids = excluded.ranked_task_ids,
    task_reasoning = excluded.task_reasoning,
    reasoning_summary = excluded.reasoning_summary,
    updated_at = excluded.updated_at`,
		p.ID, p.OwnerID, p.PlanDate, p.EnergyBudget, p.AlgorithmVersion, rankedJSON, reasoningJSON,
		nullString(p.ReasoningSummary), formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return models.DailyPlan{}, fmt.Errorf("failed to save plan: %w", err)
	}
	return s.GetPlan(ctx, p.OwnerID, p.PlanDate)
}
