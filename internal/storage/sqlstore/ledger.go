package sqlstore

import (
	"context"
	"fmt"

	"github.com/julianstephens/helpme/internal/models"
)

func (s *Store) AppendDeduction(ctx context.Context, e models.EnergyDeductionEvent) error {
	_, err := s.exec(ctx, `
INSERT INTO energy_deduction_events (id, owner_id, plan_date, task_id, capacity_state_after,
                                     deducted_amount, task_intensity_snapshot, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.PlanDate, e.TaskID, string(e.CapacityStateAfter), e.DeductedAmount,
		string(e.TaskIntensitySnapshot), formatTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to record energy deduction: %w", err)
	}
	return nil
}

func (s *Store) ListDeductions(ctx context.Context, ownerID, date string) ([]models.EnergyDeductionEvent, error) {
	rows, err := s.query(ctx, `
SELECT id, owner_id, plan_date, task_id, capacity_state_after, deducted_amount, task_intensity_snapshot, created_at
FROM energy_deduction_events
WHERE owner_id = ? AND plan_date = ?
ORDER BY created_at ASC, id ASC`, ownerID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list energy deductions: %w", err)
	}
	defer rows.Close()

	events := []models.EnergyDeductionEvent{}
	for rows.Next() {
		var e models.EnergyDeductionEvent
		var capacity, intensity, createdAt string
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.PlanDate, &e.TaskID, &capacity, &e.DeductedAmount,
			&intensity, &createdAt); err != nil {
			return nil, err
		}
		e.CapacityStateAfter = models.Mood(capacity)
		e.TaskIntensitySnapshot = models.Intensity(intensity)
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) SumDeductions(ctx context.Context, ownerID, date string) (int, error) {
	var total int64
	err := s.queryRow(ctx, `
SELECT COALESCE(SUM(deducted_amount), 0) FROM energy_deduction_events
WHERE owner_id = ? AND plan_date = ?`, ownerID, date).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum energy deductions: %w", err)
	}
	return int(total), nil
}

func (s *Store) SumDeductionsByDate(ctx context.Context, ownerID, from, to string) (map[string]int, error) {
	rows, err := s.query(ctx, `
SELECT plan_date, COALESCE(SUM(deducted_amount), 0) FROM energy_deduction_events
WHERE owner_id = ? AND plan_date >= ? AND plan_date <= ?
GROUP BY plan_date`, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum energy deductions: %w", err)
	}
	defer rows.Close()

	totals := map[string]int{}
	for rows.Next() {
		var date string
		var total int64
		if err := rows.Scan(&date, &total); err != nil {
			return nil, err
		}
		totals[date] = int(total)
	}
	return totals, rows.Err()
}
