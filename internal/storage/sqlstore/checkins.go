package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/storage"
)

const checkInColumns = `id, owner_id, check_in_date, rest_quality, morning_mood, energy_budget, sleep_notes, evening_summary, created_at, updated_at`

func scanCheckIn(row scanner) (models.CheckIn, error) {
	var c models.CheckIn
	var mood, createdAt, updatedAt string
	var sleepNotes, eveningSummary sql.NullString

	if err := row.Scan(&c.ID, &c.OwnerID, &c.Date, &c.RestQuality, &mood, &c.EnergyBudget,
		&sleepNotes, &eveningSummary, &createdAt, &updatedAt); err != nil {
		return models.CheckIn{}, err
	}

	c.Mood = models.Mood(mood)
	c.SleepNotes = stringPtr(sleepNotes)
	c.EveningSummary = stringPtr(eveningSummary)

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.CheckIn{}, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.CheckIn{}, err
	}
	return c, nil
}

func (s *Store) GetCheckIn(ctx context.Context, ownerID, date string) (models.CheckIn, error) {
	c, err := scanCheckIn(s.queryRow(ctx,
		`SELECT `+checkInColumns+` FROM check_ins WHERE owner_id = ? AND check_in_date = ?`, ownerID, date))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CheckIn{}, storage.ErrNotFound
	}
	if err != nil {
		return models.CheckIn{}, fmt.Errorf("failed to get check-in: %w", err)
	}
	return c, nil
}

func (s *Store) UpsertCheckIn(ctx context.Context, c models.CheckIn) (models.CheckIn, error) {
	_, err := s.exec(ctx, `
INSERT INTO check_ins (`+checkInColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (owner_id, check_in_date) DO UPDATE SET
    rest_quality = excluded.rest_quality,
    morning_mood = excluded.morning_mood,
    energy_budget = excluded.energy_budget,
    sleep_notes = excluded.sleep_notes,
    evening_summary = excluded.evening_summary,
    updated_at = excluded.updated_at`,
		c.ID, c.OwnerID, c.Date, c.RestQuality, string(c.Mood), c.EnergyBudget,
		nullString(c.SleepNotes), nullString(c.EveningSummary), formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return models.CheckIn{}, fmt.Errorf("failed to save check-in: %w", err)
	}
	return s.GetCheckIn(ctx, c.OwnerID, c.Date)
}

func (s *Store) ListCheckIns(ctx context.Context, ownerID, from, to string) ([]models.CheckIn, error) {
	rows, err := s.query(ctx, `
SELECT `+checkInColumns+` FROM check_ins
WHERE owner_id = ? AND check_in_date >= ? AND check_in_date <= ?
ORDER BY check_in_date ASC`, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	checkIns := []models.CheckIn{}
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		checkIns = append(checkIns, c)
	}
	return checkIns, rows.Err()
}
