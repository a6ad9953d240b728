package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/storage"
)

func (s *Store) GetProfile(ctx context.Context, id string) (models.UserProfile, error) {
	row := s.queryRow(ctx, `
SELECT id, display_name, role, bio, working_start_minutes, working_end_minutes,
       primary_focus_period, time_zone, created_at, updated_at
FROM profiles WHERE id = ?`, id)

	var p models.UserProfile
	var bio sql.NullString
	var focus, createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.DisplayName, &p.Role, &bio, &p.WorkingStartMinutes, &p.WorkingEndMinutes,
		&focus, &p.TimeZone, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, storage.ErrNotFound
	}
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	p.Bio = stringPtr(bio)
	p.PrimaryFocusPeriod = models.FocusPeriod(focus)
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.UserProfile{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

func (s *Store) SaveProfile(ctx context.Context, p models.UserProfile) error {
	_, err := s.exec(ctx, `
INSERT INTO profiles (id, display_name, role, bio, working_start_minutes, working_end_minutes,
                      primary_focus_period, time_zone, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    display_name = excluded.display_name,
    role = excluded.role,
    bio = excluded.bio,
    working_start_minutes = excluded.working_start_minutes,
    working_end_minutes = excluded.working_end_minutes,
    primary_focus_period = excluded.primary_focus_period,
    time_zone = excluded.time_zone,
    updated_at = excluded.updated_at`,
		p.ID, p.DisplayName, p.Role, nullString(p.Bio), p.WorkingStartMinutes, p.WorkingEndMinutes,
		string(p.PrimaryFocusPeriod), p.TimeZone, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
