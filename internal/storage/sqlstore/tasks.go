package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/storage"
)

const taskColumns = `id, owner_id, title, description, intensity, due_at, tags, status, created_at, updated_at, completed_at`

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	var description, dueAt, completedAt sql.NullString
	var intensity, status, tags, createdAt, updatedAt string

	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &description, &intensity, &dueAt, &tags, &status,
		&createdAt, &updatedAt, &completedAt); err != nil {
		return models.Task{}, err
	}

	t.Description = stringPtr(description)
	t.Intensity = models.Intensity(intensity)
	t.Status = models.TaskStatus(status)

	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		return models.Task{}, fmt.Errorf("failed to decode tags for task %s: %w", t.ID, err)
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}

	var err error
	if t.DueAt, err = parseNullTime(dueAt); err != nil {
		return models.Task{}, err
	}
	if t.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return models.Task{}, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Task{}, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) AddTask(ctx context.Context, t models.Task) error {
	tags, err := encodeJSON(models.NormalizeTags(t.Tags))
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	_, err = s.exec(ctx, `
INSERT INTO tasks (`+taskColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Title, nullString(t.Description), string(t.Intensity), nullTime(t.DueAt), tags,
		string(t.Status), formatTime(t.CreatedAt), formatTime(t.UpdatedAt), nullTime(t.CompletedAt))
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	t, err := scanTask(s.queryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (s *Store) SaveTask(ctx context.Context, t models.Task) error {
	tags, err := encodeJSON(models.NormalizeTags(t.Tags))
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	res, err := s.exec(ctx, `
UPDATE tasks SET title = ?, description = ?, intensity = ?, due_at = ?, tags = ?, status = ?,
                 updated_at = ?, completed_at = ?
WHERE id = ?`,
		t.Title, nullString(t.Description), string(t.Intensity), nullTime(t.DueAt), tags, string(t.Status),
		formatTime(t.UpdatedAt), nullTime(t.CompletedAt), t.ID)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListOpenTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	return s.listTasks(ctx, `
SELECT `+taskColumns+` FROM tasks
WHERE owner_id = ? AND status <> ?
ORDER BY created_at ASC, id ASC`, ownerID, string(models.TaskStatusCompleted))
}

func (s *Store) ListCompletedTasks(ctx context.Context, ownerID string, from, to time.Time) ([]models.Task, error) {
	return s.listTasks(ctx, `
SELECT `+taskColumns+` FROM tasks
WHERE owner_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?
ORDER BY completed_at ASC, id ASC`, ownerID, string(models.TaskStatusCompleted), formatTime(from), formatTime(to))
}

func (s *Store) listTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
