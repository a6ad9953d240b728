package models

import (
	"fmt"
	"strings"
	"time"
)

type Intensity string

const (
	IntensityDeepFocus Intensity = "DeepFocus"
	IntensityRoutine   Intensity = "Routine"
	IntensityQuickWin  Intensity = "QuickWin"
	IntensityMeeting   Intensity = "Meeting"
)

var AllIntensities = []Intensity{IntensityDeepFocus, IntensityRoutine, IntensityQuickWin, IntensityMeeting}

func ParseIntensity(s string) (Intensity, error) {
	for _, i := range AllIntensities {
		if equalFold(string(i), s) {
			return i, nil
		}
	}
	return "", fmt.Errorf("invalid intensity %q (expected DeepFocus, Routine, QuickWin or Meeting)", s)
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusCancelled  TaskStatus = "Cancelled"
)

// Task is owned by the task CRUD layer. The planning core only reads it,
// except for marking it completed.
type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Intensity   Intensity  `json:"intensity"`
	DueAt       *time.Time `json:"dueAt"`
	Tags        []string   `json:"tags"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// NewTask builds a pending task with a fresh id.
func NewTask(ownerID, title string, intensity Intensity, dueAt *time.Time, tags []string, now time.Time) Task {
	return Task{
		ID:        NewID(),
		OwnerID:   ownerID,
		Title:     strings.TrimSpace(title),
		Intensity: intensity,
		DueAt:     dueAt,
		Tags:      NormalizeTags(tags),
		Status:    TaskStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithStatus returns a copy of t in the given status. Moving into Completed
// stamps CompletedAt; moving out of it clears the stamp.
func (t Task) WithStatus(status TaskStatus, now time.Time) Task {
	next := t
	next.Status = status
	next.UpdatedAt = now
	if status == TaskStatusCompleted {
		at := now
		next.CompletedAt = &at
	} else {
		next.CompletedAt = nil
	}
	return next
}

// Open reports whether the task still belongs in the backlog.
func (t Task) Open() bool {
	return t.Status != TaskStatusCompleted
}

// NormalizeTags trims, drops blanks and de-duplicates tags, keeping order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
