// Package scheduler ranks open tasks deterministically by urgency, intensity
// and how well they fit the day's energy budget. It is the fallback whenever
// the model-based ranking cannot be trusted, so it never fails.
package scheduler

import (
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/utils"
)

const reasonSeparator = " • "

// ScoredTask is one entry of a ranking.
type ScoredTask struct {
	ID        string
	Score     int
	Reasoning string
}

type Scheduler struct {
	policy Policy
}

func New() *Scheduler {
	return &Scheduler{policy: DefaultPolicy()}
}

func NewWithPolicy(p Policy) *Scheduler {
	return &Scheduler{policy: p}
}

// Rank scores every task and returns them best first. planDate is midnight
// of the plan day in the owner's timezone; due dates are compared as
// calendar days in that zone. Ties keep older tasks first, then order by id
// so repeated runs agree.
func (s *Scheduler) Rank(tasks []models.Task, energyBudget int, planDate time.Time) []ScoredTask {
	type entry struct {
		scored  ScoredTask
		created time.Time
	}

	entries := make([]entry, 0, len(tasks))
	for _, task := range tasks {
		urgency, urgencyReason := urgencyScore(task.DueAt, planDate)
		base, intensityLabel := intensityScore(task.Intensity)
		fit := s.policy.fit(energyBudget, task.Intensity)

		entries = append(entries, entry{
			scored: ScoredTask{
				ID:        task.ID,
				Score:     urgency + base + fit.Delta,
				Reasoning: strings.Join([]string{urgencyReason, intensityLabel, fit.Note}, reasonSeparator),
			},
			created: task.CreatedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.scored.Score != b.scored.Score {
			return a.scored.Score > b.scored.Score
		}
		if !a.created.Equal(b.created) {
			return a.created.Before(b.created)
		}
		return a.scored.ID < b.scored.ID
	})

	ranked := make([]ScoredTask, len(entries))
	for i, e := range entries {
		ranked[i] = e.scored
	}
	return ranked
}

func urgencyScore(dueAt *time.Time, planDate time.Time) (int, string) {
	if dueAt == nil {
		return 0, "No due date"
	}
	days := utils.CalendarDaysBetween(planDate, dueAt.In(planDate.Location()))
	switch {
	case days < 0:
		return 40, "Overdue"
	case days == 0:
		return 30, "Due today"
	case days == 1:
		return 20, "Due tomorrow"
	case days <= 7:
		return 10, "Due later this week"
	default:
		return 0, "Due later"
	}
}

func intensityScore(intensity models.Intensity) (int, string) {
	switch intensity {
	case models.IntensityDeepFocus:
		return 20, "DeepFocus (high intensity)"
	case models.IntensityQuickWin:
		return 15, "QuickWin (low effort, fast win)"
	case models.IntensityRoutine:
		return 10, "Routine (medium intensity)"
	case models.IntensityMeeting:
		return 5, "Meeting"
	default:
		return 0, "Unspecified intensity"
	}
}
