package models

import "fmt"

// Mood is the self-reported capacity state, used both for the morning
// check-in and for how the user feels right after finishing a task.
type Mood string

const (
	MoodFresh   Mood = "Fresh"
	MoodNeutral Mood = "Neutral"
	MoodTired   Mood = "Tired"
	MoodTaxed   Mood = "Taxed"
)

// AllMoods lists the moods in display order.
var AllMoods = []Mood{MoodFresh, MoodNeutral, MoodTired, MoodTaxed}

func (m Mood) Valid() bool {
	switch m {
	case MoodFresh, MoodNeutral, MoodTired, MoodTaxed:
		return true
	}
	return false
}

// ParseMood accepts a mood name case-insensitively.
func ParseMood(s string) (Mood, error) {
	for _, m := range AllMoods {
		if equalFold(string(m), s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid mood %q (expected Fresh, Neutral, Tired or Taxed)", s)
}

// Label is the human-readable form shown next to a check-in.
func (m Mood) Label() string {
	switch m {
	case MoodFresh:
		return "Fresh and rested"
	case MoodNeutral:
		return "Neutral"
	case MoodTired:
		return "A bit tired"
	case MoodTaxed:
		return "Taxed, running low"
	default:
		return string(m)
	}
}
