package models

import "time"

// CheckIn is the morning check-in for one owner and one calendar date.
// The (OwnerID, Date) pair never changes once created.
type CheckIn struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"ownerId"`
	Date           string    `json:"checkInDate"` // YYYY-MM-DD
	RestQuality    int       `json:"restQuality1to10"`
	Mood           Mood      `json:"morningMood"`
	EnergyBudget   int       `json:"energyBudget"`
	SleepNotes     *string   `json:"sleepNotes"`
	EveningSummary *string   `json:"eveningSummary"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CheckInValues are the user-editable fields of a check-in plus the budget
// derived from them.
type CheckInValues struct {
	RestQuality  int
	Mood         Mood
	EnergyBudget int
	SleepNotes   *string
}

func NewCheckIn(ownerID, date string, v CheckInValues, now time.Time) CheckIn {
	return CheckIn{
		ID:           NewID(),
		OwnerID:      ownerID,
		Date:         date,
		RestQuality:  v.RestQuality,
		Mood:         v.Mood,
		EnergyBudget: v.EnergyBudget,
		SleepNotes:   v.SleepNotes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Revise returns a copy of c carrying the new values. Identity, date and
// any evening summary are preserved.
func (c CheckIn) Revise(v CheckInValues, now time.Time) CheckIn {
	next := c
	next.RestQuality = v.RestQuality
	next.Mood = v.Mood
	next.EnergyBudget = v.EnergyBudget
	next.SleepNotes = v.SleepNotes
	next.UpdatedAt = now
	return next
}

func (c CheckIn) WithEveningSummary(summary string, now time.Time) CheckIn {
	next := c
	next.EveningSummary = &summary
	next.UpdatedAt = now
	return next
}
