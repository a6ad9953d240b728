package models

import (
	"fmt"
	"strings"
	"time"
)

type FocusPeriod string

const (
	FocusMorning FocusPeriod = "Morning"
	FocusNoon    FocusPeriod = "Noon"
)

func ParseFocusPeriod(s string) (FocusPeriod, error) {
	switch {
	case equalFold(s, string(FocusMorning)):
		return FocusMorning, nil
	case equalFold(s, string(FocusNoon)):
		return FocusNoon, nil
	}
	return "", fmt.Errorf("invalid focus period %q (expected Morning or Noon)", s)
}

// UserProfile is the context the planning assistant receives about the owner.
type UserProfile struct {
	ID                  string      `json:"id"`
	DisplayName         string      `json:"displayName"`
	Role                string      `json:"role"`
	Bio                 *string     `json:"bio"`
	WorkingStartMinutes int         `json:"workingStartMinutes"`
	WorkingEndMinutes   int         `json:"workingEndMinutes"`
	PrimaryFocusPeriod  FocusPeriod `json:"primaryFocusPeriod"`
	TimeZone            string      `json:"timeZone"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

// ProfileValues are the editable profile fields.
type ProfileValues struct {
	DisplayName         string
	Role                string
	Bio                 *string
	WorkingStartMinutes int
	WorkingEndMinutes   int
	PrimaryFocusPeriod  FocusPeriod
	TimeZone            string
}

func NewUserProfile(v ProfileValues, now time.Time) UserProfile {
	p := UserProfile{ID: NewID(), CreatedAt: now}
	return p.Revise(v, now)
}

func (p UserProfile) Revise(v ProfileValues, now time.Time) UserProfile {
	next := p
	next.DisplayName = strings.TrimSpace(v.DisplayName)
	next.Role = strings.TrimSpace(v.Role)
	next.Bio = v.Bio
	next.WorkingStartMinutes = v.WorkingStartMinutes
	next.WorkingEndMinutes = v.WorkingEndMinutes
	next.PrimaryFocusPeriod = v.PrimaryFocusPeriod
	next.TimeZone = strings.TrimSpace(v.TimeZone)
	next.UpdatedAt = now
	return next
}

// FormatMinutes renders minutes since midnight as HH:MM.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
