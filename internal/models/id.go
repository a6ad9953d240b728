package models

import "github.com/google/uuid"

// NewID returns a time-ordered (v7) UUID string. Falls back to a random v4
// id if the clock-based generator fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
