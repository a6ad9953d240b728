package models

import "time"

// EnergyDeductionEvent is an append-only ledger entry written when a task is
// completed on a day that has a check-in. TaskIntensitySnapshot keeps the
// event meaningful after the task itself changes.
type EnergyDeductionEvent struct {
	ID                    string    `json:"id"`
	OwnerID               string    `json:"ownerId"`
	PlanDate              string    `json:"planDate"` // YYYY-MM-DD
	TaskID                string    `json:"taskId"`
	CapacityStateAfter    Mood      `json:"capacityStateAfter"`
	DeductedAmount        int       `json:"deductedAmount"`
	TaskIntensitySnapshot Intensity `json:"taskIntensitySnapshot"`
	CreatedAt             time.Time `json:"createdAt"`
}

// RemainingEnergy is derived on read, never stored.
type RemainingEnergy struct {
	EnergyBudget  int `json:"energyBudget"`
	TotalDeducted int `json:"totalDeducted"`
	Remaining     int `json:"remaining"`
}
