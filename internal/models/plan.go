package models

import "time"

// DailyPlan is the ranked recommendation for one owner and date. There is
// at most one per (OwnerID, PlanDate); regenerating overwrites it.
type DailyPlan struct {
	ID               string            `json:"id"`
	OwnerID          string            `json:"ownerId"`
	PlanDate         string            `json:"planDate"` // YYYY-MM-DD
	EnergyBudget     int               `json:"energyBudget"`
	AlgorithmVersion string            `json:"algorithmVersion"`
	RankedTaskIDs    []string          `json:"rankedTaskIds"`
	TaskReasoning    map[string]string `json:"taskReasoning"`
	ReasoningSummary *string           `json:"reasoningSummary"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// PlanContent is everything a generation run produces.
type PlanContent struct {
	EnergyBudget     int
	AlgorithmVersion string
	RankedTaskIDs    []string
	TaskReasoning    map[string]string
	ReasoningSummary *string
}

func NewDailyPlan(ownerID, planDate string, c PlanContent, now time.Time) DailyPlan {
	p := DailyPlan{
		ID:        NewID(),
		OwnerID:   ownerID,
		PlanDate:  planDate,
		CreatedAt: now,
	}
	return p.Revise(c, now)
}

// Revise replaces the generated content of p, keeping its identity and
// creation time.
func (p DailyPlan) Revise(c PlanContent, now time.Time) DailyPlan {
	next := p
	next.EnergyBudget = c.EnergyBudget
	next.AlgorithmVersion = c.AlgorithmVersion
	next.RankedTaskIDs = c.RankedTaskIDs
	if next.RankedTaskIDs == nil {
		next.RankedTaskIDs = []string{}
	}
	next.TaskReasoning = c.TaskReasoning
	if next.TaskReasoning == nil {
		next.TaskReasoning = map[string]string{}
	}
	next.ReasoningSummary = c.ReasoningSummary
	next.UpdatedAt = now
	return next
}

// Empty reports whether the plan was generated against an empty backlog.
func (p DailyPlan) Empty() bool {
	return len(p.RankedTaskIDs) == 0
}

// PlanView is the read shape handed to presentation layers.
type PlanView struct {
	PlanDate         string            `json:"planDate"`
	EnergyBudget     int               `json:"energyBudget"`
	AlgorithmVersion string            `json:"algorithmVersion"`
	RankedTaskIDs    []string          `json:"rankedTaskIds"`
	TaskReasoning    map[string]string `json:"taskReasoning"`
	ReasoningSummary *string           `json:"reasoningSummary"`
}

func (p DailyPlan) View() PlanView {
	return PlanView{
		PlanDate:         p.PlanDate,
		EnergyBudget:     p.EnergyBudget,
		AlgorithmVersion: p.AlgorithmVersion,
		RankedTaskIDs:    p.RankedTaskIDs,
		TaskReasoning:    p.TaskReasoning,
		ReasoningSummary: p.ReasoningSummary,
	}
}
