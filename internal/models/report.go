package models

// DailyReportRow summarizes one checked-in day for trends.
type DailyReportRow struct {
	Date                string `json:"date"`
	RestQuality         int    `json:"restQuality1to10"`
	EnergyBudget        int    `json:"energyBudget"`
	TasksCompletedCount int    `json:"tasksCompletedCount"`
	EnergyUsed          int    `json:"energyUsed"`
	DeepFocusCount      int    `json:"deepFocusCount"`
}
