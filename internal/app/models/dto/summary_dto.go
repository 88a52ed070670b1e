package dto

import "time"

// SummaryResponse aggregates a user's approved participation. Points weigh
// PARTICIPATION at 1.0 and PREPARATION at 0.5; pending and rejected rows
// contribute nothing.
type SummaryResponse struct {
	ThisCycleCount int     `json:"thisCycleCount" example:"2"`
	TotalCount     int     `json:"totalCount" example:"41"`
	TotalPoints    float64 `json:"totalPoints" example:"35.5"`
	MonthPoints    float64 `json:"monthPoints" example:"3.0"`
}

// ComplianceResponse reports whether the user has an approved participation
// of each kind inside the current cycle.
type ComplianceResponse struct {
	CycleStart       time.Time `json:"cycleStart"`
	CycleEnd         time.Time `json:"cycleEnd"`
	HasParticipation bool      `json:"hasParticipation"`
	HasPreparation   bool      `json:"hasPreparation"`
}
