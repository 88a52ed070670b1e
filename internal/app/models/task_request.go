package models

import (
	"time"

	"github.com/kaan/attendly/internal/app/workflow"
)

// TaskRequest is the two-party sibling of an event participation: a request
// from one user to exactly one assignee, resolved through the same approval
// machine but with no derived schedule side effect.
type TaskRequest struct {
	ID          int64           `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Detail      *string         `json:"detail,omitempty" db:"detail"`
	RequesterID int64           `json:"requesterId" db:"requester_id"`
	AssigneeID  int64           `json:"assigneeId" db:"assignee_id"`
	Status      workflow.Status `json:"status" db:"status"`
	Note        *string         `json:"note,omitempty" db:"note"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
	RespondedAt *time.Time      `json:"respondedAt,omitempty" db:"responded_at"`
}
