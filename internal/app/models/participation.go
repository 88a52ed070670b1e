package models

import (
	"time"

	"github.com/kaan/attendly/internal/app/workflow"
)

// Participation is a user's invitation/response record for one event. At most
// one row exists per (event, user) pair; re-inviting updates the existing row.
type Participation struct {
	ID          int64             `json:"id" db:"id"`
	EventID     int64             `json:"eventId" db:"event_id"`
	UserID      int64             `json:"userId" db:"user_id"`
	Kind        ParticipationKind `json:"kind" db:"kind"`
	Status      workflow.Status   `json:"status" db:"status"`
	Note        *string           `json:"note,omitempty" db:"note"`
	InvitedBy   int64             `json:"invitedBy" db:"invited_by"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time         `json:"updatedAt" db:"updated_at"`
	RespondedAt *time.Time        `json:"respondedAt,omitempty" db:"responded_at"`

	// Related entities
	User  *User  `json:"user,omitempty"`
	Event *Event `json:"event,omitempty"`
}
