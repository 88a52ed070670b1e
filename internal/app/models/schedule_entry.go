package models

import "time"

// ScheduleEntry is a personal-calendar record derived from an approved
// participation. It mirrors the source event's window and is never authored
// directly: one entry exists per (user, event) pair exactly while the
// matching participation is APPROVED.
type ScheduleEntry struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	EventID   int64     `json:"eventId" db:"event_id"`
	EntryDate time.Time `json:"entryDate" db:"entry_date"`
	StartTime *string   `json:"startTime,omitempty" db:"start_time"`
	EndTime   *string   `json:"endTime,omitempty" db:"end_time"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Event *Event `json:"event,omitempty"`
}
