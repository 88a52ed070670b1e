package models

import "time"

// Event represents a scheduled occurrence owned by its creator. Times of day
// are stored as "HH:MM" strings in the organization's timezone; both are
// optional but when both are present the end must be after the start.
type Event struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	EventType    EventType `json:"eventType" db:"event_type"`
	EventDate    time.Time `json:"eventDate" db:"event_date"`
	StartTime    *string   `json:"startTime,omitempty" db:"start_time"`
	EndTime      *string   `json:"endTime,omitempty" db:"end_time"`
	LocationID   *int64    `json:"locationId,omitempty" db:"location_id"`
	LocationText *string   `json:"locationText,omitempty" db:"location_text"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Capacity     *int      `json:"capacity,omitempty" db:"capacity"`
	ProjectID    *int64    `json:"projectId,omitempty" db:"project_id"`
	CreatedBy    int64     `json:"createdBy" db:"created_by"`
	UpdatedBy    int64     `json:"updatedBy" db:"updated_by"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Participations []*Participation `json:"participations,omitempty"`
}

// SameWindow reports whether other occupies the same date and time window.
// Used to decide whether derived schedule entries need re-deriving.
func (e *Event) SameWindow(other *Event) bool {
	if !e.EventDate.Equal(other.EventDate) {
		return false
	}
	return equalClock(e.StartTime, other.StartTime) && equalClock(e.EndTime, other.EndTime)
}

func equalClock(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
