package dto

import "time"

// CreateEventRequest is the payload for creating an event. Times of day use
// "HH:MM"; the date uses "2006-01-02". Both are interpreted in the
// organization's timezone.
type CreateEventRequest struct {
	Name         string  `json:"name" binding:"required,min=2,max=200"`
	EventType    string  `json:"eventType" binding:"required,oneof=OFFICIAL TEAM OTHER"`
	EventDate    string  `json:"eventDate" binding:"required"`
	StartTime    *string `json:"startTime,omitempty"`
	EndTime      *string `json:"endTime,omitempty"`
	LocationID   *int64  `json:"locationId,omitempty"`
	LocationText *string `json:"locationText,omitempty"`
	Description  *string `json:"description,omitempty"`
	Capacity     *int    `json:"capacity,omitempty" binding:"omitempty,min=1"`
	ProjectID    *int64  `json:"projectId,omitempty"`

	// InviteeIDs are invited with kind PARTICIPATION at creation time.
	// They start PENDING; only the creator's own row is pre-approved.
	InviteeIDs []int64 `json:"inviteeIds,omitempty"`
}

// UpdateEventRequest carries partial event fields. Nil fields are left
// untouched; the creator and creation timestamp are never writable.
type UpdateEventRequest struct {
	Name         *string `json:"name,omitempty" binding:"omitempty,min=2,max=200"`
	EventType    *string `json:"eventType,omitempty" binding:"omitempty,oneof=OFFICIAL TEAM OTHER"`
	EventDate    *string `json:"eventDate,omitempty"`
	StartTime    *string `json:"startTime,omitempty"`
	EndTime      *string `json:"endTime,omitempty"`
	LocationID   *int64  `json:"locationId,omitempty"`
	LocationText *string `json:"locationText,omitempty"`
	Description  *string `json:"description,omitempty"`
	Capacity     *int    `json:"capacity,omitempty" binding:"omitempty,min=1"`
	ProjectID    *int64  `json:"projectId,omitempty"`
}

// EventFilterRequest narrows the event list.
type EventFilterRequest struct {
	EventType *string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

// EventResponse is the API shape of an event.
type EventResponse struct {
	ID               int64     `json:"id" example:"12"`
	Name             string    `json:"name" example:"Town Meeting"`
	EventType        string    `json:"eventType" example:"OFFICIAL"`
	EventDate        string    `json:"eventDate" example:"2024-06-10"`
	StartTime        *string   `json:"startTime,omitempty" example:"19:00"`
	EndTime          *string   `json:"endTime,omitempty" example:"21:00"`
	LocationID       *int64    `json:"locationId,omitempty"`
	LocationText     *string   `json:"locationText,omitempty" example:"Main hall"`
	Description      *string   `json:"description,omitempty"`
	Capacity         *int      `json:"capacity,omitempty" example:"80"`
	ProjectID        *int64    `json:"projectId,omitempty"`
	CreatedBy        int64     `json:"createdBy" example:"1"`
	UpdatedBy        int64     `json:"updatedBy" example:"1"`
	ParticipantCount int       `json:"participantCount" example:"7"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	// InitialInvites reports the creation-time invite fan-out, including the
	// user ids that failed to land. Only set on the create response.
	InitialInvites *InviteResponse `json:"initialInvites,omitempty"`
}

// EventDetailResponse adds the participation set to an event.
type EventDetailResponse struct {
	EventResponse
	Participations []ParticipationResponse `json:"participations"`
}

// EventListResponse is a paginated list of events.
type EventListResponse struct {
	Events         []EventResponse `json:"events"`
	PaginationInfo PaginationInfo  `json:"pagination"`
}
