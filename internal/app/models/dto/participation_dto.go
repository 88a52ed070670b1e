package dto

import "time"

// InviteRequest invites a set of users to an event with one kind. Repeating
// the call with the same arguments toggles the matching rows off.
type InviteRequest struct {
	UserIDs []int64 `json:"userIds" binding:"required,min=1"`
	Kind    string  `json:"kind" binding:"required,oneof=PARTICIPATION PREPARATION"`
}

// RespondRequest answers a pending participation.
type RespondRequest struct {
	Decision string  `json:"decision" binding:"required,oneof=APPROVE REJECT"`
	Note     *string `json:"note,omitempty" binding:"omitempty,max=500"`
}

// ParticipationResponse is the API shape of a participation row.
type ParticipationResponse struct {
	ID          int64              `json:"id" example:"31"`
	EventID     int64              `json:"eventId" example:"12"`
	UserID      int64              `json:"userId" example:"4"`
	Kind        string             `json:"kind" example:"PARTICIPATION"`
	Status      string             `json:"status" example:"PENDING"`
	Note        *string            `json:"note,omitempty"`
	InvitedBy   int64              `json:"invitedBy" example:"1"`
	RespondedAt *time.Time         `json:"respondedAt,omitempty"`
	User        *UserBasicResponse `json:"user,omitempty"`
}

// InviteOutcome reports what happened to a single user inside one invite
// fan-out. Exactly one of Participation or Error is meaningful: a failed user
// keeps Error set so the caller can retry just that subset.
type InviteOutcome struct {
	UserID        int64                  `json:"userId" example:"4"`
	Action        string                 `json:"action" example:"INVITED" enums:"INVITED,REMOVED,KIND_UPDATED,FAILED"`
	Participation *ParticipationResponse `json:"participation,omitempty"`
	Error         string                 `json:"error,omitempty"`
}

// Invite outcome actions
const (
	InviteActionInvited     = "INVITED"
	InviteActionRemoved     = "REMOVED"
	InviteActionKindUpdated = "KIND_UPDATED"
	InviteActionFailed      = "FAILED"
)

// InviteResponse is the per-user result list of an invite fan-out.
// FailedUserIDs is the retryable subset; it is empty on full success.
type InviteResponse struct {
	Outcomes      []InviteOutcome `json:"outcomes"`
	FailedUserIDs []int64         `json:"failedUserIds,omitempty"`
}
