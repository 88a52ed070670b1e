package dto

import "time"

// CreateTaskRequestRequest asks exactly one assignee to take on a task.
type CreateTaskRequestRequest struct {
	Title      string  `json:"title" binding:"required,min=2,max=200"`
	Detail     *string `json:"detail,omitempty" binding:"omitempty,max=2000"`
	AssigneeID int64   `json:"assigneeId" binding:"required"`
}

// TaskRequestResponse is the API shape of a task request.
type TaskRequestResponse struct {
	ID          int64      `json:"id" example:"9"`
	Title       string     `json:"title" example:"Prepare agenda"`
	Detail      *string    `json:"detail,omitempty"`
	RequesterID int64      `json:"requesterId" example:"1"`
	AssigneeID  int64      `json:"assigneeId" example:"4"`
	Status      string     `json:"status" example:"PENDING"`
	Note        *string    `json:"note,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

// TaskRequestListResponse is a paginated list of task requests.
type TaskRequestListResponse struct {
	TaskRequests   []TaskRequestResponse `json:"taskRequests"`
	PaginationInfo PaginationInfo        `json:"pagination"`
}
