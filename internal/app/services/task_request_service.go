package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaan/attendly/internal/app/models"
	"github.com/kaan/attendly/internal/app/models/dto"
	"github.com/kaan/attendly/internal/app/workflow"
	"github.com/kaan/attendly/internal/pkg/apperrors"
	"github.com/kaan/attendly/internal/pkg/helpers"
)

// TaskRequestService defines the interface for task request operations
type TaskRequestService interface {
	CreateTaskRequest(ctx context.Context, requesterID int64, req *dto.CreateTaskRequestRequest) (*dto.TaskRequestResponse, error)
	GetTaskRequestByID(ctx context.Context, id, actorID int64) (*dto.TaskRequestResponse, error)
	ListTaskRequests(ctx context.Context, userID int64, page, pageSize int) (*dto.TaskRequestListResponse, error)
	Respond(ctx context.Context, id, actorID int64, req *dto.RespondRequest) (*dto.TaskRequestResponse, error)
}

// taskRequestServiceImpl implements TaskRequestService
type taskRequestServiceImpl struct {
	taskRequestRepo TaskRequestRepo
	userRepo        UserRepo
	logger          zerolog.Logger
}

// NewTaskRequestService creates a new TaskRequestService
func NewTaskRequestService(taskRequestRepo TaskRequestRepo, userRepo UserRepo, logger zerolog.Logger) TaskRequestService {
	return &taskRequestServiceImpl{
		taskRequestRepo: taskRequestRepo,
		userRepo:        userRepo,
		logger:          logger,
	}
}

// CreateTaskRequest issues a request to exactly one assignee. Self-assignment
// is rejected: a request the requester could resolve alone is not a request.
func (s *taskRequestServiceImpl) CreateTaskRequest(ctx context.Context, requesterID int64, req *dto.CreateTaskRequestRequest) (*dto.TaskRequestResponse, error) {
	if req.AssigneeID == requesterID {
		return nil, apperrors.NewValidationError("a task request cannot be assigned to its requester")
	}
	if _, err := s.userRepo.FindByID(ctx, req.AssigneeID); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("assignee not found")
		}
		return nil, err
	}

	t := &models.TaskRequest{
		Title:       req.Title,
		Detail:      req.Detail,
		RequesterID: requesterID,
		AssigneeID:  req.AssigneeID,
		Status:      workflow.StatusPending,
	}

	id, err := s.taskRequestRepo.Create(ctx, t)
	if err != nil {
		s.logger.Error().Err(err).Int64("requesterId", requesterID).Msg("Failed to create task request")
		return nil, err
	}
	t.ID = id

	s.logger.Info().Int64("taskRequestId", id).Int64("assigneeId", req.AssigneeID).
		Msg("Task request created")

	resp := mapTaskRequestToResponse(t)
	return &resp, nil
}

// GetTaskRequestByID retrieves a task request visible to its two parties
func (s *taskRequestServiceImpl) GetTaskRequestByID(ctx context.Context, id, actorID int64) (*dto.TaskRequestResponse, error) {
	t, err := s.taskRequestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != t.RequesterID && actorID != t.AssigneeID {
		return nil, apperrors.NewForbiddenError("task requests are visible to their two parties only")
	}

	resp := mapTaskRequestToResponse(t)
	return &resp, nil
}

// ListTaskRequests retrieves the task requests a user is party to
func (s *taskRequestServiceImpl) ListTaskRequests(ctx context.Context, userID int64, page, pageSize int) (*dto.TaskRequestListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)

	requests, total, err := s.taskRequestRepo.ListForUser(ctx, userID, offset, limit)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", userID).Msg("Failed to list task requests")
		return nil, err
	}

	resp := &dto.TaskRequestListResponse{
		TaskRequests:   make([]dto.TaskRequestResponse, 0, len(requests)),
		PaginationInfo: helpers.NewPaginationInfo(total, page, pageSize),
	}
	for _, t := range requests {
		resp.TaskRequests = append(resp.TaskRequests, mapTaskRequestToResponse(t))
	}
	return resp, nil
}

// Respond answers a pending task request. Only the assignee may respond; in
// particular the requester cannot resolve their own request.
func (s *taskRequestServiceImpl) Respond(ctx context.Context, id, actorID int64, req *dto.RespondRequest) (*dto.TaskRequestResponse, error) {
	t, err := s.taskRequestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := workflow.Decision(req.Decision)
	authorized := workflow.Allows(actorID, workflow.Resource{
		OwnerID:     t.RequesterID,
		ResponderID: t.AssigneeID,
	}, workflow.ActionRespond)

	next, err := workflow.Transition(t.Status, decision, authorized)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotAuthorized):
			return nil, apperrors.NewForbiddenError("only the assignee can respond")
		case errors.Is(err, workflow.ErrAlreadyResolved):
			return nil, apperrors.ErrAlreadyResolved
		default:
			return nil, apperrors.NewValidationError("unknown decision")
		}
	}
	if err := workflow.ValidateNote(next, req.Note); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	now := time.Now()
	if err := s.taskRequestRepo.Resolve(ctx, id, next, req.Note, now); err != nil {
		return nil, err
	}
	t.Status = next
	t.Note = req.Note
	t.RespondedAt = &now

	s.logger.Info().Int64("taskRequestId", id).Str("status", string(next)).
		Msg("Task request resolved")

	resp := mapTaskRequestToResponse(t)
	return &resp, nil
}

func mapTaskRequestToResponse(t *models.TaskRequest) dto.TaskRequestResponse {
	return dto.TaskRequestResponse{
		ID:          t.ID,
		Title:       t.Title,
		Detail:      t.Detail,
		RequesterID: t.RequesterID,
		AssigneeID:  t.AssigneeID,
		Status:      string(t.Status),
		Note:        t.Note,
		CreatedAt:   t.CreatedAt,
		RespondedAt: t.RespondedAt,
	}
}
