package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaan/attendly/internal/app/models/dto"
	"github.com/kaan/attendly/internal/app/services"
	"github.com/kaan/attendly/internal/middleware"
	"github.com/kaan/attendly/internal/pkg/helpers"
)

// TaskRequestController handles task request operations
type TaskRequestController struct {
	taskRequestService services.TaskRequestService
}

// NewTaskRequestController creates a new TaskRequestController
func NewTaskRequestController(taskRequestService services.TaskRequestService) *TaskRequestController {
	return &TaskRequestController{taskRequestService: taskRequestService}
}

// CreateTaskRequest handles issuing a task request
// @Summary Create a task request
// @Description Asks one assignee to take on a task. The assignee answers through the same approve/reject flow as event invitations.
// @Tags task-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTaskRequestRequest true "Task request data"
// @Success 201 {object} dto.APIResponse{data=dto.TaskRequestResponse} "Task request created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Assignee not found"
// @Router /task-requests [post]
func (c *TaskRequestController) CreateTaskRequest(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateTaskRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())))
		return
	}

	response, err := c.taskRequestService.CreateTaskRequest(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// ListTaskRequests handles listing the user's task requests
// @Summary List own task requests
// @Description Retrieves the task requests the authenticated user issued or was assigned, newest first
// @Tags task-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param pageSize query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.TaskRequestListResponse} "Task requests retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Router /task-requests [get]
func (c *TaskRequestController) ListTaskRequests(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)

	response, err := c.taskRequestService.ListTaskRequests(ctx, userID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetTaskRequestByID handles retrieving one task request
// @Summary Get task request by ID
// @Description Retrieves a task request. Visible to its requester and assignee only.
// @Tags task-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task request ID"
// @Success 200 {object} dto.APIResponse{data=dto.TaskRequestResponse} "Task request retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid task request ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Not a party to this task request"
// @Failure 404 {object} dto.ErrorResponse "Task request not found"
// @Router /task-requests/{id} [get]
func (c *TaskRequestController) GetTaskRequestByID(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.taskRequestService.GetTaskRequestByID(ctx, id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Respond handles answering a pending task request
// @Summary Respond to a task request
// @Description Approves or rejects a pending task request. Assignee only; the requester cannot resolve their own request.
// @Tags task-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task request ID"
// @Param request body dto.RespondRequest true "Decision and optional note"
// @Success 200 {object} dto.APIResponse{data=dto.TaskRequestResponse} "Task request resolved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Only the assignee can respond"
// @Failure 404 {object} dto.ErrorResponse "Task request not found"
// @Failure 409 {object} dto.ErrorResponse "Task request already resolved"
// @Router /task-requests/{id}/respond [post]
func (c *TaskRequestController) Respond(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RespondRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())))
		return
	}

	response, err := c.taskRequestService.Respond(ctx, id, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
