package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaan/attendly/internal/app/models/dto"
	"github.com/kaan/attendly/internal/app/services"
	"github.com/kaan/attendly/internal/middleware"
)

// UserController handles the authenticated user's derived views: schedule,
// summary and compliance.
type UserController struct {
	scheduleService services.ScheduleService
	summaryService  services.SummaryService
}

// NewUserController creates a new UserController
func NewUserController(scheduleService services.ScheduleService, summaryService services.SummaryService) *UserController {
	return &UserController{
		scheduleService: scheduleService,
		summaryService:  summaryService,
	}
}

// GetSchedule handles retrieving the user's derived schedule
// @Summary Get own schedule
// @Description Retrieves the authenticated user's derived schedule entries, optionally restricted to a date range
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param from query string false "Earliest entry date (YYYY-MM-DD)"
// @Param to query string false "Latest entry date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.ScheduleResponse} "Schedule retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Router /users/me/schedule [get]
func (c *UserController) GetSchedule(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	from, ok := parseDateQuery(ctx, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(ctx, "to")
	if !ok {
		return
	}

	schedule, err := c.scheduleService.GetUserSchedule(ctx, userID, from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(schedule))
}

// GetSummary handles retrieving the user's participation summary
// @Summary Get own participation summary
// @Description Aggregates the authenticated user's approved participations into counts and weighted points
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param from query string false "Earliest event date for the totals (YYYY-MM-DD)"
// @Param to query string false "Latest event date for the totals (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=dto.SummaryResponse} "Summary retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Router /users/me/summary [get]
func (c *UserController) GetSummary(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	from, ok := parseDateQuery(ctx, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(ctx, "to")
	if !ok {
		return
	}

	summary, err := c.summaryService.GetSummary(ctx, userID, from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary))
}

// GetCompliance handles retrieving the user's current-cycle compliance
// @Summary Get own compliance
// @Description Reports whether the authenticated user has an approved participation of each kind inside the current cycle
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ComplianceResponse} "Compliance retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Router /users/me/compliance [get]
func (c *UserController) GetCompliance(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	compliance, err := c.summaryService.GetCompliance(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(compliance))
}
