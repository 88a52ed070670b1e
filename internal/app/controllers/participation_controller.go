package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaan/attendly/internal/app/models/dto"
	"github.com/kaan/attendly/internal/app/services"
	"github.com/kaan/attendly/internal/middleware"
)

// ParticipationController handles participation operations
type ParticipationController struct {
	participationService services.ParticipationService
}

// NewParticipationController creates a new ParticipationController
func NewParticipationController(participationService services.ParticipationService) *ParticipationController {
	return &ParticipationController{participationService: participationService}
}

// GetParticipants handles listing an event's participation set
// @Summary List event participants
// @Description Retrieves every participation of an event with user details
// @Tags participations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ParticipationResponse} "Participants retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid event ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/participants [get]
func (c *ParticipationController) GetParticipants(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	participants, err := c.participationService.ListParticipants(ctx, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(participants))
}

// Invite handles inviting a set of users to an event
// @Summary Invite users to an event
// @Description Invites users with one kind. Re-inviting with the same kind removes the row; a different kind updates it in place. The result reports each user's outcome and the retryable failed subset.
// @Tags participations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.InviteRequest true "Invitees and kind"
// @Success 200 {object} dto.APIResponse{data=dto.InviteResponse} "Invite fan-out processed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Only the creator can manage invitations"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/participants [post]
func (c *ParticipationController) Invite(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.InviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())))
		return
	}

	response, err := c.participationService.Invite(ctx, eventID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Remove handles withdrawing a participation
// @Summary Remove a participation
// @Description Removes a user's participation in any status together with the derived schedule entry. Allowed for the event creator and the participant themselves.
// @Tags participations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param userId path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Participation removed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to remove this participation"
// @Failure 404 {object} dto.ErrorResponse "Participation not found"
// @Router /events/{id}/participants/{userId} [delete]
func (c *ParticipationController) Remove(ctx *gin.Context) {
	actorID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}

	if err := c.participationService.Remove(ctx, eventID, userID, actorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Participation removed successfully"}))
}

// Respond handles answering a pending participation
// @Summary Respond to an invitation
// @Description Approves or rejects a pending participation. Invited user only. Approval derives the schedule entry; rejection guarantees none exists.
// @Tags participations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Participation ID"
// @Param request body dto.RespondRequest true "Decision and optional note"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipationResponse} "Participation resolved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Only the invited user can respond"
// @Failure 404 {object} dto.ErrorResponse "Participation not found"
// @Failure 409 {object} dto.ErrorResponse "Participation already resolved"
// @Router /participations/{id}/respond [post]
func (c *ParticipationController) Respond(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	participationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RespondRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())))
		return
	}

	response, err := c.participationService.Respond(ctx, participationID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
