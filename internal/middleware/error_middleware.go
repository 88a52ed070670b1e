package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kaan/attendly/internal/app/models/dto"
	"github.com/kaan/attendly/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto the standard error envelope.
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) {
		handleCustomError(c, customErr)
		return
	}

	var partialErr *apperrors.PartialFailureError
	if errors.As(err, &partialErr) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodePartialFailure, "Some users could not be processed")
		errorDetail = errorDetail.WithDetails(partialErr.FailedUserIDs)
		c.JSON(207, dto.APIResponse{Error: errorDetail})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Event not found"),
		})
	case errors.Is(err, apperrors.ErrParticipationNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Participation not found"),
		})
	case errors.Is(err, apperrors.ErrTaskRequestNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Task request not found"),
		})
	case errors.Is(err, apperrors.ErrUserNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "User not found"),
		})
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found"),
		})
	case errors.Is(err, apperrors.ErrAlreadyResolved):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidState, "Approval has already been resolved"),
		})
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidState, "Operation not allowed in the current state"),
		})
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Resource already exists"),
		})
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied"),
		})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	case errors.Is(err, apperrors.ErrInvalidTimeSpan):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Event end time must be after start time").WithField("endTime"),
		})
	case errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed"),
		})
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "An internal server error occurred"),
		})
	}
}

// handleCustomError keeps the message and details the service attached.
func handleCustomError(c *gin.Context, customErr *apperrors.CustomError) {
	status := 500
	code := dto.ErrorCodeInternalServer

	switch {
	case errors.Is(customErr.Err, apperrors.ErrResourceNotFound):
		status, code = 404, dto.ErrorCodeResourceNotFound
	case errors.Is(customErr.Err, apperrors.ErrPermissionDenied):
		status, code = 403, dto.ErrorCodeForbidden
	case errors.Is(customErr.Err, apperrors.ErrValidationFailed):
		status, code = 400, dto.ErrorCodeValidationFailed
	case errors.Is(customErr.Err, apperrors.ErrInvalidState):
		status, code = 409, dto.ErrorCodeInvalidState
	case errors.Is(customErr.Err, apperrors.ErrResourceAlreadyExists), errors.Is(customErr.Err, apperrors.ErrConflict):
		status, code = 409, dto.ErrorCodeResourceAlreadyExists
	case errors.Is(customErr.Err, apperrors.ErrBadRequest):
		status, code = 400, dto.ErrorCodeValidationFailed
	}

	errorDetail := dto.NewErrorDetail(code, customErr.Message)
	if customErr.Details != nil {
		errorDetail = errorDetail.WithDetails(customErr.Details)
	}
	c.JSON(status, dto.APIResponse{Error: errorDetail})
}
