package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SeattleChris/hepcat-sub000/internal/app/models/dto"
	"github.com/SeattleChris/hepcat-sub000/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto the standard response envelope.
// Controllers call this for any error crossing the service boundary.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound),
		errors.Is(err, apperrors.ErrClassOfferNotFound),
		errors.Is(err, apperrors.ErrSubjectNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound):
		respond(c, 404, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found").WithDetails(err.Error()))

	case errors.Is(err, apperrors.ErrSessionAlreadyExists):
		respond(c, 409, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Session name already in use"))

	case errors.Is(err, apperrors.ErrSchedulingConflict):
		respond(c, 409, dto.NewErrorDetail(dto.ErrorCodeSchedulingConflict, "Session overlaps its neighbor and cannot be resolved").WithDetails(err.Error()))

	case errors.Is(err, apperrors.ErrConcurrencyConflict):
		respond(c, 409, dto.NewErrorDetail(dto.ErrorCodeConcurrencyConflict, "Concurrent update detected, retry the request").WithSeverity(dto.ErrorSeverityWarning))

	case errors.Is(err, apperrors.ErrInvalidField):
		respond(c, 400, dto.NewErrorDetail(dto.ErrorCodeInvalidField, "Unknown field for default computation").WithDetails(err.Error()))

	case errors.Is(err, apperrors.ErrTypeMismatch),
		errors.Is(err, apperrors.ErrValidationFailed):
		respond(c, 400, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(err.Error()))

	case errors.Is(err, apperrors.ErrNotSupported):
		respond(c, 501, dto.NewErrorDetail(dto.ErrorCodeNotSupported, "Operation intentionally unsupported").WithDetails(err.Error()))

	default:
		respond(c, 500, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"))
	}
}

func respond(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.JSON(status, dto.APIResponse{
		Error:     detail,
		Timestamp: time.Now(),
	})
}
