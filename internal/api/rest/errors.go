package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/wertigo/travel-planner/internal/api/shared/errors"
	"github.com/wertigo/travel-planner/internal/domain"
	"github.com/wertigo/travel-planner/internal/logger"
)

// statusByCode maps structured error codes to HTTP statuses
var statusByCode = map[apierrors.ErrorCode]int{
	apierrors.ErrCodeBadRequest:       http.StatusBadRequest,
	apierrors.ErrCodeNotFound:         http.StatusNotFound,
	apierrors.ErrCodeValidationFailed: http.StatusUnprocessableEntity,
	apierrors.ErrCodeUnauthorized:     http.StatusUnauthorized,
	apierrors.ErrCodeForbidden:        http.StatusForbidden,
	apierrors.ErrCodeConflict:         http.StatusConflict,
	apierrors.ErrCodeGone:             http.StatusGone,
	apierrors.ErrCodeInternalError:    http.StatusInternalServerError,
	apierrors.ErrCodeDatabaseError:    http.StatusInternalServerError,
	apierrors.ErrCodeUnavailable:      http.StatusServiceUnavailable,
}

// respondError translates executor errors into HTTP responses. Domain
// sentinels map to their taxonomy statuses; structured API errors map by
// code; anything else is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, apierrors.NewUnauthorizedError("Authentication required"))
	case errors.Is(err, domain.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, apierrors.NewUnauthorizedError("Token expired"))
	case errors.Is(err, domain.ErrPrincipalNotFound):
		c.JSON(http.StatusUnauthorized, apierrors.NewUnauthorizedError("Account no longer exists"))
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, apierrors.NewNotFoundError("Not found"))
	case errors.Is(err, domain.ErrTrackerInactive):
		// Deactivated trackers answer like missing ones
		c.JSON(http.StatusNotFound, apierrors.NewNotFoundError("Tracker not found or inactive"))
	case errors.Is(err, domain.ErrTrackerExpired):
		c.JSON(http.StatusGone, apierrors.NewGoneError("Tracker expired"))
	case errors.Is(err, domain.ErrAccessDenied):
		c.JSON(http.StatusForbidden, apierrors.NewForbiddenError("Access denied"))
	case errors.Is(err, domain.ErrTicketAlreadyUsed):
		c.JSON(http.StatusConflict, apierrors.NewConflictError("Ticket already used"))
	case errors.Is(err, domain.ErrRetriesExhausted):
		c.JSON(http.StatusServiceUnavailable, apierrors.NewUnavailableError("Could not generate a unique code, try again"))
	default:
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) {
			status, ok := statusByCode[apiErr.Code]
			if !ok {
				status = http.StatusInternalServerError
			}
			if status >= http.StatusInternalServerError {
				logger.Error(err, zap.String("path", c.Request.URL.Path))
			}
			c.JSON(status, apiErr)
			return
		}
		logger.Error(err, zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, apierrors.NewInternalError("Internal server error"))
	}
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, apierrors.NewValidationError(message))
}

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}
