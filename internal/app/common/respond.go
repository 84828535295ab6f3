// Package common holds helpers shared by the HTTP handlers.
package common

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
)

// fieldErrorer is implemented by validation errors that can name the exact
// request fields at fault.
type fieldErrorer interface {
	Fields() []models.FieldError
}

// Error writes a plain {status, message} error body.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, models.APIError{Status: status, Message: message})
}

// DomainError maps a service error onto the wire contract: validation → 400,
// missing auth → 401, forbidden and quota → 403, absent rows → 404,
// generation-ineligible notes → 422, everything else → 500 with an opaque
// error id for log correlation.
func DomainError(c *gin.Context, err error, logger *zap.Logger) {
	var limitErr *models.LimitExceededError
	var insufficientErr *models.InsufficientNoteDataError
	var fieldsErr fieldErrorer

	switch {
	case errors.As(err, &fieldsErr):
		c.JSON(http.StatusBadRequest, models.APIError{
			Status:  http.StatusBadRequest,
			Message: "Invalid input data",
			Errors:  fieldsErr.Fields(),
		})
	case errors.Is(err, models.ErrInvalidNoteID), errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrValidation):
		Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUnauthenticated):
		Error(c, http.StatusUnauthorized, "Authentication required")
	case errors.As(err, &limitErr):
		c.JSON(http.StatusForbidden, models.APIError{
			Status:    http.StatusForbidden,
			Message:   err.Error(),
			ResetTime: limitErr.ResetTime.UTC().Format(time.RFC3339),
		})
	case errors.Is(err, models.ErrForbidden):
		Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrNoteNotFound),
		errors.Is(err, models.ErrPlanNotFound),
		errors.Is(err, models.ErrDestinationNotFound),
		errors.Is(err, models.ErrNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.As(err, &insufficientErr), errors.Is(err, models.ErrDraftNote):
		c.JSON(http.StatusUnprocessableEntity, models.APIError{
			Status:  http.StatusUnprocessableEntity,
			Message: "Note does not contain sufficient data to generate a plan",
			Details: map[string]any{"reason": err.Error()},
		})
	case errors.Is(err, models.ErrConflict):
		Error(c, http.StatusConflict, err.Error())
	default:
		errorID := uuid.New().String()[:8]
		logger.Error("Unhandled service error", zap.Error(err), zap.String("error_id", errorID))
		c.JSON(http.StatusInternalServerError, models.APIError{
			Status:  http.StatusInternalServerError,
			Message: "An unexpected server error occurred",
			ErrorID: errorID,
		})
	}
}
