package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Domain sentinel errors shared across services and handlers.
var (
	ErrNotFound             = errors.New("requested item not found")
	ErrNoteNotFound         = errors.New("Note not found")
	ErrPlanNotFound         = errors.New("Plan not found")
	ErrDestinationNotFound  = errors.New("Destination data not found")
	ErrConflict             = errors.New("item already exists or conflict")
	ErrUnauthenticated      = errors.New("authentication required or invalid credentials")
	ErrForbidden            = errors.New("action forbidden")
	ErrBadRequest           = errors.New("bad request")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidNoteID        = errors.New("Invalid noteId format")
	ErrDraftNote            = errors.New("Cannot generate plan from a draft note")
	ErrAIServiceUnavailable = errors.New("AI Service not initialized")
)

// InsufficientNoteDataError reports every note field missing or invalid for
// plan generation, not just the first.
type InsufficientNoteDataError struct {
	MissingFields []string
}

func (e *InsufficientNoteDataError) Error() string {
	return fmt.Sprintf("Insufficient note data. Missing: %s", strings.Join(e.MissingFields, ", "))
}

// LimitExceededError carries the machine-parsable instant the daily
// generation quota resets.
type LimitExceededError struct {
	Limit     int
	ResetTime time.Time
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("Daily generation limit exceeded (%d plans). Reset at %s",
		e.Limit, e.ResetTime.UTC().Format(time.RFC3339))
}
