package models

import (
	"time"

	"github.com/google/uuid"
)

// UserBasicInfo exposes only the first name and the last-name initial of a
// plan's owner. The full last name never leaves the service layer.
type UserBasicInfo struct {
	FirstName       string `json:"first_name"`
	LastNameInitial string `json:"last_name_initial"`
}

// DestinationBasicInfo is the city/country pair embedded in responses.
type DestinationBasicInfo struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// PlanResponse is the canonical read shape for a plan.
type PlanResponse struct {
	ID          uuid.UUID            `json:"id"`
	NoteID      uuid.UUID            `json:"note_id"`
	User        UserBasicInfo        `json:"user"`
	Destination DestinationBasicInfo `json:"destination"`
	Content     PlanContent          `json:"content"`
	IsPublic    bool                 `json:"is_public"`
	LikesCount  int                  `json:"likes_count"`
	CreatedAt   time.Time            `json:"created_at"`
	IsLikedByMe bool                 `json:"is_liked_by_me"`
}

// NoteCreateRequest is the payload for POST /api/notes.
type NoteCreateRequest struct {
	DestinationID int            `json:"destination_id" binding:"required"`
	Segment       *SegmentType   `json:"segment,omitempty"`
	Transport     *TransportType `json:"transport,omitempty"`
	Duration      int            `json:"duration" binding:"required,min=1,max=5"`
	Attractions   string         `json:"attractions" binding:"max=2000"`
	IsDraft       bool           `json:"is_draft"`
}

// NoteUpdateRequest is the payload for PUT /api/notes/:id. Nil fields are
// left untouched.
type NoteUpdateRequest struct {
	DestinationID *int           `json:"destination_id,omitempty"`
	Segment       *SegmentType   `json:"segment,omitempty"`
	Transport     *TransportType `json:"transport,omitempty"`
	Duration      *int           `json:"duration,omitempty"`
	Attractions   *string        `json:"attractions,omitempty"`
	IsDraft       *bool          `json:"is_draft,omitempty"`
}

// NoteResponse is a note joined with its destination basic info.
type NoteResponse struct {
	ID          uuid.UUID            `json:"id"`
	UserID      uuid.UUID            `json:"user_id"`
	Destination DestinationBasicInfo `json:"destination"`
	Segment     *SegmentType         `json:"segment,omitempty"`
	Transport   *TransportType       `json:"transport,omitempty"`
	Duration    int                  `json:"duration"`
	Attractions string               `json:"attractions"`
	IsDraft     bool                 `json:"is_draft"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// NoteListResponse is a paginated page of the caller's notes.
type NoteListResponse struct {
	Data       []NoteResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// DestinationListResponse is a paginated page of destinations.
type DestinationListResponse struct {
	Data       []Destination `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// GenerationLimitResponse reports how many generations the caller has left
// today and when the quota resets.
type GenerationLimitResponse struct {
	RemainingGenerations int       `json:"remaining_generations"`
	TotalLimit           int       `json:"total_limit"`
	ResetTime            time.Time `json:"reset_time"`
}

// ProfileUpdateRequest is the payload for PUT /api/users/me.
type ProfileUpdateRequest struct {
	FirstName          *string        `json:"first_name,omitempty"`
	LastName           *string        `json:"last_name,omitempty"`
	PreferredSegment   *SegmentType   `json:"preferred_segment,omitempty"`
	PreferredTransport *TransportType `json:"preferred_transport,omitempty"`
}

// APIError is the wire shape of every error response.
type APIError struct {
	Status    int            `json:"status"`
	Message   string         `json:"message"`
	Errors    []FieldError   `json:"errors,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	ResetTime string         `json:"reset_time,omitempty"`
	ErrorID   string         `json:"error_id,omitempty"`
}

// FieldError names one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
