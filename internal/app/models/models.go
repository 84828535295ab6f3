package models

import (
	"time"

	"github.com/google/uuid"
)

// SegmentType is the traveler category a note targets.
type SegmentType string

const (
	SegmentFamily SegmentType = "family"
	SegmentCouple SegmentType = "couple"
	SegmentSolo   SegmentType = "solo"
)

// TransportType is the preferred mode of transportation for a trip.
type TransportType string

const (
	TransportCar             TransportType = "car"
	TransportPublicTransport TransportType = "public_transport"
	TransportPlane           TransportType = "plane"
	TransportWalking         TransportType = "walking"
)

// ValidSegment reports whether s is a known segment value.
func ValidSegment(s SegmentType) bool {
	switch s {
	case SegmentFamily, SegmentCouple, SegmentSolo:
		return true
	}
	return false
}

// ValidTransport reports whether t is a known transport value.
func ValidTransport(t TransportType) bool {
	switch t {
	case TransportCar, TransportPublicTransport, TransportPlane, TransportWalking:
		return true
	}
	return false
}

// Profile is a registered user.
type Profile struct {
	ID                 uuid.UUID      `json:"id"`
	Email              string         `json:"email"`
	PasswordHash       string         `json:"-"`
	FirstName          string         `json:"first_name"`
	LastName           string         `json:"last_name"`
	PreferredSegment   *SegmentType   `json:"preferred_segment,omitempty"`
	PreferredTransport *TransportType `json:"preferred_transport,omitempty"`
	PlansCount         int            `json:"plans_count"`
	LikesReceivedCount int            `json:"likes_received_count"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// Destination is a city/country pair users attach notes to.
type Destination struct {
	ID        int       `json:"id"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// Note is a user's trip-intent record. A note used for plan generation must
// be non-draft, have non-empty attractions and duration in [1,5].
type Note struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	DestinationID int            `json:"destination_id"`
	Segment       *SegmentType   `json:"segment,omitempty"`
	Transport     *TransportType `json:"transport,omitempty"`
	Duration      int            `json:"duration"`
	Attractions   string         `json:"attractions"`
	IsDraft       bool           `json:"is_draft"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     *time.Time     `json:"deleted_at,omitempty"`
}

// Plan is an AI-generated itinerary tied to one note. Visibility is
// owner-only unless IsPublic is set.
type Plan struct {
	ID            uuid.UUID   `json:"id"`
	NoteID        uuid.UUID   `json:"note_id"`
	UserID        uuid.UUID   `json:"user_id"`
	DestinationID int         `json:"destination_id"`
	Content       PlanContent `json:"content"`
	IsPublic      bool        `json:"is_public"`
	LikesCount    int         `json:"likes_count"`
	CreatedAt     time.Time   `json:"created_at"`
	DeletedAt     *time.Time  `json:"deleted_at,omitempty"`
}

// AIError is an append-only audit record of a failed generation attempt.
type AIError struct {
	ID           int64      `json:"id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	NoteID       *uuid.UUID `json:"note_id,omitempty"`
	ErrorType    string     `json:"error_type"`
	ErrorMessage string     `json:"error_message"`
	InputData    string     `json:"input_data,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// GenerationLimit is the materialized per-user daily quota counter. The
// generation entry point derives eligibility from counting plan rows; this
// row is the alternate decrement-based path kept in sync on insert.
type GenerationLimit struct {
	UserID               uuid.UUID  `json:"user_id"`
	RemainingGenerations int        `json:"remaining_generations"`
	TotalLimit           int        `json:"total_limit"`
	ResetTime            *time.Time `json:"reset_time,omitempty"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
