package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// Service owns the note lifecycle. Notes are always scoped to their owner;
// there is no shared visibility for notes.
type Service interface {
	CreateNote(ctx context.Context, userID uuid.UUID, req models.NoteCreateRequest) (*models.NoteResponse, error)
	GetNote(ctx context.Context, noteID, userID uuid.UUID) (*models.NoteResponse, error)
	ListNotes(ctx context.Context, userID uuid.UUID, page, limit int) (*models.NoteListResponse, error)
	UpdateNote(ctx context.Context, noteID, userID uuid.UUID, req models.NoteUpdateRequest) (*models.NoteResponse, error)
	DeleteNote(ctx context.Context, noteID, userID uuid.UUID) error
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
}

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) CreateNote(ctx context.Context, userID uuid.UUID, req models.NoteCreateRequest) (*models.NoteResponse, error) {
	ctx, span := otel.Tracer("NotesService").Start(ctx, "CreateNote", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int("destination.id", req.DestinationID),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "CreateNote"), zap.String("userID", userID.String()))

	if errs := validateNotePayload(req.Segment, req.Transport, req.Duration, req.Attractions, req.IsDraft); len(errs) > 0 {
		return nil, &validationError{fields: errs}
	}

	destination, err := s.repo.GetDestination(ctx, req.DestinationID)
	if err != nil {
		return nil, fmt.Errorf("destination %d: %w", req.DestinationID, err)
	}

	note := models.Note{
		UserID:        userID,
		DestinationID: req.DestinationID,
		Segment:       req.Segment,
		Transport:     req.Transport,
		Duration:      req.Duration,
		Attractions:   req.Attractions,
		IsDraft:       req.IsDraft,
	}

	id, err := s.repo.CreateNote(ctx, note)
	if err != nil {
		l.Error("Failed to create note", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.GetNoteByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return noteResponse(created, destination), nil
}

func (s *ServiceImpl) GetNote(ctx context.Context, noteID, userID uuid.UUID) (*models.NoteResponse, error) {
	ctx, span := otel.Tracer("NotesService").Start(ctx, "GetNote")
	defer span.End()

	note, err := s.repo.GetNoteByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.UserID != userID {
		return nil, models.ErrForbidden
	}

	destination, err := s.repo.GetDestination(ctx, note.DestinationID)
	if err != nil {
		return nil, err
	}

	return noteResponse(note, destination), nil
}

func (s *ServiceImpl) ListNotes(ctx context.Context, userID uuid.UUID, page, limit int) (*models.NoteListResponse, error) {
	ctx, span := otel.Tracer("NotesService").Start(ctx, "ListNotes", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	noteRows, total, err := s.repo.ListNotesByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	data := make([]models.NoteResponse, 0, len(noteRows))
	for i := range noteRows {
		destination, err := s.repo.GetDestination(ctx, noteRows[i].DestinationID)
		if err != nil {
			return nil, err
		}
		data = append(data, *noteResponse(&noteRows[i], destination))
	}

	pages := (total + limit - 1) / limit
	return &models.NoteListResponse{
		Data: data,
		Pagination: models.Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: pages,
		},
	}, nil
}

func (s *ServiceImpl) UpdateNote(ctx context.Context, noteID, userID uuid.UUID, req models.NoteUpdateRequest) (*models.NoteResponse, error) {
	ctx, span := otel.Tracer("NotesService").Start(ctx, "UpdateNote")
	defer span.End()

	note, err := s.repo.GetNoteByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.UserID != userID {
		return nil, models.ErrForbidden
	}

	if req.DestinationID != nil {
		note.DestinationID = *req.DestinationID
	}
	if req.Segment != nil {
		note.Segment = req.Segment
	}
	if req.Transport != nil {
		note.Transport = req.Transport
	}
	if req.Duration != nil {
		note.Duration = *req.Duration
	}
	if req.Attractions != nil {
		note.Attractions = *req.Attractions
	}
	if req.IsDraft != nil {
		note.IsDraft = *req.IsDraft
	}

	if errs := validateNotePayload(note.Segment, note.Transport, note.Duration, note.Attractions, note.IsDraft); len(errs) > 0 {
		return nil, &validationError{fields: errs}
	}

	destination, err := s.repo.GetDestination(ctx, note.DestinationID)
	if err != nil {
		return nil, fmt.Errorf("destination %d: %w", note.DestinationID, err)
	}

	if err := s.repo.UpdateNote(ctx, *note); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetNoteByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return noteResponse(updated, destination), nil
}

func (s *ServiceImpl) DeleteNote(ctx context.Context, noteID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("NotesService").Start(ctx, "DeleteNote")
	defer span.End()

	note, err := s.repo.GetNoteByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.UserID != userID {
		return models.ErrForbidden
	}

	return s.repo.SoftDeleteNote(ctx, noteID)
}

// validationError aggregates per-field problems into one ErrValidation.
type validationError struct {
	fields []models.FieldError
}

func (e *validationError) Error() string {
	parts := make([]string, len(e.fields))
	for i, f := range e.fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid note data: " + strings.Join(parts, "; ")
}

func (e *validationError) Unwrap() error { return models.ErrValidation }

// Fields exposes the per-field errors for the handler's response body.
func (e *validationError) Fields() []models.FieldError { return e.fields }

func validateNotePayload(segment *models.SegmentType, transport *models.TransportType, duration int, attractions string, isDraft bool) []models.FieldError {
	var errs []models.FieldError

	if duration < 1 || duration > 5 {
		errs = append(errs, models.FieldError{Field: "duration", Message: "must be between 1 and 5 days"})
	}
	if segment != nil && !models.ValidSegment(*segment) {
		errs = append(errs, models.FieldError{Field: "segment", Message: "must be one of family, couple, solo"})
	}
	if transport != nil && !models.ValidTransport(*transport) {
		errs = append(errs, models.FieldError{Field: "transport", Message: "must be one of car, public_transport, plane, walking"})
	}
	if len(attractions) > 2000 {
		errs = append(errs, models.FieldError{Field: "attractions", Message: "must be at most 2000 characters"})
	}
	// Drafts may be partial; a finalized note needs attractions to be usable
	// for generation later.
	if !isDraft && strings.TrimSpace(attractions) == "" {
		errs = append(errs, models.FieldError{Field: "attractions", Message: "required for non-draft notes"})
	}

	return errs
}

func noteResponse(note *models.Note, destination *models.Destination) *models.NoteResponse {
	return &models.NoteResponse{
		ID:     note.ID,
		UserID: note.UserID,
		Destination: models.DestinationBasicInfo{
			City:    destination.City,
			Country: destination.Country,
		},
		Segment:     note.Segment,
		Transport:   note.Transport,
		Duration:    note.Duration,
		Attractions: note.Attractions,
		IsDraft:     note.IsDraft,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
	}
}
