package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
)

const generationTimeout = 180 * time.Second

// Error classifications written to the audit log.
const (
	errorTypeValidation = "ValidationError"
	errorTypeTimeout    = "TimeoutError"
	errorTypeParse      = "ParseError"
	errorTypeClient     = "AIClientError"
)

// ErrorRecorder persists AI failure audit records. Records are append-only;
// nothing in this package reads them back.
type ErrorRecorder interface {
	LogAIError(ctx context.Context, record models.AIError) error
}

var _ Service = (*ServiceImpl)(nil)

// Service turns a note into structured plan content via the AI provider.
type Service interface {
	GeneratePlanFromNote(ctx context.Context, note *models.Note, userID uuid.UUID) (*models.PlanContent, error)
}

type ServiceImpl struct {
	client  Generator
	errRepo ErrorRecorder
	logger  *zap.Logger
	timeout time.Duration
}

// NewService creates the orchestration service with the default 3-minute
// generation timeout.
func NewService(client Generator, errRepo ErrorRecorder, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		client:  client,
		errRepo: errRepo,
		logger:  logger,
		timeout: generationTimeout,
	}
}

// SetTimeout overrides the generation timeout. Zero or negative keeps the
// default.
func (s *ServiceImpl) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// GeneratePlanFromNote validates the note, prompts the AI under a hard
// timeout and normalizes the response. Every failure is recorded to the
// audit log before being returned with the standard prefix.
func (s *ServiceImpl) GeneratePlanFromNote(ctx context.Context, note *models.Note, userID uuid.UUID) (*models.PlanContent, error) {
	ctx, span := otel.Tracer("AIService").Start(ctx, "GeneratePlanFromNote", trace.WithAttributes(
		attribute.String("note.id", note.ID.String()),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	content, err := s.generate(ctx, note)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.recordFailure(ctx, note, userID, err)
		return nil, errors.Wrap(err, "Failed to generate plan")
	}

	return content, nil
}

func (s *ServiceImpl) generate(ctx context.Context, note *models.Note) (*models.PlanContent, error) {
	if err := validateNoteForGeneration(note); err != nil {
		return nil, err
	}

	prompt := preparePrompt(note)
	opts := GenerateOptions{
		SystemPrompt: systemPrompt(note.Segment, note.Transport),
		Temperature:  0.7,
		MaxTokens:    4000,
	}

	// The deadline propagates into the outbound HTTP request, so a timeout
	// aborts the provider call instead of leaking it.
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.client.Generate(genCtx, prompt, opts)
	if err != nil {
		if genCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("AI generation timeout after 3 minutes")
		}
		return nil, err
	}

	return ParseAIResponse(response.Content, note)
}

// validateNoteForGeneration checks generation eligibility and names every
// offending field, not just the first.
func validateNoteForGeneration(note *models.Note) error {
	var missing []string

	if note.DestinationID == 0 {
		missing = append(missing, "destination_id")
	}
	if strings.TrimSpace(note.Attractions) == "" {
		missing = append(missing, "attractions")
	}
	if note.Duration < 1 || note.Duration > 5 {
		missing = append(missing, "duration")
	}

	if len(missing) > 0 {
		return &models.InsufficientNoteDataError{MissingFields: missing}
	}
	return nil
}

func preparePrompt(note *models.Note) string {
	segment := "not specified"
	if note.Segment != nil {
		segment = string(*note.Segment)
	}
	transport := "not specified"
	if note.Transport != nil {
		transport = string(*note.Transport)
	}

	return fmt.Sprintf(`Generate a detailed travel plan for a %d-day trip based on the following information:

Attractions: %s
Duration: %d days
Travel style: %s
Transport: %s

Please create a detailed daily itinerary with the following structure:
1. A descriptive title for the trip
2. A brief summary of the overall experience
3. A detailed day-by-day plan with:
   - Specific times for each activity
   - Estimated duration for each attraction visit
   - Travel time between attractions
   - Opening hours when applicable
   - Brief descriptions of each place
4. A list of practical recommendations for the trip

Your response should be well-structured and include realistic timing that accounts for travel between attractions.`,
		note.Duration, note.Attractions, note.Duration, segment, transport)
}

func systemPrompt(segment *models.SegmentType, transport *models.TransportType) string {
	var b strings.Builder
	b.WriteString("You are an expert travel planner that creates detailed, realistic travel itineraries. ")

	if segment != nil {
		switch *segment {
		case models.SegmentFamily:
			b.WriteString("You specialize in family-friendly trips with activities suitable for children. ")
		case models.SegmentCouple:
			b.WriteString("You specialize in romantic trips for couples with atmospheric locations and experiences. ")
		case models.SegmentSolo:
			b.WriteString("You specialize in solo travel experiences that are safe, enriching, and allow for social opportunities. ")
		}
	}

	if transport != nil {
		b.WriteString(fmt.Sprintf("Your plans consider %s as the primary mode of transportation. ", *transport))
	}

	b.WriteString("Always provide realistic timing for visits and travel between attractions. " +
		"Format your response as a structured JSON object without any additional text or explanations outside the JSON structure. " +
		"The JSON should include title, summary, days array with daily activities, and recommendations array.")

	return b.String()
}

// recordFailure writes one audit record. A failed audit write is logged and
// swallowed so it never masks the original error.
func (s *ServiceImpl) recordFailure(ctx context.Context, note *models.Note, userID uuid.UUID, genErr error) {
	snapshot, marshalErr := json.Marshal(note)
	if marshalErr != nil {
		s.logger.Warn("Failed to serialize note snapshot for AI error log", zap.Error(marshalErr))
	}

	record := models.AIError{
		UserID:       &userID,
		NoteID:       &note.ID,
		ErrorType:    classifyError(genErr),
		ErrorMessage: genErr.Error(),
		InputData:    string(snapshot),
	}

	if err := s.errRepo.LogAIError(ctx, record); err != nil {
		s.logger.Error("Failed to log AI error", zap.Error(err), zap.String("note_id", note.ID.String()))
	}
}

func classifyError(err error) string {
	var insufficientErr *models.InsufficientNoteDataError
	switch {
	case errors.As(err, &insufficientErr):
		return errorTypeValidation
	case strings.Contains(err.Error(), "timeout"):
		return errorTypeTimeout
	case strings.Contains(err.Error(), "Failed to parse AI response"):
		return errorTypeParse
	default:
		return errorTypeClient
	}
}
