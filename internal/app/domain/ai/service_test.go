package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*AIResponse, error) {
	args := m.Called(ctx, prompt, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AIResponse), args.Error(1)
}

type MockErrorRecorder struct {
	mock.Mock
}

func (m *MockErrorRecorder) LogAIError(ctx context.Context, record models.AIError) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func eligibleNote() *models.Note {
	segment := models.SegmentFamily
	transport := models.TransportCar
	return &models.Note{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		DestinationID: 1,
		Segment:       &segment,
		Transport:     &transport,
		Duration:      3,
		Attractions:   "Old Town, Castle",
	}
}

func newTestService(client Generator, recorder ErrorRecorder) *ServiceImpl {
	return NewService(client, recorder, zap.NewNop())
}

func TestGeneratePlanFromNoteSuccess(t *testing.T) {
	note := eligibleNote()
	userID := note.UserID

	mockClient := new(MockGenerator)
	mockRecorder := new(MockErrorRecorder)

	mockClient.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(&AIResponse{Content: `{"title":"Family Trip"}`, Model: "openai/gpt-4"}, nil).Once()

	service := newTestService(mockClient, mockRecorder)
	content, err := service.GeneratePlanFromNote(context.Background(), note, userID)

	require.NoError(t, err)
	assert.Equal(t, "Family Trip", content.Title)
	assert.Len(t, content.Days, 3)
	mockClient.AssertExpectations(t)
	mockRecorder.AssertNotCalled(t, "LogAIError", mock.Anything, mock.Anything)
}

func TestGeneratePlanFromNotePromptContents(t *testing.T) {
	note := eligibleNote()

	mockClient := new(MockGenerator)
	mockRecorder := new(MockErrorRecorder)

	var gotPrompt string
	var gotOpts GenerateOptions
	mockClient.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotPrompt = args.String(1)
			gotOpts = args.Get(2).(GenerateOptions)
		}).
		Return(&AIResponse{Content: "{}"}, nil).Once()

	service := newTestService(mockClient, mockRecorder)
	_, err := service.GeneratePlanFromNote(context.Background(), note, note.UserID)
	require.NoError(t, err)

	assert.Contains(t, gotPrompt, "3-day trip")
	assert.Contains(t, gotPrompt, "Attractions: Old Town, Castle")
	assert.Contains(t, gotPrompt, "Travel style: family")
	assert.Contains(t, gotPrompt, "Transport: car")

	assert.Contains(t, gotOpts.SystemPrompt, "family-friendly trips")
	assert.Contains(t, gotOpts.SystemPrompt, "consider car as the primary mode")
	assert.Contains(t, gotOpts.SystemPrompt, "structured JSON object")
	assert.Equal(t, 0.7, gotOpts.Temperature)
	assert.Equal(t, 4000, gotOpts.MaxTokens)
}

func TestSystemPromptSegmentClauses(t *testing.T) {
	couple := models.SegmentCouple
	solo := models.SegmentSolo
	unknown := models.SegmentType("business")

	assert.Contains(t, systemPrompt(&couple, nil), "romantic trips for couples")
	assert.Contains(t, systemPrompt(&solo, nil), "solo travel experiences")
	assert.NotContains(t, systemPrompt(nil, nil), "specialize")
	assert.NotContains(t, systemPrompt(&unknown, nil), "specialize")
}

func TestGeneratePlanFromNotePromptFallbacks(t *testing.T) {
	note := eligibleNote()
	note.Segment = nil
	note.Transport = nil

	mockClient := new(MockGenerator)
	mockRecorder := new(MockErrorRecorder)

	var gotPrompt string
	mockClient.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotPrompt = args.String(1) }).
		Return(&AIResponse{Content: "{}"}, nil).Once()

	service := newTestService(mockClient, mockRecorder)
	_, err := service.GeneratePlanFromNote(context.Background(), note, note.UserID)
	require.NoError(t, err)

	assert.Contains(t, gotPrompt, "Travel style: not specified")
	assert.Contains(t, gotPrompt, "Transport: not specified")
}

func TestValidateNoteForGeneration(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Note)
		missing []string
	}{
		{name: "valid", mutate: func(n *models.Note) {}},
		{
			name:    "missing destination",
			mutate:  func(n *models.Note) { n.DestinationID = 0 },
			missing: []string{"destination_id"},
		},
		{
			name:    "whitespace attractions",
			mutate:  func(n *models.Note) { n.Attractions = "   " },
			missing: []string{"attractions"},
		},
		{
			name:    "duration too low",
			mutate:  func(n *models.Note) { n.Duration = 0 },
			missing: []string{"duration"},
		},
		{
			name:    "duration too high",
			mutate:  func(n *models.Note) { n.Duration = 6 },
			missing: []string{"duration"},
		},
		{
			name: "everything wrong",
			mutate: func(n *models.Note) {
				n.DestinationID = 0
				n.Attractions = ""
				n.Duration = 9
			},
			missing: []string{"destination_id", "attractions", "duration"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			note := eligibleNote()
			tc.mutate(note)

			err := validateNoteForGeneration(note)
			if len(tc.missing) == 0 {
				assert.NoError(t, err)
				return
			}

			var insufficientErr *models.InsufficientNoteDataError
			require.ErrorAs(t, err, &insufficientErr)
			assert.Equal(t, tc.missing, insufficientErr.MissingFields)
			for _, field := range tc.missing {
				assert.Contains(t, err.Error(), field)
			}
		})
	}
}

func TestValidateNoteAllDurations(t *testing.T) {
	for d := 1; d <= 5; d++ {
		note := eligibleNote()
		note.Duration = d
		assert.NoError(t, validateNoteForGeneration(note), "duration %d should be eligible", d)
	}
}

func TestGeneratePlanFromNoteValidationFailureIsAudited(t *testing.T) {
	note := eligibleNote()
	note.Attractions = ""
	userID := note.UserID

	mockClient := new(MockGenerator)
	mockRecorder := new(MockErrorRecorder)
	mockRecorder.On("LogAIError", mock.Anything, mock.MatchedBy(func(rec models.AIError) bool {
		return rec.ErrorType == errorTypeValidation &&
			*rec.UserID == userID && *rec.NoteID == note.ID
	})).Return(nil).Once()

	service := newTestService(mockClient, mockRecorder)
	_, err := service.GeneratePlanFromNote(context.Background(), note, userID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to generate plan: ")
	assert.Contains(t, err.Error(), "Insufficient note data. Missing: attractions")

	var insufficientErr *models.InsufficientNoteDataError
	assert.ErrorAs(t, err, &insufficientErr)

	mockClient.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	mockRecorder.AssertExpectations(t)
}

func TestGeneratePlanFromNoteUnparsableResponse(t *testing.T) {
	note := eligibleNote()

	mockClient := new(MockGenerator)
	mockRecorder := new(MockErrorRecorder)

	mockClient.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(&AIResponse{Content: "not json at all"}, nil).Once()
	mockRecorder.On("LogAIError", mock.Anything, mock.MatchedBy(func(rec models.AIError) bool {
		return rec.ErrorType == errorTypeParse
	})).Return(nil).Once()

	service := newTestService(mockClient, mockRecorder)
	_, err := service.GeneratePlanFromNote(context.Background(), note, note.UserID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to generate plan: Failed to parse AI response")

	// Exactly one audit record.
	mockRecorder.AssertNumberOfCalls(t, "LogAIError", 1)
}

func TestGeneratePlanFromNoteAuditRecordSnapshot(t *testing.T) {
	note := eligibleNote()

	mockClient := new(MockGenerator)
	mockRecorder := new(MockErrorRecorder)

	mockClient.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("upstream exploded")).Once()

	var recorded models.AIError
	mockRecorder.On("LogAIError", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(models.AIError) }).
		Return(nil).Once()

	service := newTestService(mockClient, mockRecorder)
	_, err := service.GeneratePlanFromNote(context.Background(), note, note.UserID)
	require.Error(t, err)

	assert.Equal(t, errorTypeClient, recorded.ErrorType)
	assert.Equal(t, "upstream exploded", recorded.ErrorMessage)

	var snapshot models.Note
	require.NoError(t, json.Unmarshal([]byte(recorded.InputData), &snapshot))
	assert.Equal(t, note.ID, snapshot.ID)
	assert.Equal(t, note.Attractions, snapshot.Attractions)
}

func TestGeneratePlanFromNoteAuditWriteFailureDoesNotMask(t *testing.T) {
	note := eligibleNote()

	mockClient := new(MockGenerator)
	mockRecorder := new(MockErrorRecorder)

	mockClient.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("upstream exploded")).Once()
	mockRecorder.On("LogAIError", mock.Anything, mock.Anything).
		Return(errors.New("audit table is down")).Once()

	service := newTestService(mockClient, mockRecorder)
	_, err := service.GeneratePlanFromNote(context.Background(), note, note.UserID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
	assert.NotContains(t, err.Error(), "audit table is down")
}

func TestGeneratePlanFromNoteTimeout(t *testing.T) {
	note := eligibleNote()

	mockClient := new(MockGenerator)
	mockRecorder := new(MockErrorRecorder)

	mockClient.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return(nil, context.DeadlineExceeded).Once()
	mockRecorder.On("LogAIError", mock.Anything, mock.MatchedBy(func(rec models.AIError) bool {
		return rec.ErrorType == errorTypeTimeout
	})).Return(nil).Once()

	service := newTestService(mockClient, mockRecorder)
	service.timeout = 20 * time.Millisecond

	_, err := service.GeneratePlanFromNote(context.Background(), note, note.UserID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI generation timeout after 3 minutes")
	mockRecorder.AssertExpectations(t)
}
