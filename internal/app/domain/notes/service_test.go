package notes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateNote(ctx context.Context, note models.Note) (uuid.UUID, error) {
	args := m.Called(ctx, note)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) GetNoteByID(ctx context.Context, noteID uuid.UUID) (*models.Note, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockRepository) ListNotesByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Note, int, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Note), args.Int(1), args.Error(2)
}

func (m *MockRepository) UpdateNote(ctx context.Context, note models.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockRepository) SoftDeleteNote(ctx context.Context, noteID uuid.UUID) error {
	args := m.Called(ctx, noteID)
	return args.Error(0)
}

func (m *MockRepository) GetDestination(ctx context.Context, destinationID int) (*models.Destination, error) {
	args := m.Called(ctx, destinationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Destination), args.Error(1)
}

func lisbon() *models.Destination {
	return &models.Destination{ID: 1, City: "Lisbon", Country: "Portugal", CreatedAt: time.Now()}
}

func storedNote(userID uuid.UUID) *models.Note {
	segment := models.SegmentSolo
	return &models.Note{
		ID:            uuid.New(),
		UserID:        userID,
		DestinationID: 1,
		Segment:       &segment,
		Duration:      2,
		Attractions:   "Belem Tower",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestCreateNote(t *testing.T) {
	userID := uuid.New()
	noteID := uuid.New()
	repo := new(MockRepository)

	repo.On("GetDestination", mock.Anything, 1).Return(lisbon(), nil)
	repo.On("CreateNote", mock.Anything, mock.MatchedBy(func(n models.Note) bool {
		return n.UserID == userID && n.DestinationID == 1 && n.Duration == 2
	})).Return(noteID, nil).Once()
	created := storedNote(userID)
	created.ID = noteID
	repo.On("GetNoteByID", mock.Anything, noteID).Return(created, nil).Once()

	service := NewService(repo, zap.NewNop())
	resp, err := service.CreateNote(context.Background(), userID, models.NoteCreateRequest{
		DestinationID: 1,
		Duration:      2,
		Attractions:   "Belem Tower",
	})

	require.NoError(t, err)
	assert.Equal(t, noteID, resp.ID)
	assert.Equal(t, "Lisbon", resp.Destination.City)
	repo.AssertExpectations(t)
}

func TestCreateNoteUnknownDestination(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetDestination", mock.Anything, 999).Return(nil, models.ErrNotFound).Once()

	service := NewService(repo, zap.NewNop())
	_, err := service.CreateNote(context.Background(), uuid.New(), models.NoteCreateRequest{
		DestinationID: 999,
		Duration:      2,
		Attractions:   "anything",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
	repo.AssertNotCalled(t, "CreateNote", mock.Anything, mock.Anything)
}

func TestCreateNoteValidation(t *testing.T) {
	badSegment := models.SegmentType("business")

	tests := []struct {
		name  string
		req   models.NoteCreateRequest
		field string
	}{
		{
			name:  "duration out of range",
			req:   models.NoteCreateRequest{DestinationID: 1, Duration: 6, Attractions: "x"},
			field: "duration",
		},
		{
			name:  "unknown segment",
			req:   models.NoteCreateRequest{DestinationID: 1, Duration: 2, Attractions: "x", Segment: &badSegment},
			field: "segment",
		},
		{
			name:  "empty attractions on non-draft",
			req:   models.NoteCreateRequest{DestinationID: 1, Duration: 2, Attractions: "   "},
			field: "attractions",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockRepository)
			service := NewService(repo, zap.NewNop())

			_, err := service.CreateNote(context.Background(), uuid.New(), tc.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)

			var vErr *validationError
			require.ErrorAs(t, err, &vErr)
			require.NotEmpty(t, vErr.Fields())
			assert.Equal(t, tc.field, vErr.Fields()[0].Field)
			repo.AssertNotCalled(t, "CreateNote", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateNoteDraftAllowsEmptyAttractions(t *testing.T) {
	userID := uuid.New()
	noteID := uuid.New()
	repo := new(MockRepository)

	repo.On("GetDestination", mock.Anything, 1).Return(lisbon(), nil)
	repo.On("CreateNote", mock.Anything, mock.Anything).Return(noteID, nil).Once()
	draft := storedNote(userID)
	draft.ID = noteID
	draft.IsDraft = true
	draft.Attractions = ""
	repo.On("GetNoteByID", mock.Anything, noteID).Return(draft, nil).Once()

	service := NewService(repo, zap.NewNop())
	resp, err := service.CreateNote(context.Background(), userID, models.NoteCreateRequest{
		DestinationID: 1,
		Duration:      2,
		IsDraft:       true,
	})

	require.NoError(t, err)
	assert.True(t, resp.IsDraft)
}

func TestGetNoteForbiddenForOtherUser(t *testing.T) {
	owner := uuid.New()
	note := storedNote(owner)

	repo := new(MockRepository)
	repo.On("GetNoteByID", mock.Anything, note.ID).Return(note, nil).Once()

	service := NewService(repo, zap.NewNop())
	_, err := service.GetNote(context.Background(), note.ID, uuid.New())

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdateNotePartial(t *testing.T) {
	owner := uuid.New()
	note := storedNote(owner)

	repo := new(MockRepository)
	repo.On("GetNoteByID", mock.Anything, note.ID).Return(note, nil)
	repo.On("GetDestination", mock.Anything, 1).Return(lisbon(), nil)
	repo.On("UpdateNote", mock.Anything, mock.MatchedBy(func(n models.Note) bool {
		// Only duration changes; the rest keeps its stored value.
		return n.Duration == 4 && n.Attractions == "Belem Tower"
	})).Return(nil).Once()

	service := NewService(repo, zap.NewNop())
	newDuration := 4
	resp, err := service.UpdateNote(context.Background(), note.ID, owner, models.NoteUpdateRequest{
		Duration: &newDuration,
	})

	require.NoError(t, err)
	assert.NotNil(t, resp)
	repo.AssertExpectations(t)
}

func TestDeleteNote(t *testing.T) {
	owner := uuid.New()
	note := storedNote(owner)

	repo := new(MockRepository)
	repo.On("GetNoteByID", mock.Anything, note.ID).Return(note, nil).Once()
	repo.On("SoftDeleteNote", mock.Anything, note.ID).Return(nil).Once()

	service := NewService(repo, zap.NewNop())
	require.NoError(t, service.DeleteNote(context.Background(), note.ID, owner))
	repo.AssertExpectations(t)
}

func TestDeleteNoteNotFound(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetNoteByID", mock.Anything, mock.Anything).Return(nil, models.ErrNoteNotFound).Once()

	service := NewService(repo, zap.NewNop())
	err := service.DeleteNote(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
}

func TestListNotesPagination(t *testing.T) {
	userID := uuid.New()
	rows := []models.Note{*storedNote(userID), *storedNote(userID)}

	repo := new(MockRepository)
	repo.On("ListNotesByUser", mock.Anything, userID, 1, 20).Return(rows, 42, nil).Once()
	repo.On("GetDestination", mock.Anything, 1).Return(lisbon(), nil)

	service := NewService(repo, zap.NewNop())
	list, err := service.ListNotes(context.Background(), userID, 0, -5)

	require.NoError(t, err)
	assert.Len(t, list.Data, 2)
	assert.Equal(t, 42, list.Pagination.Total)
	assert.Equal(t, 1, list.Pagination.Page)
	assert.Equal(t, 20, list.Pagination.Limit)
	assert.Equal(t, 3, list.Pagination.Pages)
}
