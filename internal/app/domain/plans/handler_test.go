package plans

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
)

type MockService struct {
	mock.Mock
}

var _ Service = (*MockService)(nil)

func (m *MockService) GetPlanByID(ctx context.Context, planID uuid.UUID, viewerID *uuid.UUID) (*models.PlanResponse, error) {
	args := m.Called(ctx, planID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlanResponse), args.Error(1)
}

func (m *MockService) GeneratePlanFromNote(ctx context.Context, rawNoteID string, userID uuid.UUID) (*models.PlanResponse, error) {
	args := m.Called(ctx, rawNoteID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlanResponse), args.Error(1)
}

func (m *MockService) GenerationLimit(ctx context.Context, userID uuid.UUID) (*models.GenerationLimitResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GenerationLimitResponse), args.Error(1)
}

func (m *MockService) LikePlan(ctx context.Context, planID, userID uuid.UUID) error {
	return m.Called(ctx, planID, userID).Error(0)
}

func (m *MockService) UnlikePlan(ctx context.Context, planID, userID uuid.UUID) error {
	return m.Called(ctx, planID, userID).Error(0)
}

func (m *MockService) ClearCache() {
	m.Called()
}

// asUser injects an authenticated identity the way the JWT middleware does.
func asUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("authenticated", true)
		c.Next()
	}
}

func newHandlerRouter(svc Service, userID *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != nil {
		r.Use(asUser(*userID))
	}

	h := NewHandler(svc, zap.NewNop())
	r.GET("/api/plans/:id", h.GetPlan)
	r.POST("/api/plans/:id/like", h.LikePlan)
	r.DELETE("/api/plans/:id/like", h.UnlikePlan)
	r.POST("/api/notes/:id/generate-plan", h.GeneratePlan)
	r.GET("/api/users/me/generation-limit", h.GenerationLimit)
	return r
}

func TestGeneratePlanQuotaExceededBody(t *testing.T) {
	userID := uuid.New()
	noteID := uuid.New()
	reset := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	svc := new(MockService)
	svc.On("GeneratePlanFromNote", mock.Anything, noteID.String(), userID).
		Return(nil, &models.LimitExceededError{Limit: DailyGenerationLimit, ResetTime: reset})

	r := newHandlerRouter(svc, &userID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notes/"+noteID.String()+"/generate-plan", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)

	var body models.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusForbidden, body.Status)
	assert.Equal(t, "Daily generation limit exceeded (2 plans). Reset at 2025-06-16T00:00:00Z", body.Message)
	assert.Equal(t, "2025-06-16T00:00:00Z", body.ResetTime)
}

func TestGeneratePlanRequiresAuth(t *testing.T) {
	svc := new(MockService)

	r := newHandlerRouter(svc, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notes/"+uuid.NewString()+"/generate-plan", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "GeneratePlanFromNote", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPlanInvalidIDFormat(t *testing.T) {
	svc := new(MockService)

	r := newHandlerRouter(svc, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/plans/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body models.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid planId format", body.Message)
}

func TestGetPlanPrivateForbiddenOverWire(t *testing.T) {
	planID := uuid.New()

	svc := new(MockService)
	svc.On("GetPlanByID", mock.Anything, planID, (*uuid.UUID)(nil)).
		Return(nil, models.ErrForbidden)

	r := newHandlerRouter(svc, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/plans/"+planID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetPlanPassesViewerID(t *testing.T) {
	userID := uuid.New()
	planID := uuid.New()

	svc := new(MockService)
	svc.On("GetPlanByID", mock.Anything, planID, &userID).
		Return(&models.PlanResponse{ID: planID, IsLikedByMe: true}, nil)

	r := newHandlerRouter(svc, &userID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/plans/"+planID.String(), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body models.PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, planID, body.ID)
	assert.True(t, body.IsLikedByMe)
	svc.AssertExpectations(t)
}

func TestLikePlanNoContent(t *testing.T) {
	userID := uuid.New()
	planID := uuid.New()

	svc := new(MockService)
	svc.On("LikePlan", mock.Anything, planID, userID).Return(nil)

	r := newHandlerRouter(svc, &userID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plans/"+planID.String()+"/like", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
	svc.AssertExpectations(t)
}

func TestGenerationLimitResponse(t *testing.T) {
	userID := uuid.New()
	reset := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	svc := new(MockService)
	svc.On("GenerationLimit", mock.Anything, userID).Return(&models.GenerationLimitResponse{
		RemainingGenerations: 1,
		TotalLimit:           DailyGenerationLimit,
		ResetTime:            reset,
	}, nil)

	r := newHandlerRouter(svc, &userID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me/generation-limit", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body models.GenerationLimitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.RemainingGenerations)
	assert.Equal(t, DailyGenerationLimit, body.TotalLimit)
	assert.True(t, reset.Equal(body.ResetTime))
}
