package plans

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/vibetravels/backend/internal/app/domain/ai"
	"github.com/vibetravels/backend/internal/app/models"
	"github.com/vibetravels/backend/internal/pkg/cache"
)

const planCacheTTL = time.Hour

var _ Service = (*ServiceImpl)(nil)

// Service owns the plan read path, AI generation entry point, quota and
// likes. GetPlanByID is the single canonical read: generation responds
// through it too.
type Service interface {
	GetPlanByID(ctx context.Context, planID uuid.UUID, viewerID *uuid.UUID) (*models.PlanResponse, error)
	GeneratePlanFromNote(ctx context.Context, rawNoteID string, userID uuid.UUID) (*models.PlanResponse, error)
	GenerationLimit(ctx context.Context, userID uuid.UUID) (*models.GenerationLimitResponse, error)
	LikePlan(ctx context.Context, planID, userID uuid.UUID) error
	UnlikePlan(ctx context.Context, planID, userID uuid.UUID) error
	ClearCache()
}

type ServiceImpl struct {
	logger    *zap.Logger
	repo      Repository
	aiService ai.Service
	planCache *cache.TTLCache[models.PlanResponse]
	loads     singleflight.Group
	now       func() time.Time
}

func NewService(repo Repository, aiService ai.Service, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		repo:      repo,
		aiService: aiService,
		planCache: cache.New[models.PlanResponse](planCacheTTL, "plans", logger),
		now:       time.Now,
	}
}

// cacheKey separates viewer variants: is_liked_by_me differs per viewer and
// owners can see private plans.
func cacheKey(planID uuid.UUID, viewerID *uuid.UUID) string {
	viewer := "anonymous"
	if viewerID != nil {
		viewer = viewerID.String()
	}
	return fmt.Sprintf("plan_%s_%s", planID, viewer)
}

// GetPlanByID returns the plan response visible to viewerID (nil means
// anonymous). Private plans are only visible to their owner.
func (s *ServiceImpl) GetPlanByID(ctx context.Context, planID uuid.UUID, viewerID *uuid.UUID) (*models.PlanResponse, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "GetPlanByID", trace.WithAttributes(
		attribute.String("plan.id", planID.String()),
	))
	defer span.End()

	key := cacheKey(planID, viewerID)
	if cached, found := s.planCache.Get(key); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &cached, nil
	}

	// Concurrent misses for the same key collapse into one load.
	v, err, _ := s.loads.Do(key, func() (any, error) {
		return s.loadPlanResponse(ctx, key, planID, viewerID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.PlanResponse), nil
}

func (s *ServiceImpl) loadPlanResponse(ctx context.Context, key string, planID uuid.UUID, viewerID *uuid.UUID) (*models.PlanResponse, error) {
	plan, err := s.repo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	isOwner := viewerID != nil && *viewerID == plan.UserID
	if !plan.IsPublic && !isOwner {
		return nil, models.ErrForbidden
	}

	destination, err := s.repo.GetDestination(ctx, plan.DestinationID)
	if err != nil {
		return nil, err
	}

	owner, err := s.repo.GetUserBasicInfo(ctx, plan.UserID)
	if err != nil {
		return nil, err
	}

	// A failed like lookup degrades to "not liked" rather than failing the
	// whole read.
	liked := false
	if viewerID != nil {
		liked, err = s.repo.IsLikedBy(ctx, planID, *viewerID)
		if err != nil {
			s.logger.Warn("Like lookup failed, defaulting to false",
				zap.Error(err), zap.String("plan_id", planID.String()))
			liked = false
		}
	}

	resp := &models.PlanResponse{
		ID:     plan.ID,
		NoteID: plan.NoteID,
		User:   *owner,
		Destination: models.DestinationBasicInfo{
			City:    destination.City,
			Country: destination.Country,
		},
		Content:     plan.Content,
		IsPublic:    plan.IsPublic,
		LikesCount:  plan.LikesCount,
		CreatedAt:   plan.CreatedAt,
		IsLikedByMe: liked,
	}

	s.planCache.Set(key, *resp)
	return resp, nil
}

// GeneratePlanFromNote runs the full generation pipeline: note validation and
// ownership, daily quota, AI orchestration, persistence, then the canonical
// read path for the response.
func (s *ServiceImpl) GeneratePlanFromNote(ctx context.Context, rawNoteID string, userID uuid.UUID) (*models.PlanResponse, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "GeneratePlanFromNote", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "GeneratePlanFromNote"), zap.String("userID", userID.String()))

	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	noteID, err := uuid.Parse(rawNoteID)
	if err != nil {
		return nil, models.ErrInvalidNoteID
	}
	if s.aiService == nil {
		return nil, models.ErrAIServiceUnavailable
	}

	if err := s.checkQuota(ctx, userID); err != nil {
		return nil, err
	}

	note, err := s.repo.GetNoteByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.UserID != userID {
		return nil, models.ErrForbidden
	}
	if note.IsDraft {
		return nil, models.ErrDraftNote
	}

	content, err := s.aiService.GeneratePlanFromNote(ctx, note, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	planID, err := s.repo.InsertPlan(ctx, models.Plan{
		NoteID:        note.ID,
		UserID:        userID,
		DestinationID: note.DestinationID,
		Content:       *content,
		IsPublic:      false,
		LikesCount:    0,
	})
	if err != nil {
		return nil, err
	}
	l.Info("Plan generated", zap.String("plan_id", planID.String()), zap.String("note_id", noteID.String()))

	s.syncGenerationLimit(ctx, userID)

	return s.GetPlanByID(ctx, planID, &userID)
}

// checkQuota counts today's plans in the UTC window. A count failure fails
// open: generation proceeds rather than blocking users on a read error.
func (s *ServiceImpl) checkQuota(ctx context.Context, userID uuid.UUID) error {
	now := s.now()
	from, to := dayBoundsUTC(now)

	count, err := s.repo.CountPlansCreatedBetween(ctx, userID, from, to)
	if err != nil {
		s.logger.Warn("Quota count failed, allowing generation",
			zap.Error(err), zap.String("user_id", userID.String()))
		return nil
	}
	if count >= DailyGenerationLimit {
		return &models.LimitExceededError{
			Limit:     DailyGenerationLimit,
			ResetTime: nextResetTime(now),
		}
	}
	return nil
}

// syncGenerationLimit refreshes the materialized generation_limits row after
// an insert. Failures are logged only; the count-based policy stays
// authoritative.
func (s *ServiceImpl) syncGenerationLimit(ctx context.Context, userID uuid.UUID) {
	now := s.now()
	from, to := dayBoundsUTC(now)

	count, err := s.repo.CountPlansCreatedBetween(ctx, userID, from, to)
	if err != nil {
		s.logger.Warn("Failed to recount plans for generation limit sync", zap.Error(err))
		return
	}

	remaining := DailyGenerationLimit - count
	if remaining < 0 {
		remaining = 0
	}
	reset := nextResetTime(now)
	if err := s.repo.UpsertGenerationLimit(ctx, models.GenerationLimit{
		UserID:               userID,
		RemainingGenerations: remaining,
		TotalLimit:           DailyGenerationLimit,
		ResetTime:            &reset,
	}); err != nil {
		s.logger.Warn("Failed to sync generation limit row", zap.Error(err))
	}
}

// GenerationLimit reports the caller's remaining quota, derived from the
// same count-based policy the generation path enforces.
func (s *ServiceImpl) GenerationLimit(ctx context.Context, userID uuid.UUID) (*models.GenerationLimitResponse, error) {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "GenerationLimit")
	defer span.End()

	now := s.now()
	from, to := dayBoundsUTC(now)
	count, err := s.repo.CountPlansCreatedBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	remaining := DailyGenerationLimit - count
	if remaining < 0 {
		remaining = 0
	}
	return &models.GenerationLimitResponse{
		RemainingGenerations: remaining,
		TotalLimit:           DailyGenerationLimit,
		ResetTime:            nextResetTime(now),
	}, nil
}

// LikePlan records a like on a plan the caller can see and drops the plan's
// cached variants so counts stay fresh.
func (s *ServiceImpl) LikePlan(ctx context.Context, planID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "LikePlan")
	defer span.End()

	plan, err := s.repo.GetPlanByID(ctx, planID)
	if err != nil {
		return err
	}
	if !plan.IsPublic && plan.UserID != userID {
		return models.ErrForbidden
	}

	if _, err := s.repo.LikePlan(ctx, planID, userID); err != nil {
		return err
	}

	s.planCache.DeletePrefix(fmt.Sprintf("plan_%s_", planID))
	return nil
}

// UnlikePlan removes the caller's like, if any.
func (s *ServiceImpl) UnlikePlan(ctx context.Context, planID, userID uuid.UUID) error {
	ctx, span := otel.Tracer("PlanService").Start(ctx, "UnlikePlan")
	defer span.End()

	plan, err := s.repo.GetPlanByID(ctx, planID)
	if err != nil {
		return err
	}
	if !plan.IsPublic && plan.UserID != userID {
		return models.ErrForbidden
	}

	if _, err := s.repo.UnlikePlan(ctx, planID, userID); err != nil {
		return err
	}

	s.planCache.DeletePrefix(fmt.Sprintf("plan_%s_", planID))
	return nil
}

// ClearCache evicts every cached plan response.
func (s *ServiceImpl) ClearCache() {
	s.planCache.Clear()
}
