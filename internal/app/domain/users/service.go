package users

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// Service owns the caller-facing profile operations.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req models.ProfileUpdateRequest) (*models.Profile, error)
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

func (s *ServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetProfile")
	defer span.End()

	return s.repo.GetProfileByID(ctx, userID)
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.ProfileUpdateRequest) (*models.Profile, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "UpdateProfile")
	defer span.End()

	profile, err := s.repo.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		profile.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		profile.LastName = *req.LastName
	}
	if req.PreferredSegment != nil {
		if !models.ValidSegment(*req.PreferredSegment) {
			return nil, models.ErrValidation
		}
		profile.PreferredSegment = req.PreferredSegment
	}
	if req.PreferredTransport != nil {
		if !models.ValidTransport(*req.PreferredTransport) {
			return nil, models.ErrValidation
		}
		profile.PreferredTransport = req.PreferredTransport
	}

	if err := s.repo.UpdateProfile(ctx, *profile); err != nil {
		return nil, err
	}

	return s.repo.GetProfileByID(ctx, userID)
}
