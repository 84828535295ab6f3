package destinations

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
)

const (
	idCacheTTL     = 10 * time.Minute
	idCacheCleanup = 30 * time.Minute
)

var _ Service = (*ServiceImpl)(nil)

// Service exposes the destination catalog. Single-row lookups are cached
// in-process since the catalog only changes via migrations.
type Service interface {
	GetDestination(ctx context.Context, destinationID int) (*models.Destination, error)
	ListDestinations(ctx context.Context, filter Filter, page, limit int) (*models.DestinationListResponse, error)
}

type ServiceImpl struct {
	logger  *zap.Logger
	repo    Repository
	idCache *gocache.Cache
}

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		idCache: gocache.New(idCacheTTL, idCacheCleanup),
	}
}

func (s *ServiceImpl) GetDestination(ctx context.Context, destinationID int) (*models.Destination, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "GetDestination")
	defer span.End()

	key := fmt.Sprintf("destination_%d", destinationID)
	if cached, found := s.idCache.Get(key); found {
		return cached.(*models.Destination), nil
	}

	dest, err := s.repo.GetDestination(ctx, destinationID)
	if err != nil {
		return nil, err
	}

	s.idCache.SetDefault(key, dest)
	return dest, nil
}

func (s *ServiceImpl) ListDestinations(ctx context.Context, filter Filter, page, limit int) (*models.DestinationListResponse, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "ListDestinations")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	destinations, total, err := s.repo.ListDestinations(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	if destinations == nil {
		destinations = []models.Destination{}
	}
	pages := (total + limit - 1) / limit
	return &models.DestinationListResponse{
		Data: destinations,
		Pagination: models.Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: pages,
		},
	}, nil
}
