package destinations

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
	database "github.com/vibetravels/backend/internal/db"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository reads the destination catalog. The catalog is seeded by
// migrations and effectively immutable at runtime.
type Repository interface {
	GetDestination(ctx context.Context, destinationID int) (*models.Destination, error)
	ListDestinations(ctx context.Context, filter Filter, page, limit int) ([]models.Destination, int, error)
}

// Filter narrows the destination list. Empty fields match everything.
type Filter struct {
	City    string
	Country string
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool database.Querier
}

func NewRepository(pgpool database.Querier, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) GetDestination(ctx context.Context, destinationID int) (*models.Destination, error) {
	query := `SELECT id, city, country, created_at FROM destinations WHERE id = $1`
	var dest models.Destination
	err := r.pgpool.QueryRow(ctx, query, destinationID).Scan(
		&dest.ID, &dest.City, &dest.Country, &dest.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to fetch destination", zap.Error(err), zap.Int("destination_id", destinationID))
		return nil, fmt.Errorf("failed to fetch destination: %w", err)
	}
	return &dest, nil
}

func (r *RepositoryImpl) ListDestinations(ctx context.Context, filter Filter, page, limit int) ([]models.Destination, int, error) {
	where := sq.And{}
	if filter.City != "" {
		where = append(where, sq.ILike{"city": "%" + filter.City + "%"})
	}
	if filter.Country != "" {
		where = append(where, sq.ILike{"country": "%" + filter.Country + "%"})
	}

	countBuilder := sq.Select("COUNT(*)").From("destinations").PlaceholderFormat(sq.Dollar)
	listBuilder := sq.Select("id", "city", "country", "created_at").
		From("destinations").
		OrderBy("city ASC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		PlaceholderFormat(sq.Dollar)
	if len(where) > 0 {
		countBuilder = countBuilder.Where(where)
		listBuilder = listBuilder.Where(where)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build destinations count query: %w", err)
	}
	var total int
	if err := r.pgpool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.logger.Error("Failed to count destinations", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count destinations: %w", err)
	}

	listQuery, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build destinations list query: %w", err)
	}
	rows, err := r.pgpool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		r.logger.Error("Failed to list destinations", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list destinations: %w", err)
	}
	defer rows.Close()

	var destinations []models.Destination
	for rows.Next() {
		var dest models.Destination
		if err := rows.Scan(&dest.ID, &dest.City, &dest.Country, &dest.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan destination row: %w", err)
		}
		destinations = append(destinations, dest)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed iterating destination rows: %w", err)
	}

	return destinations, total, nil
}
