package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
	database "github.com/vibetravels/backend/internal/db"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository reads and updates user profiles.
type Repository interface {
	GetProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile models.Profile) error
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

func (r *RepositoryImpl) GetProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := `
        SELECT id, email, first_name, last_name,
               preferred_segment, preferred_transport, plans_count, likes_received_count,
               created_at, updated_at
        FROM profiles
        WHERE id = $1
    `
	var p models.Profile
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName,
		&p.PreferredSegment, &p.PreferredTransport, &p.PlansCount, &p.LikesReceivedCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to fetch profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &p, nil
}

func (r *RepositoryImpl) UpdateProfile(ctx context.Context, profile models.Profile) error {
	query := `
        UPDATE profiles
        SET first_name = $2, last_name = $3, preferred_segment = $4,
            preferred_transport = $5, updated_at = now()
        WHERE id = $1
    `
	tag, err := r.pgpool.Exec(ctx, query,
		profile.ID, profile.FirstName, profile.LastName,
		profile.PreferredSegment, profile.PreferredTransport,
	)
	if err != nil {
		r.logger.Error("Failed to update profile", zap.Error(err), zap.String("user_id", profile.ID.String()))
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
