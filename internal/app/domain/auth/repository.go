package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
	database "github.com/vibetravels/backend/internal/db"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists user profiles for registration and login.
type Repository interface {
	CreateProfile(ctx context.Context, email, passwordHash, firstName, lastName string) (uuid.UUID, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
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

func (r *RepositoryImpl) CreateProfile(ctx context.Context, email, passwordHash, firstName, lastName string) (uuid.UUID, error) {
	query := `
        INSERT INTO profiles (email, password_hash, first_name, last_name)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query, email, passwordHash, firstName, lastName).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, models.ErrConflict
		}
		r.logger.Error("Failed to create profile", zap.Error(err))
		return uuid.Nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return id, nil
}

func (r *RepositoryImpl) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `
        SELECT id, email, password_hash, first_name, last_name,
               preferred_segment, preferred_transport, plans_count, likes_received_count,
               created_at, updated_at
        FROM profiles
        WHERE email = $1
    `
	var p models.Profile
	err := r.pgpool.QueryRow(ctx, query, email).Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName,
		&p.PreferredSegment, &p.PreferredTransport, &p.PlansCount, &p.LikesReceivedCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to fetch profile by email", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &p, nil
}
