package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
	database "github.com/vibetravels/backend/internal/db"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository defines plan persistence. Content is stored as JSONB; reads
// exclude soft-deleted rows.
type Repository interface {
	InsertPlan(ctx context.Context, plan models.Plan) (uuid.UUID, error)
	GetPlanByID(ctx context.Context, planID uuid.UUID) (*models.Plan, error)
	GetNoteByID(ctx context.Context, noteID uuid.UUID) (*models.Note, error)
	GetDestination(ctx context.Context, destinationID int) (*models.Destination, error)
	GetUserBasicInfo(ctx context.Context, userID uuid.UUID) (*models.UserBasicInfo, error)
	IsLikedBy(ctx context.Context, planID, userID uuid.UUID) (bool, error)
	LikePlan(ctx context.Context, planID, userID uuid.UUID) (bool, error)
	UnlikePlan(ctx context.Context, planID, userID uuid.UUID) (bool, error)
	CountPlansCreatedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error)
	UpsertGenerationLimit(ctx context.Context, limit models.GenerationLimit) error
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

func (r *RepositoryImpl) InsertPlan(ctx context.Context, plan models.Plan) (uuid.UUID, error) {
	content, err := json.Marshal(plan.Content)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal plan content: %w", err)
	}

	query := `
        INSERT INTO plans (note_id, user_id, destination_id, content, is_public, likes_count)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `
	var id uuid.UUID
	err = r.pgpool.QueryRow(ctx, query,
		plan.NoteID, plan.UserID, plan.DestinationID, content, plan.IsPublic, plan.LikesCount,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert plan", zap.Error(err))
		return uuid.Nil, fmt.Errorf("failed to insert plan: %w", err)
	}
	return id, nil
}

func (r *RepositoryImpl) GetPlanByID(ctx context.Context, planID uuid.UUID) (*models.Plan, error) {
	query := `
        SELECT id, note_id, user_id, destination_id, content, is_public, likes_count, created_at
        FROM plans
        WHERE id = $1 AND deleted_at IS NULL
    `
	var plan models.Plan
	var content []byte
	err := r.pgpool.QueryRow(ctx, query, planID).Scan(
		&plan.ID, &plan.NoteID, &plan.UserID, &plan.DestinationID,
		&content, &plan.IsPublic, &plan.LikesCount, &plan.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPlanNotFound
		}
		r.logger.Error("Failed to fetch plan", zap.Error(err), zap.String("plan_id", planID.String()))
		return nil, fmt.Errorf("failed to fetch plan: %w", err)
	}
	if err := json.Unmarshal(content, &plan.Content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan content: %w", err)
	}
	return &plan, nil
}

func (r *RepositoryImpl) GetNoteByID(ctx context.Context, noteID uuid.UUID) (*models.Note, error) {
	query := `
        SELECT id, user_id, destination_id, segment, transport, duration, attractions,
               is_draft, created_at, updated_at
        FROM notes
        WHERE id = $1 AND deleted_at IS NULL
    `
	var note models.Note
	err := r.pgpool.QueryRow(ctx, query, noteID).Scan(
		&note.ID, &note.UserID, &note.DestinationID, &note.Segment, &note.Transport,
		&note.Duration, &note.Attractions, &note.IsDraft, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNoteNotFound
		}
		r.logger.Error("Failed to fetch note", zap.Error(err), zap.String("note_id", noteID.String()))
		return nil, fmt.Errorf("failed to fetch note: %w", err)
	}
	return &note, nil
}

func (r *RepositoryImpl) GetDestination(ctx context.Context, destinationID int) (*models.Destination, error) {
	query := `SELECT id, city, country, created_at FROM destinations WHERE id = $1`
	var dest models.Destination
	err := r.pgpool.QueryRow(ctx, query, destinationID).Scan(
		&dest.ID, &dest.City, &dest.Country, &dest.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDestinationNotFound
		}
		r.logger.Error("Failed to fetch destination", zap.Error(err), zap.Int("destination_id", destinationID))
		return nil, fmt.Errorf("failed to fetch destination: %w", err)
	}
	return &dest, nil
}

func (r *RepositoryImpl) GetUserBasicInfo(ctx context.Context, userID uuid.UUID) (*models.UserBasicInfo, error) {
	query := `SELECT first_name, last_name FROM profiles WHERE id = $1`
	var firstName, lastName string
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(&firstName, &lastName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to fetch profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	info := models.UserBasicInfo{FirstName: firstName}
	if lastName != "" {
		info.LastNameInitial = string([]rune(lastName)[0]) + "."
	}
	return &info, nil
}

func (r *RepositoryImpl) IsLikedBy(ctx context.Context, planID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM likes WHERE plan_id = $1 AND user_id = $2)`
	var liked bool
	if err := r.pgpool.QueryRow(ctx, query, planID, userID).Scan(&liked); err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return liked, nil
}

// LikePlan records a like and bumps the plan counter. Returns false when the
// like already existed.
func (r *RepositoryImpl) LikePlan(ctx context.Context, planID, userID uuid.UUID) (bool, error) {
	query := `
        INSERT INTO likes (user_id, plan_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, plan_id) DO NOTHING
    `
	tag, err := r.pgpool.Exec(ctx, query, userID, planID)
	if err != nil {
		r.logger.Error("Failed to insert like", zap.Error(err))
		return false, fmt.Errorf("failed to insert like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := r.pgpool.Exec(ctx,
		`UPDATE plans SET likes_count = likes_count + 1 WHERE id = $1`, planID); err != nil {
		r.logger.Error("Failed to increment likes_count", zap.Error(err))
		return false, fmt.Errorf("failed to increment likes_count: %w", err)
	}
	return true, nil
}

// UnlikePlan removes a like and decrements the counter. Returns false when
// there was no like to remove.
func (r *RepositoryImpl) UnlikePlan(ctx context.Context, planID, userID uuid.UUID) (bool, error) {
	tag, err := r.pgpool.Exec(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND plan_id = $2`, userID, planID)
	if err != nil {
		r.logger.Error("Failed to delete like", zap.Error(err))
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := r.pgpool.Exec(ctx,
		`UPDATE plans SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1`, planID); err != nil {
		r.logger.Error("Failed to decrement likes_count", zap.Error(err))
		return false, fmt.Errorf("failed to decrement likes_count: %w", err)
	}
	return true, nil
}

func (r *RepositoryImpl) CountPlansCreatedBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	query := `
        SELECT COUNT(*)
        FROM plans
        WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3 AND deleted_at IS NULL
    `
	var count int
	if err := r.pgpool.QueryRow(ctx, query, userID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count plans: %w", err)
	}
	return count, nil
}

// UpsertGenerationLimit keeps the materialized quota row in sync with the
// count-derived policy.
func (r *RepositoryImpl) UpsertGenerationLimit(ctx context.Context, limit models.GenerationLimit) error {
	query := `
        INSERT INTO generation_limits (user_id, remaining_generations, total_limit, reset_time, updated_at)
        VALUES ($1, $2, $3, $4, now())
        ON CONFLICT (user_id) DO UPDATE
        SET remaining_generations = EXCLUDED.remaining_generations,
            total_limit = EXCLUDED.total_limit,
            reset_time = EXCLUDED.reset_time,
            updated_at = now()
    `
	_, err := r.pgpool.Exec(ctx, query,
		limit.UserID, limit.RemainingGenerations, limit.TotalLimit, limit.ResetTime,
	)
	if err != nil {
		r.logger.Error("Failed to upsert generation limit", zap.Error(err))
		return fmt.Errorf("failed to upsert generation limit: %w", err)
	}
	return nil
}
