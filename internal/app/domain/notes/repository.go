package notes

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
	database "github.com/vibetravels/backend/internal/db"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository defines note persistence. All reads exclude soft-deleted rows.
type Repository interface {
	CreateNote(ctx context.Context, note models.Note) (uuid.UUID, error)
	GetNoteByID(ctx context.Context, noteID uuid.UUID) (*models.Note, error)
	ListNotesByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Note, int, error)
	UpdateNote(ctx context.Context, note models.Note) error
	SoftDeleteNote(ctx context.Context, noteID uuid.UUID) error
	GetDestination(ctx context.Context, destinationID int) (*models.Destination, error)
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

func (r *RepositoryImpl) CreateNote(ctx context.Context, note models.Note) (uuid.UUID, error) {
	query := `
        INSERT INTO notes (user_id, destination_id, segment, transport, duration, attractions, is_draft)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query,
		note.UserID, note.DestinationID, note.Segment, note.Transport,
		note.Duration, note.Attractions, note.IsDraft,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to create note", zap.Error(err))
		return uuid.Nil, fmt.Errorf("failed to create note: %w", err)
	}
	return id, nil
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

func (r *RepositoryImpl) ListNotesByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Note, int, error) {
	countQuery, countArgs, err := sq.Select("COUNT(*)").
		From("notes").
		Where(sq.Eq{"user_id": userID, "deleted_at": nil}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build notes count query: %w", err)
	}

	var total int
	if err := r.pgpool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.logger.Error("Failed to count notes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	listQuery, listArgs, err := sq.Select(
		"id", "user_id", "destination_id", "segment", "transport", "duration",
		"attractions", "is_draft", "created_at", "updated_at",
	).
		From("notes").
		Where(sq.Eq{"user_id": userID, "deleted_at": nil}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build notes list query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		r.logger.Error("Failed to list notes", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(
			&note.ID, &note.UserID, &note.DestinationID, &note.Segment, &note.Transport,
			&note.Duration, &note.Attractions, &note.IsDraft, &note.CreatedAt, &note.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan note row: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed iterating note rows: %w", err)
	}

	return notes, total, nil
}

func (r *RepositoryImpl) UpdateNote(ctx context.Context, note models.Note) error {
	query := `
        UPDATE notes
        SET destination_id = $2, segment = $3, transport = $4, duration = $5,
            attractions = $6, is_draft = $7, updated_at = now()
        WHERE id = $1 AND deleted_at IS NULL
    `
	tag, err := r.pgpool.Exec(ctx, query,
		note.ID, note.DestinationID, note.Segment, note.Transport,
		note.Duration, note.Attractions, note.IsDraft,
	)
	if err != nil {
		r.logger.Error("Failed to update note", zap.Error(err), zap.String("note_id", note.ID.String()))
		return fmt.Errorf("failed to update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNoteNotFound
	}
	return nil
}

func (r *RepositoryImpl) SoftDeleteNote(ctx context.Context, noteID uuid.UUID) error {
	query := `UPDATE notes SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.pgpool.Exec(ctx, query, noteID)
	if err != nil {
		r.logger.Error("Failed to delete note", zap.Error(err), zap.String("note_id", noteID.String()))
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNoteNotFound
	}
	return nil
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
