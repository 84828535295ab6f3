package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/models"
	database "github.com/vibetravels/backend/internal/db"
)

var _ ErrorRecorder = (*RepositoryImpl)(nil)

// RepositoryImpl persists ai_errors audit rows.
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

// LogAIError appends one audit record. Rows are never updated or deleted.
func (r *RepositoryImpl) LogAIError(ctx context.Context, record models.AIError) error {
	query := `
        INSERT INTO ai_errors (user_id, note_id, error_type, error_message, input_data)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.pgpool.Exec(ctx, query,
		record.UserID, record.NoteID, record.ErrorType, record.ErrorMessage, record.InputData,
	)
	if err != nil {
		r.logger.Error("Failed to insert AI error record", zap.Error(err))
		return fmt.Errorf("failed to insert ai error: %w", err)
	}
	return nil
}
