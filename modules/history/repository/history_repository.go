package repository

import (
	"context"

	"agreetime-api/core/database"
	"agreetime-api/core/logger"
	"agreetime-api/modules/history/entity"

	"github.com/google/uuid"
)

// HistoryRepository handles event_history database operations
type HistoryRepository struct {
	DB database.Database
}

func NewHistoryRepository(db database.Database) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

// HistoryRepositoryInterface defines the repository contract
type HistoryRepositoryInterface interface {
	Append(ctx context.Context, h *entity.EventHistory) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.EventHistory, error)
}

// Append records an audit entry. Failures are logged but swallowed by
// callers: the audit trail must never block a state transition.
func (r *HistoryRepository) Append(ctx context.Context, h *entity.EventHistory) error {
	query := `
		INSERT INTO event_history (event_id, actor_id, action, details)
		VALUES ($1, $2, $3, $4)
	`
	err := r.DB.ExecContext(ctx, query, h.EventID, h.ActorID, h.Action, h.Details)
	if err != nil {
		logger.Error("HistoryRepository:Append", err, "event_id", h.EventID.String())
		return err
	}
	return nil
}

func (r *HistoryRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.EventHistory, error) {
	query := `
		SELECT id, event_id, actor_id, action, details, occurred_at
		FROM event_history
		WHERE event_id = $1
		ORDER BY occurred_at
	`

	var entries []entity.EventHistory
	err := r.DB.SelectContext(ctx, &entries, query, eventID)
	if err != nil {
		logger.Error("HistoryRepository:ListByEvent", err)
		return nil, err
	}

	return entries, nil
}
