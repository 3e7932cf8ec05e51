package repository

import (
	"context"
	"database/sql"

	"agreetime-api/core/database"
	"agreetime-api/core/logger"
	"agreetime-api/core/params"
	"agreetime-api/modules/approval/entity"

	"github.com/google/uuid"
)

// ApprovalRepository handles approval_records database operations
type ApprovalRepository struct {
	DB database.Database
}

func NewApprovalRepository(db database.Database) *ApprovalRepository {
	return &ApprovalRepository{DB: db}
}

// ApprovalRepositoryInterface defines the repository contract
type ApprovalRepositoryInterface interface {
	CreateRecords(ctx context.Context, eventID uuid.UUID, approverIDs []uuid.UUID) error
	GetByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.ApprovalRecord, error)
	GetRecord(ctx context.Context, eventID uuid.UUID, approverID uuid.UUID) (*entity.ApprovalRecord, error)
	Decide(ctx context.Context, eventID uuid.UUID, approverID uuid.UUID, decision entity.Decision, reason *string) (bool, error)
	ListPendingForApprover(ctx context.Context, approverID uuid.UUID, p params.QueryParams) (*entity.PaginatedPendingApprovals, error)
}

func (r *ApprovalRepository) CreateRecords(ctx context.Context, eventID uuid.UUID, approverIDs []uuid.UUID) error {
	query := `
		INSERT INTO approval_records (event_id, approver_id, decision)
		VALUES ($1, $2, 'pending')
		ON CONFLICT (event_id, approver_id) DO NOTHING
	`
	for _, approverID := range approverIDs {
		if err := r.DB.ExecContext(ctx, query, eventID, approverID); err != nil {
			logger.Error("ApprovalRepository:CreateRecords", err,
				"event_id", eventID.String(), "approver_id", approverID.String())
			return err
		}
	}
	return nil
}

func (r *ApprovalRepository) GetByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.ApprovalRecord, error) {
	query := `
		SELECT id, event_id, approver_id, decision, reason, decided_at, created_at
		FROM approval_records
		WHERE event_id = $1
		ORDER BY created_at
	`

	var records []entity.ApprovalRecord
	err := r.DB.SelectContext(ctx, &records, query, eventID)
	if err != nil {
		logger.Error("ApprovalRepository:GetByEvent", err)
		return nil, err
	}

	return records, nil
}

func (r *ApprovalRepository) GetRecord(ctx context.Context, eventID uuid.UUID, approverID uuid.UUID) (*entity.ApprovalRecord, error) {
	query := `
		SELECT id, event_id, approver_id, decision, reason, decided_at, created_at
		FROM approval_records
		WHERE event_id = $1 AND approver_id = $2
	`

	var record entity.ApprovalRecord
	err := r.DB.GetContext(ctx, &record, query, eventID, approverID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ApprovalRepository:GetRecord", err)
		return nil, err
	}

	return &record, nil
}

// Decide applies a decision to a still-pending record. Returns false when no
// row changed, i.e. the record was already decided. The WHERE guard keeps
// decisions write-once at the database level too.
func (r *ApprovalRepository) Decide(ctx context.Context, eventID uuid.UUID, approverID uuid.UUID, decision entity.Decision, reason *string) (bool, error) {
	query := `
		UPDATE approval_records
		SET decision = $3, reason = $4, decided_at = NOW()
		WHERE event_id = $1 AND approver_id = $2 AND decision = 'pending'
	`
	res, err := r.DB.SQLx().ExecContext(ctx, query, eventID, approverID, decision, reason)
	if err != nil {
		logger.Error("ApprovalRepository:Decide", err,
			"event_id", eventID.String(), "approver_id", approverID.String())
		return false, err
	}

	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *ApprovalRepository) ListPendingForApprover(ctx context.Context, approverID uuid.UUID, p params.QueryParams) (*entity.PaginatedPendingApprovals, error) {
	offset := (p.PageNumber - 1) * p.PageSize

	baseQuery := `
		FROM approval_records ar
		JOIN events e ON e.id = ar.event_id
		WHERE ar.approver_id = $1
		  AND ar.decision = 'pending'
		  AND e.status = 'awaiting_approval'
	`

	var totalItems int
	if err := r.DB.GetContext(ctx, &totalItems, `SELECT COUNT(*) `+baseQuery, approverID); err != nil {
		logger.Error("ApprovalRepository:ListPendingForApprover:Count", err)
		return nil, err
	}

	query := `
		SELECT e.id AS event_id, e.title, e.start_time, e.end_time, e.creator_id,
		       ar.created_at AS requested_at
		` + baseQuery + `
		ORDER BY ar.created_at DESC
		LIMIT $2 OFFSET $3
	`

	var pending []entity.PendingApproval
	if err := r.DB.SelectContext(ctx, &pending, query, approverID, p.PageSize, offset); err != nil {
		logger.Error("ApprovalRepository:ListPendingForApprover:Select", err)
		return nil, err
	}

	return &entity.PaginatedPendingApprovals{
		Items:      pending,
		TotalItems: totalItems,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}
