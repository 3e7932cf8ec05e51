package repository

import (
	"context"
	"database/sql"

	"agreetime-api/core/database"
	"agreetime-api/core/logger"
	"agreetime-api/modules/attachment/entity"

	"github.com/google/uuid"
)

type AttachmentRepository struct {
	db database.Database
}

func NewAttachmentRepository(db database.Database) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// AttachmentRepositoryInterface defines the repository contract
type AttachmentRepositoryInterface interface {
	Create(ctx context.Context, attachment *entity.Attachment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Attachment, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment *entity.Attachment) error {
	query := `
		INSERT INTO attachments (event_id, uploader_id, file_name, content_type, storage_key)
		VALUES (:event_id, :uploader_id, :file_name, :content_type, :storage_key)
		RETURNING id, created_at, updated_at
	`
	rows, err := r.db.NamedQueryContext(ctx, query, attachment)
	if err != nil {
		logger.Error("AttachmentRepository:Create", err)
		return err
	}
	defer rows.Close()

	if rows.Next() {
		return rows.Scan(&attachment.ID, &attachment.CreatedAt, &attachment.UpdatedAt)
	}
	return nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Attachment, error) {
	query := `
		SELECT id, event_id, uploader_id, file_name, content_type, storage_key, created_at, updated_at
		FROM attachments
		WHERE id = $1
	`

	var attachment entity.Attachment
	err := r.db.GetContext(ctx, &attachment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AttachmentRepository:GetByID", err)
		return nil, err
	}

	return &attachment, nil
}

func (r *AttachmentRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Attachment, error) {
	query := `
		SELECT id, event_id, uploader_id, file_name, content_type, storage_key, created_at, updated_at
		FROM attachments
		WHERE event_id = $1
		ORDER BY created_at
	`

	var attachments []entity.Attachment
	if err := r.db.SelectContext(ctx, &attachments, query, eventID); err != nil {
		logger.Error("AttachmentRepository:ListByEvent", err)
		return nil, err
	}

	return attachments, nil
}

func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM attachments WHERE id = $1`
	if err := r.db.ExecContext(ctx, query, id); err != nil {
		logger.Error("AttachmentRepository:Delete", err)
		return err
	}
	return nil
}
