package repository

import (
	"context"
	"database/sql"

	"agreetime-api/core/database"
	"agreetime-api/core/logger"
	"agreetime-api/core/params"
	"agreetime-api/modules/comment/entity"

	"github.com/google/uuid"
)

type CommentRepository struct {
	db database.Database
}

func NewCommentRepository(db database.Database) *CommentRepository {
	return &CommentRepository{db: db}
}

// CommentRepositoryInterface defines the repository contract
type CommentRepositoryInterface interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, p params.QueryParams) (*entity.PaginatedCommentEntity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func (r *CommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (event_id, author_id, body)
		VALUES (:event_id, :author_id, :body)
		RETURNING id, created_at, updated_at
	`
	rows, err := r.db.NamedQueryContext(ctx, query, comment)
	if err != nil {
		logger.Error("CommentRepository:Create", err)
		return err
	}
	defer rows.Close()

	if rows.Next() {
		return rows.Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	query := `
		SELECT id, event_id, author_id, body, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	var comment entity.Comment
	err := r.db.GetContext(ctx, &comment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CommentRepository:GetByID", err)
		return nil, err
	}

	return &comment, nil
}

func (r *CommentRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, p params.QueryParams) (*entity.PaginatedCommentEntity, error) {
	offset := (p.PageNumber - 1) * p.PageSize

	baseQuery := `FROM comments WHERE event_id = $1`

	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+baseQuery, eventID); err != nil {
		logger.Error("CommentRepository:ListByEvent:Count", err)
		return nil, err
	}

	query := `
		SELECT id, event_id, author_id, body, created_at, updated_at ` + baseQuery + `
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`

	var comments []entity.Comment
	if err := r.db.SelectContext(ctx, &comments, query, eventID, p.PageSize, offset); err != nil {
		logger.Error("CommentRepository:ListByEvent:Select", err)
		return nil, err
	}

	return &entity.PaginatedCommentEntity{
		Items:      comments,
		TotalItems: totalItems,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1`
	if err := r.db.ExecContext(ctx, query, id); err != nil {
		logger.Error("CommentRepository:Delete", err)
		return err
	}
	return nil
}
