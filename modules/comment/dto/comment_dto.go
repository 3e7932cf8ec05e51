package dto

import (
	"time"

	"agreetime-api/modules/comment/entity"
)

// ===================== Request DTOs =====================

// CreateCommentRequest for posting a comment on an event
type CreateCommentRequest struct {
	Body string `json:"body" validate:"required"`
}

// ===================== Response DTOs =====================

// CommentResponse for comment details
type CommentResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// PaginatedCommentResponse for comment listings
type PaginatedCommentResponse struct {
	Items      []CommentResponse `json:"items"`
	TotalItems int               `json:"total_items"`
	PageNumber int               `json:"page_number"`
	PageSize   int               `json:"page_size"`
}

// ===================== Mapper Functions =====================

func ToCommentResponse(c *entity.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        c.ID.String(),
		EventID:   c.EventID.String(),
		AuthorID:  c.AuthorID.String(),
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

func ToPaginatedCommentResponse(page *entity.PaginatedCommentEntity) *PaginatedCommentResponse {
	items := make([]CommentResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *ToCommentResponse(&page.Items[i]))
	}
	return &PaginatedCommentResponse{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}
