package entity

import (
	coreEntity "agreetime-api/core/entity"

	"github.com/google/uuid"
)

// Comment is a discussion entry on an event, visible to its participants.
type Comment struct {
	coreEntity.BaseEntity
	EventID  uuid.UUID `db:"event_id" json:"event_id"`
	AuthorID uuid.UUID `db:"author_id" json:"author_id"`
	Body     string    `db:"body" json:"body"`
}

type PaginatedCommentEntity = coreEntity.Pagination[Comment]
