package entity

import (
	coreEntity "agreetime-api/core/entity"

	"github.com/google/uuid"
)

// Attachment is a file linked to an event. The blob lives in object storage;
// this row carries the key and upload metadata.
type Attachment struct {
	coreEntity.BaseEntity
	EventID     uuid.UUID `db:"event_id" json:"event_id"`
	UploaderID  uuid.UUID `db:"uploader_id" json:"uploader_id"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	StorageKey  string    `db:"storage_key" json:"-"`
}
