package dto

import (
	"time"

	"agreetime-api/modules/attachment/entity"
)

// ===================== Request DTOs =====================

// CreateAttachmentRequest registers a file and requests an upload URL
type CreateAttachmentRequest struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
}

// ===================== Response DTOs =====================

// AttachmentResponse for attachment details
type AttachmentResponse struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	UploaderID  string    `json:"uploader_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAttachmentResponse adds the presigned upload URL
type CreateAttachmentResponse struct {
	AttachmentResponse
	UploadURL string `json:"upload_url"`
}

// DownloadResponse carries a presigned download URL
type DownloadResponse struct {
	DownloadURL string `json:"download_url"`
}

// ===================== Mapper Functions =====================

func ToAttachmentResponse(a *entity.Attachment) *AttachmentResponse {
	return &AttachmentResponse{
		ID:          a.ID.String(),
		EventID:     a.EventID.String(),
		UploaderID:  a.UploaderID.String(),
		FileName:    a.FileName,
		ContentType: a.ContentType,
		CreatedAt:   a.CreatedAt,
	}
}
