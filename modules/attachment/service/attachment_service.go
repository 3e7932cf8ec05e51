package service

import (
	"context"
	"fmt"
	"time"

	"agreetime-api/core/errors"
	"agreetime-api/core/logger"
	"agreetime-api/core/storage"
	"agreetime-api/core/utils"
	"agreetime-api/modules/attachment/dto"
	"agreetime-api/modules/attachment/entity"
	"agreetime-api/modules/attachment/repository"
	eventRepo "agreetime-api/modules/event/repository"

	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

// AttachmentService links files to events. Blobs go straight to object
// storage through presigned URLs; only participants may attach or download,
// and only the uploader or the event creator may delete.
type AttachmentService struct {
	repo    repository.AttachmentRepositoryInterface
	events  eventRepo.EventRepositoryInterface
	storage storage.IStorage
}

// AttachmentServiceInterface defines the service contract
type AttachmentServiceInterface interface {
	Create(ctx context.Context, eventID uuid.UUID, uploaderID uuid.UUID, req *dto.CreateAttachmentRequest) (*dto.CreateAttachmentResponse, *errors.AppError)
	ListByEvent(ctx context.Context, eventID uuid.UUID, callerID uuid.UUID) ([]dto.AttachmentResponse, *errors.AppError)
	Download(ctx context.Context, attachmentID uuid.UUID, callerID uuid.UUID) (*dto.DownloadResponse, *errors.AppError)
	Delete(ctx context.Context, attachmentID uuid.UUID, callerID uuid.UUID) *errors.AppError
}

func NewAttachmentService(
	repo repository.AttachmentRepositoryInterface,
	events eventRepo.EventRepositoryInterface,
	store storage.IStorage,
) AttachmentServiceInterface {
	return &AttachmentService{repo: repo, events: events, storage: store}
}

func (s *AttachmentService) Create(ctx context.Context, eventID uuid.UUID, uploaderID uuid.UUID, req *dto.CreateAttachmentRequest) (*dto.CreateAttachmentResponse, *errors.AppError) {
	if req.FileName == "" || req.ContentType == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "file_name and content_type are required", nil)
	}

	if appErr := s.requireParticipant(ctx, eventID, uploaderID); appErr != nil {
		return nil, appErr
	}

	attachment := &entity.Attachment{
		EventID:     eventID,
		UploaderID:  uploaderID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		StorageKey:  fmt.Sprintf("events/%s/%s-%s", eventID, utils.GenerateID(), req.FileName),
	}
	if err := s.repo.Create(ctx, attachment); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create attachment", err)
	}

	uploadURL, err := s.storage.PresignUpload(ctx, attachment.StorageKey, req.ContentType, presignTTL)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to presign upload", err)
	}

	return &dto.CreateAttachmentResponse{
		AttachmentResponse: *dto.ToAttachmentResponse(attachment),
		UploadURL:          uploadURL,
	}, nil
}

func (s *AttachmentService) ListByEvent(ctx context.Context, eventID uuid.UUID, callerID uuid.UUID) ([]dto.AttachmentResponse, *errors.AppError) {
	if appErr := s.requireParticipant(ctx, eventID, callerID); appErr != nil {
		return nil, appErr
	}

	attachments, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list attachments", err)
	}

	out := make([]dto.AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		out = append(out, *dto.ToAttachmentResponse(&attachments[i]))
	}
	return out, nil
}

func (s *AttachmentService) Download(ctx context.Context, attachmentID uuid.UUID, callerID uuid.UUID) (*dto.DownloadResponse, *errors.AppError) {
	attachment, err := s.repo.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get attachment", err)
	}
	if attachment == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Attachment not found", nil)
	}

	if appErr := s.requireParticipant(ctx, attachment.EventID, callerID); appErr != nil {
		return nil, appErr
	}

	url, err := s.storage.PresignDownload(ctx, attachment.StorageKey, presignTTL)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to presign download", err)
	}

	return &dto.DownloadResponse{DownloadURL: url}, nil
}

func (s *AttachmentService) Delete(ctx context.Context, attachmentID uuid.UUID, callerID uuid.UUID) *errors.AppError {
	attachment, err := s.repo.GetByID(ctx, attachmentID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get attachment", err)
	}
	if attachment == nil {
		return errors.NewAppError(errors.ErrNotFound, "Attachment not found", nil)
	}

	if attachment.UploaderID != callerID {
		event, err := s.events.GetEventByID(ctx, attachment.EventID)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
		}
		if event == nil || event.CreatorID != callerID {
			return errors.NewAppError(errors.ErrForbidden, "Only the uploader or the event creator may delete an attachment", nil)
		}
	}

	if err := s.repo.Delete(ctx, attachmentID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete attachment", err)
	}

	// Blob cleanup is best effort; an orphaned object is harmless.
	if err := s.storage.Delete(ctx, attachment.StorageKey); err != nil {
		logger.Warn("AttachmentService:Delete:blob", "error", err, "storage_key", attachment.StorageKey)
	}

	return nil
}

func (s *AttachmentService) requireParticipant(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) *errors.AppError {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	participants, err := s.events.GetParticipants(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get participants", err)
	}
	for _, p := range participants {
		if p == userID {
			return nil
		}
	}
	return errors.NewAppError(errors.ErrForbidden, "Only participants may access event attachments", nil)
}
