package service

import (
	"context"

	"agreetime-api/core/errors"
	"agreetime-api/core/params"
	"agreetime-api/modules/comment/dto"
	"agreetime-api/modules/comment/entity"
	"agreetime-api/modules/comment/repository"
	eventRepo "agreetime-api/modules/event/repository"

	"github.com/google/uuid"
)

// CommentService handles event discussion threads. Posting and reading are
// limited to participants; deletion is allowed to the author or the event
// creator.
type CommentService struct {
	repo   repository.CommentRepositoryInterface
	events eventRepo.EventRepositoryInterface
}

// CommentServiceInterface defines the service contract
type CommentServiceInterface interface {
	Create(ctx context.Context, eventID uuid.UUID, authorID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, *errors.AppError)
	ListByEvent(ctx context.Context, eventID uuid.UUID, callerID uuid.UUID, p params.QueryParams) (*dto.PaginatedCommentResponse, *errors.AppError)
	Delete(ctx context.Context, commentID uuid.UUID, callerID uuid.UUID) *errors.AppError
}

func NewCommentService(repo repository.CommentRepositoryInterface, events eventRepo.EventRepositoryInterface) CommentServiceInterface {
	return &CommentService{repo: repo, events: events}
}

func (s *CommentService) Create(ctx context.Context, eventID uuid.UUID, authorID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, *errors.AppError) {
	if req.Body == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Comment body is required", nil)
	}

	if appErr := s.requireParticipant(ctx, eventID, authorID); appErr != nil {
		return nil, appErr
	}

	comment := &entity.Comment{
		EventID:  eventID,
		AuthorID: authorID,
		Body:     req.Body,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create comment", err)
	}

	return dto.ToCommentResponse(comment), nil
}

func (s *CommentService) ListByEvent(ctx context.Context, eventID uuid.UUID, callerID uuid.UUID, p params.QueryParams) (*dto.PaginatedCommentResponse, *errors.AppError) {
	if appErr := s.requireParticipant(ctx, eventID, callerID); appErr != nil {
		return nil, appErr
	}

	page, err := s.repo.ListByEvent(ctx, eventID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list comments", err)
	}

	return dto.ToPaginatedCommentResponse(page), nil
}

func (s *CommentService) Delete(ctx context.Context, commentID uuid.UUID, callerID uuid.UUID) *errors.AppError {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get comment", err)
	}
	if comment == nil {
		return errors.NewAppError(errors.ErrNotFound, "Comment not found", nil)
	}

	if comment.AuthorID != callerID {
		event, err := s.events.GetEventByID(ctx, comment.EventID)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
		}
		if event == nil || event.CreatorID != callerID {
			return errors.NewAppError(errors.ErrForbidden, "Only the author or the event creator may delete a comment", nil)
		}
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete comment", err)
	}
	return nil
}

func (s *CommentService) requireParticipant(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) *errors.AppError {
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
	return errors.NewAppError(errors.ErrForbidden, "Only participants may access event comments", nil)
}
