package service

import (
	"context"

	"agreetime-api/core/errors"
	eventRepo "agreetime-api/modules/event/repository"
	"agreetime-api/modules/history/entity"
	"agreetime-api/modules/history/repository"

	"github.com/google/uuid"
)

// HistoryService exposes the append-only audit trail to participants.
type HistoryService struct {
	repo   repository.HistoryRepositoryInterface
	events eventRepo.EventRepositoryInterface
}

// HistoryServiceInterface defines the service contract
type HistoryServiceInterface interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID, callerID uuid.UUID) ([]entity.EventHistory, *errors.AppError)
}

func NewHistoryService(repo repository.HistoryRepositoryInterface, events eventRepo.EventRepositoryInterface) HistoryServiceInterface {
	return &HistoryService{repo: repo, events: events}
}

func (s *HistoryService) ListByEvent(ctx context.Context, eventID uuid.UUID, callerID uuid.UUID) ([]entity.EventHistory, *errors.AppError) {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	participants, err := s.events.GetParticipants(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get participants", err)
	}
	allowed := false
	for _, p := range participants {
		if p == callerID {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only participants may view event history", nil)
	}

	entries, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list history", err)
	}
	return entries, nil
}
