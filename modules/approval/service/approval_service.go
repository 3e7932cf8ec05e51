package service

import (
	"context"

	"agreetime-api/core/cache"
	"agreetime-api/core/errors"
	"agreetime-api/core/lock"
	"agreetime-api/core/logger"
	"agreetime-api/core/params"
	"agreetime-api/modules/approval/dto"
	"agreetime-api/modules/approval/entity"
	"agreetime-api/modules/approval/repository"
	availabilityEntity "agreetime-api/modules/availability/entity"
	availabilityService "agreetime-api/modules/availability/service"
	eventEntity "agreetime-api/modules/event/entity"
	eventRepo "agreetime-api/modules/event/repository"
	historyEntity "agreetime-api/modules/history/entity"
	historyRepo "agreetime-api/modules/history/repository"
	notifEntity "agreetime-api/modules/notification/entity"
	notifService "agreetime-api/modules/notification/service"

	"github.com/google/uuid"
)

// Rejection reasons written onto the event row.
const (
	reasonVetoed                 = "vetoed"
	reasonConflictAtConfirmation = "conflict_at_confirmation"
)

// ApprovalService resolves approval rounds: it records write-once decisions
// and drives the event to rejected on the first veto or to confirmed once the
// round is unanimous. The final approval re-runs the conflict guard before
// committing availability, so a round can still fail at the finish line.
type ApprovalService struct {
	repo         repository.ApprovalRepositoryInterface
	events       eventRepo.EventRepositoryInterface
	availability availabilityService.AvailabilityServiceInterface
	history      historyRepo.HistoryRepositoryInterface
	dispatcher   notifService.Dispatcher
	cache        cache.ICache
}

// ApprovalServiceInterface defines the service contract
type ApprovalServiceInterface interface {
	RecordDecision(ctx context.Context, eventID uuid.UUID, approverID uuid.UUID, req *dto.DecisionRequest) (*dto.DecisionResponse, *errors.AppError)
	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]dto.ApprovalRecordResponse, *errors.AppError)
	ListPending(ctx context.Context, approverID uuid.UUID, p params.QueryParams) (*dto.PaginatedPendingResponse, *errors.AppError)
}

func NewApprovalService(
	repo repository.ApprovalRepositoryInterface,
	events eventRepo.EventRepositoryInterface,
	availability availabilityService.AvailabilityServiceInterface,
	history historyRepo.HistoryRepositoryInterface,
	dispatcher notifService.Dispatcher,
	c cache.ICache,
) ApprovalServiceInterface {
	return &ApprovalService{
		repo:         repo,
		events:       events,
		availability: availability,
		history:      history,
		dispatcher:   dispatcher,
		cache:        c,
	}
}

// RecordDecision applies one approver's verdict under the event lock. A
// rejection resolves the round immediately; an approval resolves it only when
// every record is approved.
func (s *ApprovalService) RecordDecision(ctx context.Context, eventID uuid.UUID, approverID uuid.UUID, req *dto.DecisionRequest) (*dto.DecisionResponse, *errors.AppError) {
	var decision entity.Decision
	switch req.Decision {
	case "approve":
		decision = entity.DecisionApproved
	case "reject":
		decision = entity.DecisionRejected
	default:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Decision must be approve or reject", nil)
	}

	lock.Events.Lock(eventID)
	defer lock.Events.Unlock(eventID)

	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	record, err := s.repo.GetRecord(ctx, eventID, approverID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get approval record", err)
	}
	if record == nil {
		return nil, errors.NewAppError(errors.ErrNotAnApprover, "Caller is not an approver for this event", nil)
	}
	if record.Decision != entity.DecisionPending {
		return nil, errors.NewAppError(errors.ErrAlreadyDecided, "Decision already recorded", nil)
	}

	if event.Status != eventEntity.EventStatusAwaitingApproval {
		return nil, errors.NewAppError(errors.ErrEventNotPending, "Event is not awaiting approval", nil)
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	changed, err := s.repo.Decide(ctx, eventID, approverID, decision, reason)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to record decision", err)
	}
	if !changed {
		return nil, errors.NewAppError(errors.ErrAlreadyDecided, "Decision already recorded", nil)
	}

	resp := &dto.DecisionResponse{
		EventID:    eventID.String(),
		ApproverID: approverID.String(),
		Decision:   string(decision),
	}

	if decision == entity.DecisionRejected {
		status, appErr := s.resolveRejected(ctx, event, &approverID, reasonVetoed)
		if appErr != nil {
			return nil, appErr
		}
		resp.EventStatus = string(status)
		return resp, nil
	}

	s.appendHistory(ctx, eventID, &approverID, historyEntity.ActionApproved, "")

	records, err := s.repo.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check round", err)
	}
	for _, r := range records {
		if r.Decision != entity.DecisionApproved {
			// Round still open.
			resp.EventStatus = string(event.Status)
			s.notify(ctx, event, notifEntity.TransitionApproved)
			return resp, nil
		}
	}

	status, appErr := s.resolveUnanimous(ctx, event, approverID)
	if appErr != nil {
		return nil, appErr
	}
	resp.EventStatus = string(status)
	return resp, nil
}

// resolveUnanimous finalizes a round where every approver approved. The
// conflict guard runs again under the participant locks: a confirmed event may
// have claimed the interval since the proposal was created, in which case the
// round fails and the event is rejected, not confirmed.
func (s *ApprovalService) resolveUnanimous(ctx context.Context, event *eventEntity.Event, lastApprover uuid.UUID) (eventEntity.EventStatus, *errors.AppError) {
	participants, err := s.events.GetParticipants(ctx, event.ID)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to get participants", err)
	}

	interval := availabilityEntity.Interval{Start: event.StartTime, End: event.EndTime}
	conflicts, appErr := s.availability.Commit(ctx, participants, interval, event.ID)
	if appErr != nil {
		return "", appErr
	}
	if len(conflicts) > 0 {
		if _, rejErr := s.resolveRejected(ctx, event, nil, reasonConflictAtConfirmation); rejErr != nil {
			return "", rejErr
		}
		return eventEntity.EventStatusRejected, nil
	}

	if err := s.events.UpdateStatus(ctx, event.ID, eventEntity.EventStatusConfirmed, nil); err != nil {
		// The availability entries exist without a confirmed event; undo
		// them before surfacing the failure.
		if relErr := s.availability.Release(ctx, event.ID); relErr != nil {
			logger.Error("ApprovalService:resolveUnanimous:Release", relErr, "event_id", event.ID.String())
		}
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to confirm event", err)
	}
	event.Status = eventEntity.EventStatusConfirmed

	s.bumpCalendars(ctx, participants)
	s.appendHistory(ctx, event.ID, &lastApprover, historyEntity.ActionConfirmed, "")
	s.notify(ctx, event, notifEntity.TransitionConfirmed)

	return eventEntity.EventStatusConfirmed, nil
}

func (s *ApprovalService) resolveRejected(ctx context.Context, event *eventEntity.Event, actorID *uuid.UUID, reason string) (eventEntity.EventStatus, *errors.AppError) {
	if err := s.events.UpdateStatus(ctx, event.ID, eventEntity.EventStatusRejected, &reason); err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to reject event", err)
	}
	event.Status = eventEntity.EventStatusRejected

	s.appendHistory(ctx, event.ID, actorID, historyEntity.ActionRejected, reason)
	s.notify(ctx, event, notifEntity.TransitionRejected)

	return eventEntity.EventStatusRejected, nil
}

func (s *ApprovalService) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]dto.ApprovalRecordResponse, *errors.AppError) {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	records, err := s.repo.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list approvals", err)
	}

	return dto.ToApprovalRecordResponses(records), nil
}

func (s *ApprovalService) ListPending(ctx context.Context, approverID uuid.UUID, p params.QueryParams) (*dto.PaginatedPendingResponse, *errors.AppError) {
	page, err := s.repo.ListPendingForApprover(ctx, approverID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list pending approvals", err)
	}
	return dto.ToPaginatedPendingResponse(page), nil
}

func (s *ApprovalService) notify(ctx context.Context, event *eventEntity.Event, transition notifEntity.TransitionKind) {
	if s.dispatcher == nil {
		return
	}
	participants, err := s.events.GetParticipants(ctx, event.ID)
	if err != nil {
		logger.Error("ApprovalService:notify", err, "event_id", event.ID.String())
		return
	}
	s.dispatcher.Notify(ctx, event.ID, event.Title, transition, participants)
}

func (s *ApprovalService) bumpCalendars(ctx context.Context, participants []uuid.UUID) {
	if s.cache == nil {
		return
	}
	for _, p := range participants {
		if err := s.cache.BumpCalendarVersion(ctx, p); err != nil {
			logger.Warn("ApprovalService:bumpCalendars", "error", err, "participant_id", p.String())
		}
	}
}

func (s *ApprovalService) appendHistory(ctx context.Context, eventID uuid.UUID, actorID *uuid.UUID, action, details string) {
	if s.history == nil {
		return
	}
	_ = s.history.Append(ctx, &historyEntity.EventHistory{
		EventID: eventID,
		ActorID: actorID,
		Action:  action,
		Details: details,
	})
}
