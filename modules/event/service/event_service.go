package service

import (
	"context"
	"time"

	"agreetime-api/core/cache"
	"agreetime-api/core/errors"
	"agreetime-api/core/lock"
	"agreetime-api/core/logger"
	"agreetime-api/core/params"
	"agreetime-api/core/utils"
	approvalRepo "agreetime-api/modules/approval/repository"
	availabilityEntity "agreetime-api/modules/availability/entity"
	availabilityService "agreetime-api/modules/availability/service"
	"agreetime-api/modules/event/dto"
	"agreetime-api/modules/event/entity"
	"agreetime-api/modules/event/repository"
	historyEntity "agreetime-api/modules/history/entity"
	historyRepo "agreetime-api/modules/history/repository"
	notifEntity "agreetime-api/modules/notification/entity"
	notifService "agreetime-api/modules/notification/service"

	"github.com/google/uuid"
)

// EventService is the event store plus the proposal-time half of the engine:
// validation, the conflict-guard pre-check, auto-confirmation, cancellation
// and supersede. Decision handling lives in the approval module.
type EventService struct {
	repo         repository.EventRepositoryInterface
	approvals    approvalRepo.ApprovalRepositoryInterface
	availability availabilityService.AvailabilityServiceInterface
	history      historyRepo.HistoryRepositoryInterface
	dispatcher   notifService.Dispatcher
	cache        cache.ICache
}

// EventServiceInterface defines the service contract
type EventServiceInterface interface {
	Create(ctx context.Context, creatorID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError)
	ListMine(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError)
	Cancel(ctx context.Context, eventID uuid.UUID, byWhom uuid.UUID) *errors.AppError
	Supersede(ctx context.Context, eventID uuid.UUID, byWhom uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
}

func NewEventService(
	repo repository.EventRepositoryInterface,
	approvals approvalRepo.ApprovalRepositoryInterface,
	availability availabilityService.AvailabilityServiceInterface,
	history historyRepo.HistoryRepositoryInterface,
	dispatcher notifService.Dispatcher,
	c cache.ICache,
) EventServiceInterface {
	return &EventService{
		repo:         repo,
		approvals:    approvals,
		availability: availability,
		history:      history,
		dispatcher:   dispatcher,
		cache:        c,
	}
}

// validatedSpec is a parsed-and-checked CreateEventRequest.
type validatedSpec struct {
	title        string
	description  *string
	location     *string
	interval     availabilityEntity.Interval
	participants []uuid.UUID
	approvers    []uuid.UUID
}

func (s *EventService) validateSpec(creatorID uuid.UUID, req *dto.CreateEventRequest) (*validatedSpec, *errors.AppError) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidEventSpec, "Title is required", nil)
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidEventSpec, "Invalid start_time", err)
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidEventSpec, "Invalid end_time", err)
	}

	interval := availabilityEntity.Interval{Start: start, End: end}
	if !interval.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidEventSpec, "start_time must precede end_time", nil)
	}

	// The creator always participates; the set is deduplicated.
	participantSet := map[uuid.UUID]struct{}{creatorID: {}}
	participants := []uuid.UUID{creatorID}
	for _, idStr := range req.Participants {
		id, parseErr := uuid.Parse(idStr)
		if parseErr != nil {
			return nil, errors.NewAppError(errors.ErrInvalidEventSpec, "Invalid participant id: "+idStr, parseErr)
		}
		if _, dup := participantSet[id]; dup {
			continue
		}
		participantSet[id] = struct{}{}
		participants = append(participants, id)
	}

	approverSet := map[uuid.UUID]struct{}{}
	var approvers []uuid.UUID
	for _, idStr := range req.Approvers {
		id, parseErr := uuid.Parse(idStr)
		if parseErr != nil {
			return nil, errors.NewAppError(errors.ErrInvalidEventSpec, "Invalid approver id: "+idStr, parseErr)
		}
		if _, isParticipant := participantSet[id]; !isParticipant {
			return nil, errors.NewAppError(errors.ErrInvalidEventSpec, "Approvers must be participants", nil)
		}
		if _, dup := approverSet[id]; dup {
			continue
		}
		approverSet[id] = struct{}{}
		approvers = append(approvers, id)
	}

	spec := &validatedSpec{
		title:        req.Title,
		interval:     interval,
		participants: participants,
		approvers:    approvers,
	}
	if req.Description != "" {
		spec.description = &req.Description
	}
	if req.Location != "" {
		spec.location = &req.Location
	}

	return spec, nil
}

// Create proposes a new event. With approvers it opens an approval round;
// without approvers it confirms immediately, committing availability in the
// same flow.
func (s *EventService) Create(ctx context.Context, creatorID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	spec, appErr := s.validateSpec(creatorID, req)
	if appErr != nil {
		return nil, appErr
	}

	// Proposal-time conflict guard: block commitments that would overlap
	// an existing confirmed event for any shared participant.
	conflicts, appErr := s.availability.CheckConflict(ctx, spec.participants, spec.interval, uuid.Nil)
	if appErr != nil {
		return nil, appErr
	}
	if len(conflicts) > 0 {
		return nil, errors.NewAppError(errors.ErrConflictDetected, "Interval overlaps an existing confirmed event", nil).
			WithDetails(dto.ToConflictDTOs(conflicts))
	}

	status := entity.EventStatusProposed
	if len(spec.approvers) > 0 {
		status = entity.EventStatusAwaitingApproval
	}

	event := &entity.Event{
		Slug:        utils.Slugify(spec.title),
		CreatorID:   creatorID,
		Title:       spec.title,
		Description: spec.description,
		Location:    spec.location,
		StartTime:   spec.interval.Start,
		EndTime:     spec.interval.End,
		Status:      status,
	}

	created, err := s.repo.CreateEvent(ctx, event, spec.participants)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create event", err)
	}

	s.appendHistory(ctx, created.ID, &creatorID, historyEntity.ActionProposed, "")

	if len(spec.approvers) > 0 {
		if err := s.approvals.CreateRecords(ctx, created.ID, spec.approvers); err != nil {
			// Roll the proposal back; a round without records would
			// never resolve.
			_ = s.repo.DeleteEvent(ctx, created.ID)
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to open approval round", err)
		}

		s.dispatcher.Notify(ctx, created.ID, created.Title, notifEntity.TransitionCreated, spec.participants)
		records, _ := s.approvals.GetByEvent(ctx, created.ID)
		return dto.ToEventResponse(created, spec.participants, records), nil
	}

	// No approvers: confirm immediately. The confirm step runs inside the
	// per-event critical section; a cancellation accepted between
	// insertion and here stands. The commit re-checks under the
	// participant locks, closing the race window since the pre-check.
	lock.Events.Lock(created.ID)
	defer lock.Events.Unlock(created.ID)

	current, err := s.repo.GetEventByID(ctx, created.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to confirm event", err)
	}
	if current == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if current.Status != entity.EventStatusProposed {
		return dto.ToEventResponse(current, spec.participants, nil), nil
	}

	commitConflicts, appErr := s.availability.Commit(ctx, spec.participants, spec.interval, created.ID)
	if appErr != nil {
		_ = s.repo.DeleteEvent(ctx, created.ID)
		return nil, appErr
	}
	if len(commitConflicts) > 0 {
		_ = s.repo.DeleteEvent(ctx, created.ID)
		return nil, errors.NewAppError(errors.ErrConflictDetected, "Interval overlaps an existing confirmed event", nil).
			WithDetails(dto.ToConflictDTOs(commitConflicts))
	}

	if err := s.repo.UpdateStatus(ctx, created.ID, entity.EventStatusConfirmed, nil); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to confirm event", err)
	}
	created.Status = entity.EventStatusConfirmed

	s.bumpCalendars(ctx, spec.participants)
	s.appendHistory(ctx, created.ID, &creatorID, historyEntity.ActionAutoConfirmed, "")
	s.dispatcher.Notify(ctx, created.ID, created.Title, notifEntity.TransitionCreated, spec.participants)
	s.dispatcher.Notify(ctx, created.ID, created.Title, notifEntity.TransitionConfirmed, spec.participants)

	return dto.ToEventResponse(created, spec.participants, nil), nil
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	participants, _ := s.repo.GetParticipants(ctx, id)
	records, _ := s.approvals.GetByEvent(ctx, id)
	return dto.ToEventResponse(event, participants, records), nil
}

func (s *EventService) ListMine(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError) {
	page, err := s.repo.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}

	items := make([]dto.EventResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *dto.ToEventResponse(&page.Items[i], nil, nil))
	}

	return &dto.PaginatedEventResponse{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}, nil
}

// Cancel transitions the event to cancelled, releasing availability if it was
// confirmed. While pending any participant may withdraw the proposal; once
// confirmed only the creator may cancel.
func (s *EventService) Cancel(ctx context.Context, eventID uuid.UUID, byWhom uuid.UUID) *errors.AppError {
	lock.Events.Lock(eventID)
	defer lock.Events.Unlock(eventID)

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	participants, err := s.repo.GetParticipants(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get participants", err)
	}

	isParticipant := false
	for _, p := range participants {
		if p == byWhom {
			isParticipant = true
			break
		}
	}

	wasConfirmed := false
	switch {
	case event.Status.Pending():
		if byWhom != event.CreatorID && !isParticipant {
			return errors.NewAppError(errors.ErrForbidden, "Only participants may cancel a pending event", nil)
		}
	case event.Status == entity.EventStatusConfirmed:
		if byWhom != event.CreatorID {
			return errors.NewAppError(errors.ErrForbidden, "Only the creator may cancel a confirmed event", nil)
		}
		wasConfirmed = true
	default:
		return errors.NewAppError(errors.ErrEventNotPending, "Event is already resolved", nil)
	}

	if err := s.repo.UpdateStatus(ctx, eventID, entity.EventStatusCancelled, nil); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to cancel event", err)
	}

	if wasConfirmed {
		if appErr := s.availability.Release(ctx, eventID); appErr != nil {
			// The reconciler repairs the index; the cancellation stands.
			logger.Error("EventService:Cancel:Release", appErr, "event_id", eventID.String())
		}
		s.bumpCalendars(ctx, participants)
	}

	s.appendHistory(ctx, eventID, &byWhom, historyEntity.ActionCancelled, "")
	s.dispatcher.Notify(ctx, eventID, event.Title, notifEntity.TransitionCancelled, participants)

	return nil
}

// Supersede replaces a pending event with an edited proposal. The original is
// archived, never mutated under an active approval round; the replacement
// starts a fresh round.
func (s *EventService) Supersede(ctx context.Context, eventID uuid.UUID, byWhom uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	lock.Events.Lock(eventID)
	defer lock.Events.Unlock(eventID)

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if event.CreatorID != byWhom {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the creator may edit a proposal", nil)
	}
	if !event.Status.Pending() {
		return nil, errors.NewAppError(errors.ErrEventNotPending, "Only a pending event can be edited", nil)
	}

	replacement, appErr := s.Create(ctx, byWhom, req)
	if appErr != nil {
		return nil, appErr
	}

	newID, parseErr := uuid.Parse(replacement.ID)
	if parseErr != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to link replacement", parseErr)
	}
	if err := s.repo.MarkSuperseded(ctx, eventID, newID); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to supersede event", err)
	}

	s.appendHistory(ctx, eventID, &byWhom, historyEntity.ActionSuperseded, "replaced by "+replacement.ID)

	return replacement, nil
}

func (s *EventService) appendHistory(ctx context.Context, eventID uuid.UUID, actorID *uuid.UUID, action, details string) {
	if s.history == nil {
		return
	}
	// Audit failures never block a transition.
	_ = s.history.Append(ctx, &historyEntity.EventHistory{
		EventID: eventID,
		ActorID: actorID,
		Action:  action,
		Details: details,
	})
}

func (s *EventService) bumpCalendars(ctx context.Context, participants []uuid.UUID) {
	if s.cache == nil {
		return
	}
	for _, p := range participants {
		if err := s.cache.BumpCalendarVersion(ctx, p); err != nil {
			logger.Warn("EventService:bumpCalendars", "error", err, "participant_id", p.String())
		}
	}
}
