package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"agreetime-api/core/errors"
	"agreetime-api/core/params"
	approvalEntity "agreetime-api/modules/approval/entity"
	availabilityEntity "agreetime-api/modules/availability/entity"
	"agreetime-api/modules/event/dto"
	"agreetime-api/modules/event/entity"
	notifEntity "agreetime-api/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================== In-memory fakes =====================

type fakeEventRepo struct {
	mu           sync.Mutex
	events       map[uuid.UUID]*entity.Event
	participants map[uuid.UUID][]uuid.UUID

	// afterCreate runs once the row is stored, before CreateEvent returns.
	afterCreate func(uuid.UUID)
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:       make(map[uuid.UUID]*entity.Event),
		participants: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeEventRepo) CreateEvent(_ context.Context, event *entity.Event, participantIDs []uuid.UUID) (*entity.Event, error) {
	f.mu.Lock()
	e := *event
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	f.events[e.ID] = &e
	f.participants[e.ID] = append([]uuid.UUID(nil), participantIDs...)
	out := e
	f.mu.Unlock()
	if f.afterCreate != nil {
		f.afterCreate(out.ID)
	}
	return &out, nil
}

func (f *fakeEventRepo) GetEventByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	out := *e
	return &out, nil
}

func (f *fakeEventRepo) GetParticipants(_ context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.participants[eventID]...), nil
}

func (f *fakeEventRepo) UpdateStatus(_ context.Context, eventID uuid.UUID, status entity.EventStatus, rejectionReason *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.events[eventID]; ok {
		e.Status = status
		e.RejectionReason = rejectionReason
	}
	return nil
}

func (f *fakeEventRepo) MarkSuperseded(_ context.Context, oldEventID uuid.UUID, newEventID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.events[oldEventID]; ok {
		e.Status = entity.EventStatusSuperseded
		e.SupersededBy = &newEventID
	}
	return nil
}

func (f *fakeEventRepo) DeleteEvent(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, id)
	delete(f.participants, id)
	return nil
}

func (f *fakeEventRepo) ListByUser(_ context.Context, userID uuid.UUID, p params.QueryParams) (*entity.PaginatedEventEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []entity.Event
	for id, e := range f.events {
		if e.CreatorID == userID {
			items = append(items, *e)
			continue
		}
		for _, pid := range f.participants[id] {
			if pid == userID {
				items = append(items, *e)
				break
			}
		}
	}
	return &entity.PaginatedEventEntity{
		Items:      items,
		TotalItems: len(items),
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

func (f *fakeEventRepo) ListConfirmedForParticipant(_ context.Context, participantID uuid.UUID, from, to time.Time) ([]entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Event
	for id, e := range f.events {
		if e.Status != entity.EventStatusConfirmed {
			continue
		}
		if !e.StartTime.Before(to) || !from.Before(e.EndTime) {
			continue
		}
		for _, pid := range f.participants[id] {
			if pid == participantID {
				out = append(out, *e)
				break
			}
		}
	}
	return out, nil
}

type fakeApprovalRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID][]approvalEntity.ApprovalRecord
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{records: make(map[uuid.UUID][]approvalEntity.ApprovalRecord)}
}

func (f *fakeApprovalRepo) CreateRecords(_ context.Context, eventID uuid.UUID, approverIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, approverID := range approverIDs {
		f.records[eventID] = append(f.records[eventID], approvalEntity.ApprovalRecord{
			ID:         uuid.New(),
			EventID:    eventID,
			ApproverID: approverID,
			Decision:   approvalEntity.DecisionPending,
			CreatedAt:  time.Now(),
		})
	}
	return nil
}

func (f *fakeApprovalRepo) GetByEvent(_ context.Context, eventID uuid.UUID) ([]approvalEntity.ApprovalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]approvalEntity.ApprovalRecord(nil), f.records[eventID]...), nil
}

func (f *fakeApprovalRepo) GetRecord(_ context.Context, eventID uuid.UUID, approverID uuid.UUID) (*approvalEntity.ApprovalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records[eventID] {
		if f.records[eventID][i].ApproverID == approverID {
			out := f.records[eventID][i]
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeApprovalRepo) Decide(_ context.Context, eventID uuid.UUID, approverID uuid.UUID, decision approvalEntity.Decision, reason *string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records[eventID] {
		r := &f.records[eventID][i]
		if r.ApproverID == approverID && r.Decision == approvalEntity.DecisionPending {
			now := time.Now()
			r.Decision = decision
			r.Reason = reason
			r.DecidedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApprovalRepo) ListPendingForApprover(_ context.Context, approverID uuid.UUID, p params.QueryParams) (*approvalEntity.PaginatedPendingApprovals, error) {
	return &approvalEntity.PaginatedPendingApprovals{PageNumber: p.PageNumber, PageSize: p.PageSize}, nil
}

// fakeAvailability implements the conflict guard over an in-memory entry set.
type fakeAvailability struct {
	mu      sync.Mutex
	entries []availabilityEntity.AvailabilityEntry
}

func (f *fakeAvailability) CheckConflict(_ context.Context, participantIDs []uuid.UUID, interval availabilityEntity.Interval, excludingEventID uuid.UUID) ([]availabilityEntity.Conflict, *errors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var conflicts []availabilityEntity.Conflict
	for _, p := range participantIDs {
		for _, e := range f.entries {
			if e.ParticipantID != p || e.EventID == excludingEventID {
				continue
			}
			existing := availabilityEntity.Interval{Start: e.StartTime, End: e.EndTime}
			if existing.Overlaps(interval) {
				conflicts = append(conflicts, availabilityEntity.Conflict{
					ParticipantID: e.ParticipantID,
					EventID:       e.EventID,
					StartTime:     e.StartTime,
					EndTime:       e.EndTime,
				})
			}
		}
	}
	return conflicts, nil
}

func (f *fakeAvailability) Commit(ctx context.Context, participantIDs []uuid.UUID, interval availabilityEntity.Interval, eventID uuid.UUID) ([]availabilityEntity.Conflict, *errors.AppError) {
	conflicts, appErr := f.CheckConflict(ctx, participantIDs, interval, eventID)
	if appErr != nil || len(conflicts) > 0 {
		return conflicts, appErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range participantIDs {
		f.entries = append(f.entries, availabilityEntity.AvailabilityEntry{
			ID:            uuid.New(),
			ParticipantID: p,
			EventID:       eventID,
			StartTime:     interval.Start,
			EndTime:       interval.End,
		})
	}
	return nil, nil
}

func (f *fakeAvailability) Release(_ context.Context, eventID uuid.UUID) *errors.AppError {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []availabilityEntity.AvailabilityEntry
	for _, e := range f.entries {
		if e.EventID != eventID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

func (f *fakeAvailability) QueryOverlaps(_ context.Context, _ uuid.UUID, _ availabilityEntity.Interval) ([]availabilityEntity.AvailabilityEntry, *errors.AppError) {
	return nil, nil
}

func (f *fakeAvailability) Reconcile(_ context.Context) error { return nil }

// fakeDispatcher records transitions instead of enqueueing tasks.
type fakeDispatcher struct {
	mu          sync.Mutex
	transitions []notifEntity.TransitionKind
}

func (f *fakeDispatcher) Notify(_ context.Context, _ uuid.UUID, _ string, transition notifEntity.TransitionKind, _ []uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions = append(f.transitions, transition)
}

func (f *fakeDispatcher) last() notifEntity.TransitionKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.transitions) == 0 {
		return ""
	}
	return f.transitions[len(f.transitions)-1]
}

// ===================== Helpers =====================

type fixture struct {
	svc        EventServiceInterface
	events     *fakeEventRepo
	approvals  *fakeApprovalRepo
	index      *fakeAvailability
	dispatcher *fakeDispatcher
}

func newFixture() *fixture {
	f := &fixture{
		events:     newFakeEventRepo(),
		approvals:  newFakeApprovalRepo(),
		index:      &fakeAvailability{},
		dispatcher: &fakeDispatcher{},
	}
	f.svc = NewEventService(f.events, f.approvals, f.index, nil, f.dispatcher, nil)
	return f
}

func requestAt(startHour, endHour int, participants, approvers []uuid.UUID) *dto.CreateEventRequest {
	base := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	req := &dto.CreateEventRequest{
		Title:     "Team sync",
		StartTime: base.Add(time.Duration(startHour) * time.Hour).Format(time.RFC3339),
		EndTime:   base.Add(time.Duration(endHour) * time.Hour).Format(time.RFC3339),
	}
	for _, p := range participants {
		req.Participants = append(req.Participants, p.String())
	}
	for _, a := range approvers {
		req.Approvers = append(req.Approvers, a.String())
	}
	return req
}

// ===================== Tests =====================

func TestCreate_RejectsMissingTitle(t *testing.T) {
	f := newFixture()
	req := requestAt(9, 10, nil, nil)
	req.Title = ""

	_, appErr := f.svc.Create(context.Background(), uuid.New(), req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidEventSpec, appErr.Code)
}

func TestCreate_RejectsInvertedInterval(t *testing.T) {
	f := newFixture()

	_, appErr := f.svc.Create(context.Background(), uuid.New(), requestAt(10, 9, nil, nil))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidEventSpec, appErr.Code)
}

func TestCreate_RejectsApproverOutsideParticipants(t *testing.T) {
	f := newFixture()
	outsider := uuid.New()

	_, appErr := f.svc.Create(context.Background(), uuid.New(), requestAt(9, 10, nil, []uuid.UUID{outsider}))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidEventSpec, appErr.Code)
}

func TestCreate_NoApproversConfirmsImmediately(t *testing.T) {
	f := newFixture()
	creator, bob := uuid.New(), uuid.New()

	resp, appErr := f.svc.Create(context.Background(), creator, requestAt(9, 10, []uuid.UUID{bob}, nil))
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.EventStatusConfirmed), resp.Status)

	// Both participants hold a commitment.
	assert.Len(t, f.index.entries, 2)
	assert.Equal(t, notifEntity.TransitionConfirmed, f.dispatcher.last())
}

func TestCreate_AutoConfirmDispatchesCreatedThenConfirmed(t *testing.T) {
	f := newFixture()

	_, appErr := f.svc.Create(context.Background(), uuid.New(), requestAt(9, 10, nil, nil))
	require.Nil(t, appErr)

	assert.Equal(t, []notifEntity.TransitionKind{
		notifEntity.TransitionCreated,
		notifEntity.TransitionConfirmed,
	}, f.dispatcher.transitions)
}

func TestCreate_CancelDuringAutoConfirmStands(t *testing.T) {
	f := newFixture()
	creator := uuid.New()

	// Cancel lands after the row is inserted but before the confirm step
	// enters the per-event critical section.
	f.events.afterCreate = func(id uuid.UUID) {
		require.Nil(t, f.svc.Cancel(context.Background(), id, creator))
	}

	resp, appErr := f.svc.Create(context.Background(), creator, requestAt(9, 10, nil, nil))
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.EventStatusCancelled), resp.Status)

	stored, _ := f.events.GetEventByID(context.Background(), uuid.MustParse(resp.ID))
	assert.Equal(t, entity.EventStatusCancelled, stored.Status)

	// No availability was committed for the cancelled event.
	assert.Empty(t, f.index.entries)
}

func TestCreate_WithApproversOpensRound(t *testing.T) {
	f := newFixture()
	creator, approver := uuid.New(), uuid.New()

	resp, appErr := f.svc.Create(context.Background(), creator,
		requestAt(9, 10, []uuid.UUID{approver}, []uuid.UUID{approver}))
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.EventStatusAwaitingApproval), resp.Status)
	require.Len(t, resp.Approvals, 1)
	assert.Equal(t, string(approvalEntity.DecisionPending), resp.Approvals[0].Decision)

	// Nothing is committed until the round resolves.
	assert.Empty(t, f.index.entries)
	assert.Equal(t, notifEntity.TransitionCreated, f.dispatcher.last())
}

func TestCreate_ConflictAgainstConfirmedEvent(t *testing.T) {
	f := newFixture()
	creator, bob := uuid.New(), uuid.New()

	_, appErr := f.svc.Create(context.Background(), creator, requestAt(9, 10, []uuid.UUID{bob}, nil))
	require.Nil(t, appErr)

	// Overlapping interval for a shared participant is blocked at proposal.
	_, appErr = f.svc.Create(context.Background(), uuid.New(), requestAt(9, 11, []uuid.UUID{bob}, nil))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflictDetected, appErr.Code)
	assert.NotNil(t, appErr.Details)
}

func TestCreate_AdjacentEventsBothConfirm(t *testing.T) {
	f := newFixture()
	creator := uuid.New()

	_, appErr := f.svc.Create(context.Background(), creator, requestAt(9, 10, nil, nil))
	require.Nil(t, appErr)

	resp, appErr := f.svc.Create(context.Background(), creator, requestAt(10, 11, nil, nil))
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.EventStatusConfirmed), resp.Status)
}

func TestCancel_ConfirmedReleasesAvailability(t *testing.T) {
	f := newFixture()
	creator := uuid.New()

	resp, appErr := f.svc.Create(context.Background(), creator, requestAt(9, 10, nil, nil))
	require.Nil(t, appErr)
	eventID := uuid.MustParse(resp.ID)
	require.Len(t, f.index.entries, 1)

	require.Nil(t, f.svc.Cancel(context.Background(), eventID, creator))

	stored, _ := f.events.GetEventByID(context.Background(), eventID)
	assert.Equal(t, entity.EventStatusCancelled, stored.Status)
	assert.Empty(t, f.index.entries)
	assert.Equal(t, notifEntity.TransitionCancelled, f.dispatcher.last())

	// The slot is reusable afterwards.
	_, appErr = f.svc.Create(context.Background(), creator, requestAt(9, 10, nil, nil))
	assert.Nil(t, appErr)
}

func TestCancel_ConfirmedByNonCreatorForbidden(t *testing.T) {
	f := newFixture()
	creator, bob := uuid.New(), uuid.New()

	resp, appErr := f.svc.Create(context.Background(), creator, requestAt(9, 10, []uuid.UUID{bob}, nil))
	require.Nil(t, appErr)

	appErr = f.svc.Cancel(context.Background(), uuid.MustParse(resp.ID), bob)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestCancel_PendingByParticipantAllowed(t *testing.T) {
	f := newFixture()
	creator, approver := uuid.New(), uuid.New()

	resp, appErr := f.svc.Create(context.Background(), creator,
		requestAt(9, 10, []uuid.UUID{approver}, []uuid.UUID{approver}))
	require.Nil(t, appErr)

	require.Nil(t, f.svc.Cancel(context.Background(), uuid.MustParse(resp.ID), approver))
}

func TestCancel_ResolvedEventRejected(t *testing.T) {
	f := newFixture()
	creator := uuid.New()

	resp, appErr := f.svc.Create(context.Background(), creator, requestAt(9, 10, nil, nil))
	require.Nil(t, appErr)
	eventID := uuid.MustParse(resp.ID)

	require.Nil(t, f.svc.Cancel(context.Background(), eventID, creator))

	appErr = f.svc.Cancel(context.Background(), eventID, creator)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrEventNotPending, appErr.Code)
}

func TestSupersede_ReplacesPendingEvent(t *testing.T) {
	f := newFixture()
	creator, approver := uuid.New(), uuid.New()

	resp, appErr := f.svc.Create(context.Background(), creator,
		requestAt(9, 10, []uuid.UUID{approver}, []uuid.UUID{approver}))
	require.Nil(t, appErr)
	oldID := uuid.MustParse(resp.ID)

	replacement, appErr := f.svc.Supersede(context.Background(), oldID, creator,
		requestAt(14, 15, []uuid.UUID{approver}, []uuid.UUID{approver}))
	require.Nil(t, appErr)
	assert.NotEqual(t, resp.ID, replacement.ID)
	assert.Equal(t, string(entity.EventStatusAwaitingApproval), replacement.Status)

	old, _ := f.events.GetEventByID(context.Background(), oldID)
	assert.Equal(t, entity.EventStatusSuperseded, old.Status)
	require.NotNil(t, old.SupersededBy)
	assert.Equal(t, replacement.ID, old.SupersededBy.String())

	// The replacement starts a fresh round.
	records, _ := f.approvals.GetByEvent(context.Background(), uuid.MustParse(replacement.ID))
	require.Len(t, records, 1)
	assert.Equal(t, approvalEntity.DecisionPending, records[0].Decision)
}

func TestSupersede_OnlyCreator(t *testing.T) {
	f := newFixture()
	creator, approver := uuid.New(), uuid.New()

	resp, appErr := f.svc.Create(context.Background(), creator,
		requestAt(9, 10, []uuid.UUID{approver}, []uuid.UUID{approver}))
	require.Nil(t, appErr)

	_, appErr = f.svc.Supersede(context.Background(), uuid.MustParse(resp.ID), approver,
		requestAt(14, 15, nil, nil))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestSupersede_ConfirmedEventRejected(t *testing.T) {
	f := newFixture()
	creator := uuid.New()

	resp, appErr := f.svc.Create(context.Background(), creator, requestAt(9, 10, nil, nil))
	require.Nil(t, appErr)

	_, appErr = f.svc.Supersede(context.Background(), uuid.MustParse(resp.ID), creator,
		requestAt(14, 15, nil, nil))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrEventNotPending, appErr.Code)
}

func TestListMine_IncludesParticipantEvents(t *testing.T) {
	f := newFixture()
	creator, bob := uuid.New(), uuid.New()

	_, appErr := f.svc.Create(context.Background(), creator, requestAt(9, 10, []uuid.UUID{bob}, nil))
	require.Nil(t, appErr)

	page, appErr := f.svc.ListMine(context.Background(), bob, params.QueryParams{PageNumber: 1, PageSize: 10})
	require.Nil(t, appErr)
	assert.Equal(t, 1, page.TotalItems)
}
