package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"agreetime-api/core/errors"
	"agreetime-api/core/params"
	"agreetime-api/modules/event/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventRepo serves a fixed set of confirmed events and counts queries so
// cache hits are observable.
type fakeEventRepo struct {
	mu      sync.Mutex
	events  []entity.Event
	byEvent map[uuid.UUID][]uuid.UUID
	queries int
}

func (f *fakeEventRepo) ListConfirmedForParticipant(_ context.Context, participantID uuid.UUID, from, to time.Time) ([]entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	var out []entity.Event
	for _, e := range f.events {
		if e.Status != entity.EventStatusConfirmed {
			continue
		}
		if !e.StartTime.Before(to) || !from.Before(e.EndTime) {
			continue
		}
		for _, p := range f.byEvent[e.ID] {
			if p == participantID {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeEventRepo) CreateEvent(_ context.Context, _ *entity.Event, _ []uuid.UUID) (*entity.Event, error) {
	return nil, nil
}
func (f *fakeEventRepo) GetEventByID(_ context.Context, _ uuid.UUID) (*entity.Event, error) {
	return nil, nil
}
func (f *fakeEventRepo) GetParticipants(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
func (f *fakeEventRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ entity.EventStatus, _ *string) error {
	return nil
}
func (f *fakeEventRepo) MarkSuperseded(_ context.Context, _ uuid.UUID, _ uuid.UUID) error {
	return nil
}
func (f *fakeEventRepo) DeleteEvent(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeEventRepo) ListByUser(_ context.Context, _ uuid.UUID, p params.QueryParams) (*entity.PaginatedEventEntity, error) {
	return &entity.PaginatedEventEntity{PageNumber: p.PageNumber, PageSize: p.PageSize}, nil
}

// fakeCache implements the version counter and range store in memory.
type fakeCache struct {
	mu       sync.Mutex
	versions map[uuid.UUID]int64
	ranges   map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		versions: make(map[uuid.UUID]int64),
		ranges:   make(map[string]string),
	}
}

func (f *fakeCache) IsTokenBlacklisted(_ context.Context, _ string) (bool, error) { return false, nil }
func (f *fakeCache) BlacklistToken(_ context.Context, _ string, _ time.Duration) error {
	return nil
}
func (f *fakeCache) IncrUnread(_ context.Context, _ uuid.UUID, _ int64) error { return nil }
func (f *fakeCache) GetUnread(_ context.Context, _ uuid.UUID) (int64, bool, error) {
	return 0, false, nil
}
func (f *fakeCache) ResetUnread(_ context.Context, _ uuid.UUID) error        { return nil }
func (f *fakeCache) SetUnread(_ context.Context, _ uuid.UUID, _ int64) error { return nil }

func (f *fakeCache) CalendarVersion(_ context.Context, participantID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.versions[participantID], nil
}

func (f *fakeCache) BumpCalendarVersion(_ context.Context, participantID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions[participantID]++
	return nil
}

func (f *fakeCache) GetRange(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.ranges[key]
	return s, ok, nil
}

func (f *fakeCache) SetRange(_ context.Context, key string, payload string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ranges[key] = payload
	return nil
}

func confirmedEvent(start, end time.Time, participants ...uuid.UUID) (entity.Event, []uuid.UUID) {
	return entity.Event{
		ID:        uuid.New(),
		Slug:      "standup-x1y2z3a",
		Title:     "Standup",
		CreatorID: participants[0],
		StartTime: start,
		EndTime:   end,
		Status:    entity.EventStatusConfirmed,
	}, participants
}

func TestGetRange_ReturnsConfirmedInWindow(t *testing.T) {
	alice := uuid.New()
	base := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	inWindow, p1 := confirmedEvent(base.Add(9*time.Hour), base.Add(10*time.Hour), alice)
	outside, p2 := confirmedEvent(base.Add(48*time.Hour), base.Add(49*time.Hour), alice)

	repo := &fakeEventRepo{
		events:  []entity.Event{inWindow, outside},
		byEvent: map[uuid.UUID][]uuid.UUID{inWindow.ID: p1, outside.ID: p2},
	}
	svc := NewCalendarService(repo, newFakeCache())

	resp, appErr := svc.GetRange(context.Background(), alice, base, base.Add(24*time.Hour))
	require.Nil(t, appErr)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, inWindow.ID.String(), resp.Entries[0].EventID)
}

func TestGetRange_InvalidWindow(t *testing.T) {
	svc := NewCalendarService(&fakeEventRepo{}, newFakeCache())
	now := time.Now()

	_, appErr := svc.GetRange(context.Background(), uuid.New(), now, now)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestGetRange_SecondReadHitsCache(t *testing.T) {
	alice := uuid.New()
	base := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	event, parts := confirmedEvent(base.Add(9*time.Hour), base.Add(10*time.Hour), alice)

	repo := &fakeEventRepo{
		events:  []entity.Event{event},
		byEvent: map[uuid.UUID][]uuid.UUID{event.ID: parts},
	}
	svc := NewCalendarService(repo, newFakeCache())

	_, appErr := svc.GetRange(context.Background(), alice, base, base.Add(24*time.Hour))
	require.Nil(t, appErr)
	resp, appErr := svc.GetRange(context.Background(), alice, base, base.Add(24*time.Hour))
	require.Nil(t, appErr)

	assert.Equal(t, 1, repo.queries)
	require.Len(t, resp.Entries, 1)
}

func TestGetRange_VersionBumpInvalidatesCache(t *testing.T) {
	alice := uuid.New()
	base := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	event, parts := confirmedEvent(base.Add(9*time.Hour), base.Add(10*time.Hour), alice)

	repo := &fakeEventRepo{
		events:  []entity.Event{event},
		byEvent: map[uuid.UUID][]uuid.UUID{event.ID: parts},
	}
	cache := newFakeCache()
	svc := NewCalendarService(repo, cache)

	_, appErr := svc.GetRange(context.Background(), alice, base, base.Add(24*time.Hour))
	require.Nil(t, appErr)

	require.NoError(t, cache.BumpCalendarVersion(context.Background(), alice))

	_, appErr = svc.GetRange(context.Background(), alice, base, base.Add(24*time.Hour))
	require.Nil(t, appErr)

	// The bump orphaned the old key, forcing a fresh database read.
	assert.Equal(t, 2, repo.queries)
}
