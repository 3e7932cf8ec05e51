package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"agreetime-api/core/errors"
	"agreetime-api/modules/availability/entity"
	"agreetime-api/modules/availability/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAvailabilityRepo keeps entries in memory with the same half-open
// overlap semantics the SQL uses.
type fakeAvailabilityRepo struct {
	mu      sync.Mutex
	entries []entity.AvailabilityEntry

	commitErr error
	rebuilt   int
}

func (f *fakeAvailabilityRepo) SelectOverlapping(_ context.Context, participantID uuid.UUID, interval entity.Interval, excludingEventID uuid.UUID) ([]entity.AvailabilityEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entity.AvailabilityEntry
	for _, e := range f.entries {
		if e.ParticipantID != participantID || e.EventID == excludingEventID {
			continue
		}
		existing := entity.Interval{Start: e.StartTime, End: e.EndTime}
		if existing.Overlaps(interval) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityRepo) CommitEntries(_ context.Context, participantIDs []uuid.UUID, interval entity.Interval, eventID uuid.UUID) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range participantIDs {
		f.entries = append(f.entries, entity.AvailabilityEntry{
			ID:            uuid.New(),
			ParticipantID: p,
			EventID:       eventID,
			StartTime:     interval.Start,
			EndTime:       interval.End,
		})
	}
	return nil
}

func (f *fakeAvailabilityRepo) ReleaseByEventID(_ context.Context, eventID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []entity.AvailabilityEntry
	var released int64
	for _, e := range f.entries {
		if e.EventID == eventID {
			released++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return released, nil
}

func (f *fakeAvailabilityRepo) SelectByParticipant(_ context.Context, participantID uuid.UUID, interval entity.Interval) ([]entity.AvailabilityEntry, error) {
	return f.SelectOverlapping(context.Background(), participantID, interval, uuid.Nil)
}

func (f *fakeAvailabilityRepo) RebuildFromConfirmedEvents(_ context.Context) error {
	f.rebuilt++
	return nil
}

func hourRange(startHour, endHour int) entity.Interval {
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return entity.Interval{
		Start: base.Add(time.Duration(startHour) * time.Hour),
		End:   base.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestCommit_ThenCheckConflictSeesIt(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	svc := NewAvailabilityService(repo)
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	eventID := uuid.New()

	conflicts, appErr := svc.Commit(ctx, []uuid.UUID{alice, bob}, hourRange(9, 10), eventID)
	require.Nil(t, appErr)
	assert.Empty(t, conflicts)

	found, appErr := svc.CheckConflict(ctx, []uuid.UUID{alice}, hourRange(9, 11), uuid.Nil)
	require.Nil(t, appErr)
	require.Len(t, found, 1)
	assert.Equal(t, eventID, found[0].EventID)
	assert.Equal(t, alice, found[0].ParticipantID)
}

func TestCommit_ReturnsConflictsWithoutInserting(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	svc := NewAvailabilityService(repo)
	ctx := context.Background()

	alice := uuid.New()
	first := uuid.New()

	_, appErr := svc.Commit(ctx, []uuid.UUID{alice}, hourRange(9, 10), first)
	require.Nil(t, appErr)

	conflicts, appErr := svc.Commit(ctx, []uuid.UUID{alice}, hourRange(9, 10), uuid.New())
	require.Nil(t, appErr)
	require.Len(t, conflicts, 1)
	assert.Equal(t, first, conflicts[0].EventID)

	// Only the first event's entry exists.
	assert.Len(t, repo.entries, 1)
}

func TestCommit_AdjacentIntervalsDoNotConflict(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	svc := NewAvailabilityService(repo)
	ctx := context.Background()

	alice := uuid.New()

	_, appErr := svc.Commit(ctx, []uuid.UUID{alice}, hourRange(9, 10), uuid.New())
	require.Nil(t, appErr)

	conflicts, appErr := svc.Commit(ctx, []uuid.UUID{alice}, hourRange(10, 11), uuid.New())
	require.Nil(t, appErr)
	assert.Empty(t, conflicts)
	assert.Len(t, repo.entries, 2)
}

func TestCommit_InvalidInterval(t *testing.T) {
	svc := NewAvailabilityService(&fakeAvailabilityRepo{})

	_, appErr := svc.Commit(context.Background(), []uuid.UUID{uuid.New()}, hourRange(10, 9), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidEventSpec, appErr.Code)
}

func TestCommit_ExclusionViolationIsFatal(t *testing.T) {
	repo := &fakeAvailabilityRepo{commitErr: repository.ErrOverlap}
	svc := NewAvailabilityService(repo)

	_, appErr := svc.Commit(context.Background(), []uuid.UUID{uuid.New()}, hourRange(9, 10), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrOverlapDetected, appErr.Code)
}

func TestRelease_RemovesOnlyOwnEntries(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	svc := NewAvailabilityService(repo)
	ctx := context.Background()

	alice := uuid.New()
	keep, release := uuid.New(), uuid.New()

	_, appErr := svc.Commit(ctx, []uuid.UUID{alice}, hourRange(9, 10), keep)
	require.Nil(t, appErr)
	_, appErr = svc.Commit(ctx, []uuid.UUID{alice}, hourRange(11, 12), release)
	require.Nil(t, appErr)

	require.Nil(t, svc.Release(ctx, release))

	require.Len(t, repo.entries, 1)
	assert.Equal(t, keep, repo.entries[0].EventID)
}

func TestQueryOverlaps_InvalidInterval(t *testing.T) {
	svc := NewAvailabilityService(&fakeAvailabilityRepo{})

	_, appErr := svc.QueryOverlaps(context.Background(), uuid.New(), hourRange(12, 12))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestReconcile_DelegatesToRebuild(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	svc := NewAvailabilityService(repo)

	require.NoError(t, svc.Reconcile(context.Background()))
	assert.Equal(t, 1, repo.rebuilt)
}

func TestCommit_ConcurrentSameParticipantOnlyOneWins(t *testing.T) {
	repo := &fakeAvailabilityRepo{}
	svc := NewAvailabilityService(repo)
	ctx := context.Background()

	alice := uuid.New()

	var wg sync.WaitGroup
	wins := make(chan uuid.UUID, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eventID := uuid.New()
			conflicts, appErr := svc.Commit(ctx, []uuid.UUID{alice}, hourRange(9, 10), eventID)
			if appErr == nil && len(conflicts) == 0 {
				wins <- eventID
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners []uuid.UUID
	for w := range wins {
		winners = append(winners, w)
	}
	require.Len(t, winners, 1)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, winners[0], repo.entries[0].EventID)
}
