package service

import (
	"context"
	goerrors "errors"
	"sync"

	"agreetime-api/core/errors"
	"agreetime-api/core/lock"
	"agreetime-api/core/logger"
	"agreetime-api/modules/availability/entity"
	"agreetime-api/modules/availability/repository"

	"github.com/google/uuid"
)

// AvailabilityService is the availability index plus the conflict guard. All
// commits for a participant are serialized through lock.Participants so the
// overlap re-check and the insert are atomic relative to other commits.
type AvailabilityService struct {
	repo repository.AvailabilityRepositoryInterface
}

// indexMu excludes the reconciler's rebuild from in-flight commits. Commits
// hold the read side; the rebuild holds the write side.
var indexMu sync.RWMutex

// AvailabilityServiceInterface defines the service contract
type AvailabilityServiceInterface interface {
	CheckConflict(ctx context.Context, participantIDs []uuid.UUID, interval entity.Interval, excludingEventID uuid.UUID) ([]entity.Conflict, *errors.AppError)
	Commit(ctx context.Context, participantIDs []uuid.UUID, interval entity.Interval, eventID uuid.UUID) ([]entity.Conflict, *errors.AppError)
	Release(ctx context.Context, eventID uuid.UUID) *errors.AppError
	QueryOverlaps(ctx context.Context, participantID uuid.UUID, interval entity.Interval) ([]entity.AvailabilityEntry, *errors.AppError)
	Reconcile(ctx context.Context) error
}

func NewAvailabilityService(repo repository.AvailabilityRepositoryInterface) AvailabilityServiceInterface {
	return &AvailabilityService{repo: repo}
}

// CheckConflict is a pure query: for each participant it returns the existing
// commitments that overlap the interval. No side effects.
func (s *AvailabilityService) CheckConflict(ctx context.Context, participantIDs []uuid.UUID, interval entity.Interval, excludingEventID uuid.UUID) ([]entity.Conflict, *errors.AppError) {
	var conflicts []entity.Conflict
	for _, participantID := range participantIDs {
		entries, err := s.repo.SelectOverlapping(ctx, participantID, interval, excludingEventID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to query availability", err)
		}
		for _, e := range entries {
			conflicts = append(conflicts, entity.Conflict{
				ParticipantID: e.ParticipantID,
				EventID:       e.EventID,
				StartTime:     e.StartTime,
				EndTime:       e.EndTime,
			})
		}
	}
	return conflicts, nil
}

// Commit materializes one entry per participant for the event. It re-checks
// for conflicts under the per-participant locks; when a commitment raced in
// during the approval window the conflicts are returned (nil AppError) and
// nothing is inserted — the caller decides how to surface them. A non-nil
// OVERLAP_DETECTED error means the serialization itself failed.
func (s *AvailabilityService) Commit(ctx context.Context, participantIDs []uuid.UUID, interval entity.Interval, eventID uuid.UUID) ([]entity.Conflict, *errors.AppError) {
	if !interval.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidEventSpec, "Interval start must precede end", nil)
	}

	indexMu.RLock()
	defer indexMu.RUnlock()

	unlock := lock.Participants.LockAll(participantIDs)
	defer unlock()

	conflicts, appErr := s.CheckConflict(ctx, participantIDs, interval, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}

	if err := s.repo.CommitEntries(ctx, participantIDs, interval, eventID); err != nil {
		if goerrors.Is(err, repository.ErrOverlap) {
			// The check above passed yet the insert collided: the
			// concurrency control is broken. Abort without
			// corrupting state and log loudly.
			logger.Error("AvailabilityService:Commit:InvariantViolation",
				"event_id", eventID.String(),
				"start", interval.Start,
				"end", interval.End,
			)
			return nil, errors.NewAppError(errors.ErrOverlapDetected, "Availability invariant violated during commit", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to commit availability", err)
	}

	return nil, nil
}

// Release removes every entry owned by the event (on cancellation).
func (s *AvailabilityService) Release(ctx context.Context, eventID uuid.UUID) *errors.AppError {
	n, err := s.repo.ReleaseByEventID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to release availability", err)
	}
	logger.Debug("AvailabilityService:Release", "event_id", eventID.String(), "released", n)
	return nil
}

// QueryOverlaps returns the participant's commitments overlapping the
// interval, ordered by start time. Finite and restartable by re-invocation.
func (s *AvailabilityService) QueryOverlaps(ctx context.Context, participantID uuid.UUID, interval entity.Interval) ([]entity.AvailabilityEntry, *errors.AppError) {
	if !interval.Valid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Interval start must precede end", nil)
	}
	entries, err := s.repo.SelectByParticipant(ctx, participantID, interval)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to query availability", err)
	}
	return entries, nil
}

// Reconcile rebuilds the derived index from confirmed events. Runs on a cron
// schedule; the event store stays the source of truth.
func (s *AvailabilityService) Reconcile(ctx context.Context) error {
	indexMu.Lock()
	defer indexMu.Unlock()

	logger.Info("AvailabilityService:Reconcile:Start")
	if err := s.repo.RebuildFromConfirmedEvents(ctx); err != nil {
		logger.Error("AvailabilityService:Reconcile", err)
		return err
	}
	logger.Info("AvailabilityService:Reconcile:Done")
	return nil
}
