package repository

import (
	"context"
	goerrors "errors"

	"agreetime-api/core/database"
	"agreetime-api/core/logger"
	"agreetime-api/modules/availability/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrOverlap is returned when the exclusion constraint rejects an insert.
// Reaching it means the in-process serialization failed; callers treat it as
// an internal-consistency error.
var ErrOverlap = goerrors.New("availability entry overlaps an existing commitment")

// AvailabilityRepository handles availability_entries database operations
type AvailabilityRepository struct {
	DB database.Database
}

func NewAvailabilityRepository(db database.Database) *AvailabilityRepository {
	return &AvailabilityRepository{DB: db}
}

// AvailabilityRepositoryInterface defines the repository contract
type AvailabilityRepositoryInterface interface {
	SelectOverlapping(ctx context.Context, participantID uuid.UUID, interval entity.Interval, excludingEventID uuid.UUID) ([]entity.AvailabilityEntry, error)
	CommitEntries(ctx context.Context, participantIDs []uuid.UUID, interval entity.Interval, eventID uuid.UUID) error
	ReleaseByEventID(ctx context.Context, eventID uuid.UUID) (int64, error)
	SelectByParticipant(ctx context.Context, participantID uuid.UUID, interval entity.Interval) ([]entity.AvailabilityEntry, error)
	RebuildFromConfirmedEvents(ctx context.Context) error
}

func (r *AvailabilityRepository) SelectOverlapping(ctx context.Context, participantID uuid.UUID, interval entity.Interval, excludingEventID uuid.UUID) ([]entity.AvailabilityEntry, error) {
	query := `
		SELECT id, participant_id, event_id, start_time, end_time, created_at
		FROM availability_entries
		WHERE participant_id = $1
		  AND start_time < $3
		  AND $2 < end_time
		  AND event_id != $4
		ORDER BY start_time
	`

	var entries []entity.AvailabilityEntry
	err := r.DB.SelectContext(ctx, &entries, query,
		participantID, interval.Start, interval.End, excludingEventID)
	if err != nil {
		logger.Error("AvailabilityRepository:SelectOverlapping", err)
		return nil, err
	}

	return entries, nil
}

// CommitEntries inserts one entry per participant inside a single
// transaction. The overlap re-check runs in SQL against committed data; the
// table's exclusion constraint is the last line of defense.
func (r *AvailabilityRepository) CommitEntries(ctx context.Context, participantIDs []uuid.UUID, interval entity.Interval, eventID uuid.UUID) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("AvailabilityRepository:CommitEntries:Begin", err)
		return err
	}
	defer func() { _ = tx.Rollback() }()

	insert := `
		INSERT INTO availability_entries (participant_id, event_id, start_time, end_time)
		VALUES ($1, $2, $3, $4)
	`

	for _, participantID := range participantIDs {
		if _, err := tx.ExecContext(ctx, insert, participantID, eventID, interval.Start, interval.End); err != nil {
			if isExclusionViolation(err) {
				return ErrOverlap
			}
			logger.Error("AvailabilityRepository:CommitEntries:Insert", err,
				"participant_id", participantID.String(),
				"event_id", eventID.String())
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		if isExclusionViolation(err) {
			return ErrOverlap
		}
		logger.Error("AvailabilityRepository:CommitEntries:Commit", err)
		return err
	}

	return nil
}

func (r *AvailabilityRepository) ReleaseByEventID(ctx context.Context, eventID uuid.UUID) (int64, error) {
	query := `DELETE FROM availability_entries WHERE event_id = $1`
	res, err := r.DB.SQLx().ExecContext(ctx, query, eventID)
	if err != nil {
		logger.Error("AvailabilityRepository:ReleaseByEventID", err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *AvailabilityRepository) SelectByParticipant(ctx context.Context, participantID uuid.UUID, interval entity.Interval) ([]entity.AvailabilityEntry, error) {
	query := `
		SELECT id, participant_id, event_id, start_time, end_time, created_at
		FROM availability_entries
		WHERE participant_id = $1
		  AND start_time < $3
		  AND $2 < end_time
		ORDER BY start_time
	`

	var entries []entity.AvailabilityEntry
	err := r.DB.SelectContext(ctx, &entries, query, participantID, interval.Start, interval.End)
	if err != nil {
		logger.Error("AvailabilityRepository:SelectByParticipant", err)
		return nil, err
	}

	return entries, nil
}

// RebuildFromConfirmedEvents rebuilds the derived index from the event store.
// The index is never the source of truth; drift gets repaired here.
func (r *AvailabilityRepository) RebuildFromConfirmedEvents(ctx context.Context) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("AvailabilityRepository:Rebuild:Begin", err)
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM availability_entries`); err != nil {
		logger.Error("AvailabilityRepository:Rebuild:Clear", err)
		return err
	}

	rebuild := `
		INSERT INTO availability_entries (participant_id, event_id, start_time, end_time)
		SELECT ep.user_id, e.id, e.start_time, e.end_time
		FROM events e
		JOIN event_participants ep ON ep.event_id = e.id
		WHERE e.status = 'confirmed'
	`
	if _, err := tx.ExecContext(ctx, rebuild); err != nil {
		logger.Error("AvailabilityRepository:Rebuild:Insert", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("AvailabilityRepository:Rebuild:Commit", err)
		return err
	}

	return nil
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if goerrors.As(err, &pqErr) {
		return pqErr.Code == "23P01"
	}
	return false
}
