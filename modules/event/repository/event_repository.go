package repository

import (
	"context"
	"database/sql"
	"time"

	"agreetime-api/core/database"
	"agreetime-api/core/logger"
	"agreetime-api/core/params"
	"agreetime-api/modules/event/entity"

	"github.com/google/uuid"
)

const eventColumns = `id, slug, creator_id, title, description, location, start_time, end_time,
		       status, rejection_reason, superseded_by, created_at, updated_at`

// EventRepository handles event database operations
type EventRepository struct {
	DB database.Database
}

func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract
type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, event *entity.Event, participantIDs []uuid.UUID) (*entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetParticipants(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
	UpdateStatus(ctx context.Context, eventID uuid.UUID, status entity.EventStatus, rejectionReason *string) error
	MarkSuperseded(ctx context.Context, oldEventID uuid.UUID, newEventID uuid.UUID) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*entity.PaginatedEventEntity, error)
	ListConfirmedForParticipant(ctx context.Context, participantID uuid.UUID, from, to time.Time) ([]entity.Event, error)
}

// CreateEvent inserts the event and its participant rows in one transaction.
func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event, participantIDs []uuid.UUID) (*entity.Event, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("EventRepository:CreateEvent:Begin", err)
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	insertEvent := `
		INSERT INTO events (slug, creator_id, title, description, location, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns

	var created entity.Event
	err = tx.GetContext(ctx, &created, insertEvent,
		event.Slug, event.CreatorID, event.Title, event.Description, event.Location,
		event.StartTime, event.EndTime, event.Status)
	if err != nil {
		logger.Error("EventRepository:CreateEvent", err)
		return nil, err
	}

	insertParticipant := `
		INSERT INTO event_participants (event_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (event_id, user_id) DO NOTHING
	`
	for _, userID := range participantIDs {
		if _, err := tx.ExecContext(ctx, insertParticipant, created.ID, userID); err != nil {
			logger.Error("EventRepository:CreateEvent:Participant", err, "user_id", userID.String())
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("EventRepository:CreateEvent:Commit", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) GetParticipants(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT user_id FROM event_participants
		WHERE event_id = $1
		ORDER BY created_at
	`

	var participants []uuid.UUID
	err := r.DB.SelectContext(ctx, &participants, query, eventID)
	if err != nil {
		logger.Error("EventRepository:GetParticipants", err)
		return nil, err
	}

	return participants, nil
}

func (r *EventRepository) UpdateStatus(ctx context.Context, eventID uuid.UUID, status entity.EventStatus, rejectionReason *string) error {
	query := `
		UPDATE events
		SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1
	`
	err := r.DB.ExecContext(ctx, query, eventID, status, rejectionReason)
	if err != nil {
		logger.Error("EventRepository:UpdateStatus", err,
			"event_id", eventID.String(), "status", string(status))
		return err
	}
	return nil
}

func (r *EventRepository) MarkSuperseded(ctx context.Context, oldEventID uuid.UUID, newEventID uuid.UUID) error {
	query := `
		UPDATE events
		SET status = $2, superseded_by = $3, updated_at = NOW()
		WHERE id = $1
	`
	err := r.DB.ExecContext(ctx, query, oldEventID, entity.EventStatusSuperseded, newEventID)
	if err != nil {
		logger.Error("EventRepository:MarkSuperseded", err, "event_id", oldEventID.String())
		return err
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("EventRepository:DeleteEvent", err)
		return err
	}
	return nil
}

// ListByUser returns events the user created or participates in.
func (r *EventRepository) ListByUser(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*entity.PaginatedEventEntity, error) {
	offset := (p.PageNumber - 1) * p.PageSize

	baseQuery := `
		FROM events e
		WHERE e.creator_id = $1
		   OR EXISTS (
			SELECT 1 FROM event_participants ep
			WHERE ep.event_id = e.id AND ep.user_id = $1
		   )
	`

	var totalItems int
	if err := r.DB.GetContext(ctx, &totalItems, `SELECT COUNT(*) `+baseQuery, userID); err != nil {
		logger.Error("EventRepository:ListByUser:Count", err)
		return nil, err
	}

	query := `SELECT ` + eventColumns + ` ` + baseQuery + `
		ORDER BY e.start_time DESC
		LIMIT $2 OFFSET $3
	`

	var events []entity.Event
	if err := r.DB.SelectContext(ctx, &events, query, userID, p.PageSize, offset); err != nil {
		logger.Error("EventRepository:ListByUser:Select", err)
		return nil, err
	}

	return &entity.PaginatedEventEntity{
		Items:      events,
		TotalItems: totalItems,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}, nil
}

// ListConfirmedForParticipant returns confirmed events overlapping [from,to)
// for the participant, ordered by start time.
func (r *EventRepository) ListConfirmedForParticipant(ctx context.Context, participantID uuid.UUID, from, to time.Time) ([]entity.Event, error) {
	query := `
		SELECT e.id, e.slug, e.creator_id, e.title, e.description, e.location,
		       e.start_time, e.end_time, e.status, e.rejection_reason, e.superseded_by,
		       e.created_at, e.updated_at
		FROM events e
		JOIN event_participants ep ON ep.event_id = e.id
		WHERE ep.user_id = $1
		  AND e.status = 'confirmed'
		  AND e.start_time < $3
		  AND $2 < e.end_time
		ORDER BY e.start_time
	`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, participantID, from, to)
	if err != nil {
		logger.Error("EventRepository:ListConfirmedForParticipant", err)
		return nil, err
	}

	return events, nil
}
