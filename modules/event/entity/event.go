package entity

import (
	"time"

	coreEntity "agreetime-api/core/entity"

	"github.com/google/uuid"
)

// EventStatus represents the lifecycle state of an event
type EventStatus string

const (
	// EventStatusProposed is the creation state when no approvers are
	// required; such events confirm immediately.
	EventStatusProposed EventStatus = "proposed"
	// EventStatusAwaitingApproval is the creation state when at least one
	// approver must decide.
	EventStatusAwaitingApproval EventStatus = "awaiting_approval"
	EventStatusConfirmed        EventStatus = "confirmed"
	EventStatusRejected         EventStatus = "rejected"
	EventStatusCancelled        EventStatus = "cancelled"
	// EventStatusSuperseded marks a pending event replaced by an edited
	// proposal. Events under approval are never mutated in place.
	EventStatusSuperseded EventStatus = "superseded"
)

// Pending reports whether the status still accepts decisions or edits.
func (s EventStatus) Pending() bool {
	return s == EventStatusProposed || s == EventStatusAwaitingApproval
}

// Terminal reports whether the status admits no further transition.
func (s EventStatus) Terminal() bool {
	return s == EventStatusRejected || s == EventStatusCancelled || s == EventStatusSuperseded
}

// Event represents a proposed or confirmed shared activity
type Event struct {
	ID              uuid.UUID   `db:"id" json:"id"`
	Slug            string      `db:"slug" json:"slug"`
	CreatorID       uuid.UUID   `db:"creator_id" json:"creator_id"`
	Title           string      `db:"title" json:"title"`
	Description     *string     `db:"description" json:"description,omitempty"`
	Location        *string     `db:"location" json:"location,omitempty"`
	StartTime       time.Time   `db:"start_time" json:"start_time"`
	EndTime         time.Time   `db:"end_time" json:"end_time"`
	Status          EventStatus `db:"status" json:"status"`
	RejectionReason *string     `db:"rejection_reason" json:"rejection_reason,omitempty"`
	SupersededBy    *uuid.UUID  `db:"superseded_by" json:"superseded_by,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// EventParticipant is a row in the event_participants join table
type EventParticipant struct {
	EventID   uuid.UUID `db:"event_id" json:"event_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PaginatedEventEntity = coreEntity.Pagination[Event]
