package entity

import (
	"time"

	"github.com/google/uuid"
)

// EventHistory is one append-only audit entry for an event transition.
type EventHistory struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	EventID    uuid.UUID  `db:"event_id" json:"event_id"`
	ActorID    *uuid.UUID `db:"actor_id" json:"actor_id,omitempty"`
	Action     string     `db:"action" json:"action"`
	Details    string     `db:"details" json:"details,omitempty"`
	OccurredAt time.Time  `db:"occurred_at" json:"occurred_at"`
}

// Actions recorded by the engine.
const (
	ActionProposed      = "proposed"
	ActionAutoConfirmed = "auto_confirmed"
	ActionApproved      = "approved"
	ActionRejected      = "rejected"
	ActionConfirmed     = "confirmed"
	ActionCancelled     = "cancelled"
	ActionSuperseded    = "superseded"
)
