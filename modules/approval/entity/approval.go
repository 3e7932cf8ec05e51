package entity

import (
	"time"

	coreEntity "agreetime-api/core/entity"

	"github.com/google/uuid"
)

// Decision is an approver's recorded verdict. Write-once: once approved or
// rejected it never changes within a round.
type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ApprovalRecord tracks one (event, approver) pair. Retained for audit after
// the event resolves.
type ApprovalRecord struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	EventID    uuid.UUID  `db:"event_id" json:"event_id"`
	ApproverID uuid.UUID  `db:"approver_id" json:"approver_id"`
	Decision   Decision   `db:"decision" json:"decision"`
	Reason     *string    `db:"reason" json:"reason,omitempty"`
	DecidedAt  *time.Time `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// PendingApproval is a pending record joined with its event summary, for the
// approver's worklist.
type PendingApproval struct {
	EventID     uuid.UUID `db:"event_id" json:"event_id"`
	Title       string    `db:"title" json:"title"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	CreatorID   uuid.UUID `db:"creator_id" json:"creator_id"`
	RequestedAt time.Time `db:"requested_at" json:"requested_at"`
}

type PaginatedPendingApprovals = coreEntity.Pagination[PendingApproval]
