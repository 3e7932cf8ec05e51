package dto

import (
	"time"

	approvalEntity "agreetime-api/modules/approval/entity"
	availabilityEntity "agreetime-api/modules/availability/entity"
	"agreetime-api/modules/event/entity"

	"github.com/google/uuid"
)

// ===================== Request DTOs =====================

// CreateEventRequest for proposing a new event
type CreateEventRequest struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	StartTime    string   `json:"start_time" validate:"required"` // RFC3339
	EndTime      string   `json:"end_time" validate:"required"`   // RFC3339
	Participants []string `json:"participants"` // user ids; creator is always included
	Approvers    []string `json:"approvers"`    // subset of participants; empty means auto-confirm
}

// ===================== Response DTOs =====================

// ApprovalDTO summarizes one approver's decision
type ApprovalDTO struct {
	ApproverID string     `json:"approver_id"`
	Decision   string     `json:"decision"`
	Reason     string     `json:"reason,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
}

// ConflictDTO describes an existing commitment blocking a proposal
type ConflictDTO struct {
	ParticipantID string    `json:"participant_id"`
	EventID       string    `json:"event_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

// EventResponse for event details
type EventResponse struct {
	ID              string        `json:"id"`
	Slug            string        `json:"slug"`
	CreatorID       string        `json:"creator_id"`
	Title           string        `json:"title"`
	Description     string        `json:"description,omitempty"`
	Location        string        `json:"location,omitempty"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	Status          string        `json:"status"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	SupersededBy    string        `json:"superseded_by,omitempty"`
	Participants    []string      `json:"participants,omitempty"`
	Approvals       []ApprovalDTO `json:"approvals,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// PaginatedEventResponse for event listings
type PaginatedEventResponse struct {
	Items      []EventResponse `json:"items"`
	TotalItems int             `json:"total_items"`
	PageNumber int             `json:"page_number"`
	PageSize   int             `json:"page_size"`
}

// ===================== Mapper Functions =====================

// ToEventResponse maps entity to DTO
func ToEventResponse(e *entity.Event, participants []uuid.UUID, approvals []approvalEntity.ApprovalRecord) *EventResponse {
	resp := &EventResponse{
		ID:        e.ID.String(),
		Slug:      e.Slug,
		CreatorID: e.CreatorID.String(),
		Title:     e.Title,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}

	if e.Description != nil {
		resp.Description = *e.Description
	}
	if e.Location != nil {
		resp.Location = *e.Location
	}
	if e.RejectionReason != nil {
		resp.RejectionReason = *e.RejectionReason
	}
	if e.SupersededBy != nil {
		resp.SupersededBy = e.SupersededBy.String()
	}

	for _, p := range participants {
		resp.Participants = append(resp.Participants, p.String())
	}

	for _, a := range approvals {
		d := ApprovalDTO{
			ApproverID: a.ApproverID.String(),
			Decision:   string(a.Decision),
			DecidedAt:  a.DecidedAt,
		}
		if a.Reason != nil {
			d.Reason = *a.Reason
		}
		resp.Approvals = append(resp.Approvals, d)
	}

	return resp
}

// ToConflictDTOs maps guard conflicts for error details
func ToConflictDTOs(conflicts []availabilityEntity.Conflict) []ConflictDTO {
	out := make([]ConflictDTO, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, ConflictDTO{
			ParticipantID: c.ParticipantID.String(),
			EventID:       c.EventID.String(),
			StartTime:     c.StartTime,
			EndTime:       c.EndTime,
		})
	}
	return out
}
