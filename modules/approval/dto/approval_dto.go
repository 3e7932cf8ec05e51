package dto

import (
	"time"

	"agreetime-api/modules/approval/entity"
)

// ===================== Request DTOs =====================

// DecisionRequest records one approver's verdict on a pending event
type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Reason   string `json:"reason"`
}

// ===================== Response DTOs =====================

// DecisionResponse reports the recorded decision and the event status it
// produced
type DecisionResponse struct {
	EventID     string `json:"event_id"`
	ApproverID  string `json:"approver_id"`
	Decision    string `json:"decision"`
	EventStatus string `json:"event_status"`
}

// ApprovalRecordResponse is one approver's row in the round
type ApprovalRecordResponse struct {
	ApproverID string     `json:"approver_id"`
	Decision   string     `json:"decision"`
	Reason     string     `json:"reason,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
}

// PendingApprovalResponse is one entry in an approver's worklist
type PendingApprovalResponse struct {
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatorID   string    `json:"creator_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// PaginatedPendingResponse for the worklist
type PaginatedPendingResponse struct {
	Items      []PendingApprovalResponse `json:"items"`
	TotalItems int                       `json:"total_items"`
	PageNumber int                       `json:"page_number"`
	PageSize   int                       `json:"page_size"`
}

// ===================== Mapper Functions =====================

func ToApprovalRecordResponses(records []entity.ApprovalRecord) []ApprovalRecordResponse {
	out := make([]ApprovalRecordResponse, 0, len(records))
	for _, r := range records {
		resp := ApprovalRecordResponse{
			ApproverID: r.ApproverID.String(),
			Decision:   string(r.Decision),
			DecidedAt:  r.DecidedAt,
		}
		if r.Reason != nil {
			resp.Reason = *r.Reason
		}
		out = append(out, resp)
	}
	return out
}

func ToPaginatedPendingResponse(page *entity.PaginatedPendingApprovals) *PaginatedPendingResponse {
	items := make([]PendingApprovalResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, PendingApprovalResponse{
			EventID:     p.EventID.String(),
			Title:       p.Title,
			StartTime:   p.StartTime,
			EndTime:     p.EndTime,
			CreatorID:   p.CreatorID.String(),
			RequestedAt: p.RequestedAt,
		})
	}
	return &PaginatedPendingResponse{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}
