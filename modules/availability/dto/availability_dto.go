package dto

import (
	"time"

	"agreetime-api/modules/availability/entity"
)

// OverlapsResponse lists a participant's busy intervals within a range.
type OverlapsResponse struct {
	ParticipantID string        `json:"participant_id"`
	From          time.Time     `json:"from"`
	To            time.Time     `json:"to"`
	Entries       []EntryDTO    `json:"entries"`
	Free          []IntervalDTO `json:"free,omitempty"`
}

type EntryDTO struct {
	EventID   string    `json:"event_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type IntervalDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ToOverlapsResponse maps entries to the response, computing the free gaps
// between merged busy intervals.
func ToOverlapsResponse(participantID string, interval entity.Interval, entries []entity.AvailabilityEntry) *OverlapsResponse {
	resp := &OverlapsResponse{
		ParticipantID: participantID,
		From:          interval.Start,
		To:            interval.End,
		Entries:       make([]EntryDTO, 0, len(entries)),
	}

	busy := make([]entity.Interval, 0, len(entries))
	for _, e := range entries {
		resp.Entries = append(resp.Entries, EntryDTO{
			EventID:   e.EventID.String(),
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		})
		busy = append(busy, entity.Interval{Start: e.StartTime, End: e.EndTime})
	}

	cursor := interval.Start
	for _, b := range entity.MergeIntervals(busy) {
		if cursor.Before(b.Start) {
			resp.Free = append(resp.Free, IntervalDTO{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(interval.End) {
		resp.Free = append(resp.Free, IntervalDTO{Start: cursor, End: interval.End})
	}

	return resp
}
