package dto

import (
	"time"

	"agreetime-api/modules/event/entity"
)

// CalendarEntry is one confirmed commitment on a participant's calendar
type CalendarEntry struct {
	EventID   string    `json:"event_id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Location  string    `json:"location,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// CalendarResponse is the read view over a time range, ordered by start time
type CalendarResponse struct {
	ParticipantID string          `json:"participant_id"`
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Entries       []CalendarEntry `json:"entries"`
}

// ToCalendarEntries maps confirmed events to calendar entries
func ToCalendarEntries(events []entity.Event) []CalendarEntry {
	entries := make([]CalendarEntry, 0, len(events))
	for _, e := range events {
		entry := CalendarEntry{
			EventID:   e.ID.String(),
			Slug:      e.Slug,
			Title:     e.Title,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		}
		if e.Location != nil {
			entry.Location = *e.Location
		}
		entries = append(entries, entry)
	}
	return entries
}
