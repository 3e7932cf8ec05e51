package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// AvailabilityEntry is one committed time interval for a participant, derived
// from a confirmed event. The index is never hand-edited; it is materialized
// on confirmation and released on cancellation.
type AvailabilityEntry struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ParticipantID uuid.UUID `db:"participant_id" json:"participant_id"`
	EventID       uuid.UUID `db:"event_id" json:"event_id"`
	StartTime     time.Time `db:"start_time" json:"start_time"`
	EndTime       time.Time `db:"end_time" json:"end_time"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports whether two half-open intervals share at least one
// instant: [a,b) and [c,d) overlap iff a < d and c < b.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// MergeIntervals merges overlapping or adjacent intervals into a minimal
// sorted set.
func MergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return intervals
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []Interval{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		last := &merged[len(merged)-1]
		current := sorted[i]

		if current.Start.Before(last.End) || current.Start.Equal(last.End) {
			if current.End.After(last.End) {
				last.End = current.End
			}
		} else {
			merged = append(merged, current)
		}
	}

	return merged
}

// Conflict describes an existing commitment that overlaps a requested
// interval for one participant.
type Conflict struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	EventID       uuid.UUID `json:"event_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}
