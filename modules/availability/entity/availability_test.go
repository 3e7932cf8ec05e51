package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interval(startHour, endHour int) Interval {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return Interval{
		Start: base.Add(time.Duration(startHour) * time.Hour),
		End:   base.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestInterval_Valid(t *testing.T) {
	assert.True(t, interval(9, 10).Valid())
	assert.False(t, interval(10, 9).Valid())

	// Zero-length intervals are invalid under half-open semantics.
	assert.False(t, interval(9, 9).Valid())
}

func TestInterval_Overlaps(t *testing.T) {
	assert.True(t, interval(9, 11).Overlaps(interval(10, 12)))
	assert.True(t, interval(10, 12).Overlaps(interval(9, 11)))
	assert.True(t, interval(9, 12).Overlaps(interval(10, 11)))

	assert.False(t, interval(9, 10).Overlaps(interval(11, 12)))
}

func TestInterval_OverlapsHalfOpenBoundary(t *testing.T) {
	// [9,10) and [10,11) share no instant.
	assert.False(t, interval(9, 10).Overlaps(interval(10, 11)))
	assert.False(t, interval(10, 11).Overlaps(interval(9, 10)))
}

func TestMergeIntervals_Empty(t *testing.T) {
	assert.Empty(t, MergeIntervals(nil))
}

func TestMergeIntervals_MergesOverlappingAndAdjacent(t *testing.T) {
	merged := MergeIntervals([]Interval{
		interval(13, 14),
		interval(9, 11),
		interval(10, 12),
		interval(12, 13),
	})

	require.Len(t, merged, 1)
	assert.Equal(t, interval(9, 14), merged[0])
}

func TestMergeIntervals_KeepsGaps(t *testing.T) {
	merged := MergeIntervals([]Interval{
		interval(15, 16),
		interval(9, 10),
	})

	require.Len(t, merged, 2)
	assert.Equal(t, interval(9, 10), merged[0])
	assert.Equal(t, interval(15, 16), merged[1])
}
