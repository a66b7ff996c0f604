package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterval_Overlaps(t *testing.T) {
	a := Interval{Start: Date(2026, 1, 5), End: Date(2026, 1, 11)}

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", a, true},
		{"touching end", Interval{Start: Date(2026, 1, 11), End: Date(2026, 1, 20)}, true},
		{"touching start", Interval{Start: Date(2026, 1, 1), End: Date(2026, 1, 5)}, true},
		{"inside", Interval{Start: Date(2026, 1, 7), End: Date(2026, 1, 8)}, true},
		{"day after", Interval{Start: Date(2026, 1, 12), End: Date(2026, 1, 20)}, false},
		{"day before", Interval{Start: Date(2025, 12, 1), End: Date(2026, 1, 4)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(a), "overlap should be symmetric")
		})
	}
}

func TestNewInterval_RejectsReversed(t *testing.T) {
	_, err := NewInterval(Date(2026, 2, 1), Date(2026, 1, 31))
	assert.Error(t, err)

	iv, err := NewInterval(time.Date(2026, 2, 1, 15, 30, 0, 0, time.Local), Date(2026, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, Date(2026, 2, 1), iv.Start)
	assert.Equal(t, 3, iv.NumDays())
}

func TestInterval_DaysAndIntersect(t *testing.T) {
	iv := IntervalFromDays(Date(2026, 2, 27), 4)
	days := iv.Days()
	require.Len(t, days, 4)
	assert.Equal(t, "2026-03-02", DateKey(days[3]))

	other := Interval{Start: Date(2026, 3, 1), End: Date(2026, 3, 31)}
	shared, ok := iv.Intersect(other)
	require.True(t, ok)
	assert.Equal(t, Date(2026, 3, 1), shared.Start)
	assert.Equal(t, Date(2026, 3, 2), shared.End)

	_, ok = iv.Intersect(Interval{Start: Date(2026, 4, 1), End: Date(2026, 4, 2)})
	assert.False(t, ok)
}

func TestDateSet_Sorted(t *testing.T) {
	set := NewDateSet(Date(2026, 3, 7), Date(2026, 1, 3), Date(2026, 3, 7))
	assert.Len(t, set, 2)
	assert.True(t, set.Has(time.Date(2026, 1, 3, 12, 0, 0, 0, time.UTC)))

	sorted := set.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, Date(2026, 1, 3), sorted[0])
}

func TestShiftRecord_HoursAcrossMidnight(t *testing.T) {
	rec := ShiftRecord{Status: ShiftWorking, Start: NewTimeOfDay(22), End: NewTimeOfDay(6), CrossesMidnight: true}
	assert.Equal(t, 8, rec.Hours())

	leave := ShiftRecord{Status: ShiftSickLeave}
	assert.Equal(t, 0, leave.Hours())
}

func TestDisplayStatus_ToShiftStatus(t *testing.T) {
	status, ok := DisplayCompTime.ToShiftStatus()
	assert.True(t, ok)
	assert.Equal(t, ShiftClientBreak, status)

	_, ok = DisplayDayOff.ToShiftStatus()
	assert.False(t, ok)
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("06:30")
	require.NoError(t, err)
	assert.Equal(t, "06:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}
