package model

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the canonical calendar-date format
const DateLayout = "2006-01-02"

// Date returns the UTC midnight for the given calendar day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NormalizeDate strips the time of day and location from t
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// IsWeekend reports whether the date is a Saturday or Sunday
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Interval is a closed range of calendar dates
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval from two dates, rejecting reversed ranges
func NewInterval(start, end time.Time) (Interval, error) {
	start, end = NormalizeDate(start), NormalizeDate(end)
	if end.Before(start) {
		return Interval{}, fmt.Errorf("interval end %s is before start %s", DateKey(end), DateKey(start))
	}
	return Interval{Start: start, End: end}, nil
}

// IntervalFromDays returns the interval of n days starting at start
func IntervalFromDays(start time.Time, days int) Interval {
	start = NormalizeDate(start)
	if days < 1 {
		days = 1
	}
	return Interval{Start: start, End: start.AddDate(0, 0, days-1)}
}

// Overlaps reports whether the two closed intervals share at least one day
func (iv Interval) Overlaps(other Interval) bool {
	return !iv.Start.After(other.End) && !iv.End.Before(other.Start)
}

func (iv Interval) Contains(d time.Time) bool {
	d = NormalizeDate(d)
	return !d.Before(iv.Start) && !d.After(iv.End)
}

// Intersect returns the shared part of both intervals, false when they are disjoint
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	if !iv.Overlaps(other) {
		return Interval{}, false
	}
	start := iv.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := iv.End
	if other.End.Before(end) {
		end = other.End
	}
	return Interval{Start: start, End: end}, true
}

// NumDays returns the number of calendar days in the interval
func (iv Interval) NumDays() int {
	return int(iv.End.Sub(iv.Start).Hours()/24) + 1
}

// Days lists every calendar date in the interval in order
func (iv Interval) Days() []time.Time {
	days := make([]time.Time, 0, iv.NumDays())
	for d := iv.Start; !d.After(iv.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s]", DateKey(iv.Start), DateKey(iv.End))
}

// DateSet is a set of calendar dates
type DateSet map[string]struct{}

func NewDateSet(dates ...time.Time) DateSet {
	set := make(DateSet, len(dates))
	for _, d := range dates {
		set.Add(d)
	}
	return set
}

func (s DateSet) Add(d time.Time) {
	s[DateKey(d)] = struct{}{}
}

func (s DateSet) Has(d time.Time) bool {
	_, ok := s[DateKey(d)]
	return ok
}

// Sorted returns the dates in ascending order
func (s DateSet) Sorted() []time.Time {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dates := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		d, err := time.Parse(DateLayout, k)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}
