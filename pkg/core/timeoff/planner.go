package timeoff

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
	"github.com/jakechorley/staffing-scheduler/pkg/core/seeded"
)

// DefaultMaxAttempts bounds placement retries when a policy does not set one
const DefaultMaxAttempts = 10

// CategoryPolicy bounds the periods generated for one leave category
type CategoryPolicy struct {
	MinCount  int
	MaxCount  int
	MinLength int // calendar days
	MaxLength int // calendar days
	Reason    string
}

// LeavePolicy configures time-off planning for all categories
type LeavePolicy struct {
	Seed        int64
	MaxAttempts int
	Categories  map[model.LeaveCategory]CategoryPolicy
}

// ReservedInterval is a placed leave period. Days holds the weekday dates actually reserved.
type ReservedInterval struct {
	Category  model.LeaveCategory
	Start     time.Time
	End       time.Time
	Days      []time.Time
	Reason    string
	Truncated bool
}

// ReservedDay is a single reserved date
type ReservedDay struct {
	Date     time.Time
	Category model.LeaveCategory
	Reason   string
}

// Result is the outcome of planning time off for one contract
type Result struct {
	Periods []ReservedInterval

	// Days is the flat list of reservations, sorted by date
	Days []ReservedDay

	// Truncated counts periods shortened after exhausting placement attempts
	Truncated int

	// Dropped counts periods abandoned because nothing collision-free remained
	Dropped int
}

// CountByCategory returns the number of reserved days per category
func (r *Result) CountByCategory() map[model.LeaveCategory]int {
	counts := make(map[model.LeaveCategory]int)
	for _, d := range r.Days {
		counts[d.Category]++
	}
	return counts
}

var defaultReasons = map[model.LeaveCategory]string{
	model.LeaveSick:        "Sick leave",
	model.LeaveVacation:    "Annual vacation",
	model.LeaveClientBreak: "Work break requested by client",
}

// Plan reserves leave periods for a contract within horizon.
//
// Categories are planned in the order of model.LeaveCategories. Weekend dates
// inside a period are left out of the reservation rather than shifted. A date
// is never reserved twice: colliding placements are retried up to MaxAttempts
// times, after which the last attempt is cut at its first collision, or dropped
// when nothing is left.
func Plan(contract model.Contract, horizon model.Interval, policy LeavePolicy) *Result {
	result := &Result{
		Periods: []ReservedInterval{},
		Days:    []ReservedDay{},
	}
	if !hasWeekday(horizon) {
		return result
	}

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = DefaultMaxAttempts
	}

	taken := model.DateSet{}
	for _, category := range model.LeaveCategories {
		cp, ok := policy.Categories[category]
		if !ok {
			continue
		}

		r := seeded.Rand(policy.Seed, "timeoff", contract.ID, string(category))
		count := seeded.IntBetween(r, max(cp.MinCount, 0), max(cp.MaxCount, 0))

		for i := 0; i < count; i++ {
			length := seeded.IntBetween(r, max(cp.MinLength, 1), max(cp.MaxLength, 1))

			period, ok := place(r, horizon, length, attempts, taken)
			if !ok {
				result.Dropped++
				continue
			}
			if period.Truncated {
				result.Truncated++
			}

			period.Category = category
			period.Reason = reasonFor(category, cp, period)

			for _, d := range period.Days {
				taken.Add(d)
				result.Days = append(result.Days, ReservedDay{Date: d, Category: category, Reason: period.Reason})
			}
			result.Periods = append(result.Periods, period)
		}
	}

	sort.SliceStable(result.Days, func(i, j int) bool {
		return result.Days[i].Date.Before(result.Days[j].Date)
	})

	return result
}

// place tries to find a collision-free weekday run of the given calendar length
func place(r *rand.Rand, horizon model.Interval, length, attempts int, taken model.DateSet) (ReservedInterval, bool) {
	var last ReservedInterval

	for attempt := 0; attempt < attempts; attempt++ {
		start := horizon.Start.AddDate(0, 0, r.IntN(horizon.NumDays()))
		end := start.AddDate(0, 0, length-1)
		if end.After(horizon.End) {
			end = horizon.End
		}

		last = ReservedInterval{Start: start, End: end, Days: weekdaysBetween(start, end)}
		if len(last.Days) == 0 {
			continue
		}
		if !collides(last.Days, taken) {
			return last, true
		}
	}

	// Out of attempts: keep the collision-free prefix of the last placement
	prefix := make([]time.Time, 0, len(last.Days))
	for _, d := range last.Days {
		if taken.Has(d) {
			break
		}
		prefix = append(prefix, d)
	}
	if len(prefix) == 0 {
		return ReservedInterval{}, false
	}

	return ReservedInterval{
		Start:     last.Start,
		End:       prefix[len(prefix)-1],
		Days:      prefix,
		Truncated: true,
	}, true
}

func weekdaysBetween(start, end time.Time) []time.Time {
	days := make([]time.Time, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !model.IsWeekend(d) {
			days = append(days, d)
		}
	}
	return days
}

func collides(days []time.Time, taken model.DateSet) bool {
	for _, d := range days {
		if taken.Has(d) {
			return true
		}
	}
	return false
}

func hasWeekday(iv model.Interval) bool {
	// Any three consecutive days contain a weekday
	for i, d := 0, iv.Start; i < 3 && !d.After(iv.End); i, d = i+1, d.AddDate(0, 0, 1) {
		if !model.IsWeekend(d) {
			return true
		}
	}
	return false
}

func reasonFor(category model.LeaveCategory, cp CategoryPolicy, period ReservedInterval) string {
	base := cp.Reason
	if base == "" {
		base = defaultReasons[category]
	}
	return fmt.Sprintf("%s (%s to %s)", base, model.DateKey(period.Start), model.DateKey(period.End))
}
