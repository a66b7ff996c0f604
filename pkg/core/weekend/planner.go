package weekend

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
	"github.com/jakechorley/staffing-scheduler/pkg/core/seeded"
	"github.com/jakechorley/staffing-scheduler/pkg/core/timeoff"
)

// WeekendPolicy bounds weekend work per contract
type WeekendPolicy struct {
	Seed         int64
	MaxSaturdays int
	MaxSundays   int

	// Blackouts are RRULE strings naming dates that are never worked, e.g.
	// "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"
	Blackouts []string
}

// Plan selects the weekend dates a contract works within horizon.
// Saturdays are capped at one per calendar month. Reserved leave days and
// blackout dates are never selected.
func Plan(contract model.Contract, horizon model.Interval, reserved []timeoff.ReservedDay, policy WeekendPolicy) (model.DateSet, error) {
	selected := model.DateSet{}

	blocked := model.DateSet{}
	for _, d := range reserved {
		blocked.Add(d.Date)
	}

	blackouts, err := BlackoutDates(policy.Blackouts, horizon)
	if err != nil {
		return nil, err
	}

	saturdays, err := candidates(rrule.SA, horizon, blocked, blackouts)
	if err != nil {
		return nil, err
	}
	sundays, err := candidates(rrule.SU, horizon, blocked, blackouts)
	if err != nil {
		return nil, err
	}

	r := seeded.Rand(policy.Seed, "weekend", contract.ID)

	months := make(map[string]bool)
	count := 0
	for _, d := range seeded.Shuffle(r, saturdays) {
		if count >= policy.MaxSaturdays {
			break
		}
		month := d.Format("2006-01")
		if months[month] {
			continue
		}
		months[month] = true
		selected.Add(d)
		count++
	}

	count = 0
	for _, d := range seeded.Shuffle(r, sundays) {
		if count >= policy.MaxSundays {
			break
		}
		selected.Add(d)
		count++
	}

	return selected, nil
}

// BlackoutDates expands the rules into the set of dates they hit within horizon
func BlackoutDates(rules []string, horizon model.Interval) (model.DateSet, error) {
	dates := model.DateSet{}

	for i, raw := range rules {
		rule, err := rrule.StrToRRule(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse blackout rule %d %q: %w", i, raw, err)
		}
		rule.DTStart(horizon.Start)

		for _, occurrence := range rule.Between(horizon.Start, endOfDay(horizon.End), true) {
			dates.Add(model.NormalizeDate(occurrence))
		}
	}

	return dates, nil
}

// candidates lists every occurrence of weekday in horizon that is neither blocked nor blacked out
func candidates(weekday rrule.Weekday, horizon model.Interval, blocked, blackouts model.DateSet) ([]time.Time, error) {
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{weekday},
		Dtstart:   horizon.Start,
		Until:     endOfDay(horizon.End),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build weekend rule: %w", err)
	}

	dates := make([]time.Time, 0)
	for _, occurrence := range rule.All() {
		d := model.NormalizeDate(occurrence)
		if blocked.Has(d) || blackouts.Has(d) {
			continue
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func endOfDay(d time.Time) time.Time {
	return d.Add(24*time.Hour - time.Second)
}
