package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
	"github.com/jakechorley/staffing-scheduler/pkg/core/seeded"
	"github.com/jakechorley/staffing-scheduler/pkg/core/timeoff"
)

var (
	// ErrDuplicateShift is returned when a second record would be emitted for one date
	ErrDuplicateShift = errors.New("duplicate shift record for date")

	// ErrNoPatterns is returned when the table has no pattern for the contract's shift type
	ErrNoPatterns = errors.New("no shift patterns for shift type")
)

var shiftNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("staffing-scheduler/shift"))

// Input is everything needed to lay out one contract's schedule
type Input struct {
	Contract model.Contract

	// Horizon defaults to the contract interval when zero
	Horizon model.Interval

	OffDays     []timeoff.ReservedDay
	WeekendDays model.DateSet
	Patterns    ShiftPatternTable

	// Availability, when set, steers pattern choice towards the worker's usual hours
	Availability *model.WeeklyAvailability
}

// Generate walks every date of the horizon and emits at most one record per date.
// Off days produce leave records, weekdays produce working records and selected
// weekend days produce shorter working records. Other weekend days produce nothing.
func Generate(in Input) ([]model.ShiftRecord, error) {
	horizon := in.Horizon
	if horizon.Start.IsZero() {
		horizon = in.Contract.Interval
	}

	patterns := in.Patterns.For(in.Contract.ShiftType)
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPatterns, in.Contract.ShiftType)
	}

	offDays := make(map[string]timeoff.ReservedDay, len(in.OffDays))
	for _, d := range in.OffDays {
		key := model.DateKey(d.Date)
		if _, ok := offDays[key]; ok {
			return nil, fmt.Errorf("%w: %s reserved twice for contract %s", ErrDuplicateShift, key, in.Contract.Number)
		}
		offDays[key] = d
	}

	g := &generator{
		input:    in,
		horizon:  horizon,
		patterns: patterns,
		emitted:  model.DateSet{},
		records:  make([]model.ShiftRecord, 0, horizon.NumDays()),
	}

	for _, d := range horizon.Days() {
		var err error
		if off, ok := offDays[model.DateKey(d)]; ok {
			err = g.emitLeave(d, off)
		} else if !model.IsWeekend(d) {
			err = g.emitWorking(d, g.patternFor(d), 0)
		} else if in.WeekendDays.Has(d) {
			err = g.emitWorking(d, g.patternFor(d), g.weekendDuration(d))
		}
		if err != nil {
			return nil, err
		}
	}

	fillWeeklyHours(g.records)

	return g.records, nil
}

type generator struct {
	input    Input
	horizon  model.Interval
	patterns []ShiftPattern
	emitted  model.DateSet
	records  []model.ShiftRecord
}

// emit is the single point where records are added
func (g *generator) emit(record model.ShiftRecord) error {
	if g.emitted.Has(record.Date) {
		return fmt.Errorf("%w: %s for contract %s", ErrDuplicateShift, model.DateKey(record.Date), g.input.Contract.Number)
	}
	g.emitted.Add(record.Date)
	g.records = append(g.records, record)
	return nil
}

func (g *generator) emitLeave(d time.Time, off timeoff.ReservedDay) error {
	status := off.Category.ShiftStatus()
	if status == model.ShiftWorking {
		return fmt.Errorf("unknown leave category %q on %s", off.Category, model.DateKey(d))
	}

	record := g.newRecord(d)
	record.Status = status
	record.Note = off.Reason
	return g.emit(record)
}

// emitWorking emits a working record. A positive duration overrides the pattern length.
func (g *generator) emitWorking(d time.Time, pattern ShiftPattern, duration int) error {
	if duration > 0 {
		pattern.Duration = duration
	}

	record := g.newRecord(d)
	record.Status = model.ShiftWorking
	record.Start = model.NewTimeOfDay(pattern.StartHour)
	record.End = model.NewTimeOfDay(pattern.End())
	record.CrossesMidnight = pattern.CrossesMidnight()
	return g.emit(record)
}

func (g *generator) newRecord(d time.Time) model.ShiftRecord {
	c := g.input.Contract
	return model.ShiftRecord{
		ID:         RecordID(c.ID, d),
		WorkerID:   c.WorkerID,
		ClientID:   c.ClientID,
		ContractID: c.ID,
		Date:       d,
		CreatedBy:  c.CreatedBy,
	}
}

// patternFor rotates through the patterns week by week. When the worker has an
// availability window for the weekday, the first pattern from the rotation point
// whose start falls inside it wins.
func (g *generator) patternFor(d time.Time) ShiftPattern {
	week := int(d.Sub(g.horizon.Start).Hours()/24) / 7
	base := week % len(g.patterns)

	if g.input.Availability == nil {
		return g.patterns[base]
	}
	day := g.input.Availability[d.Weekday()]
	if !day.Available {
		return g.patterns[base]
	}

	for i := 0; i < len(g.patterns); i++ {
		p := g.patterns[(base+i)%len(g.patterns)]
		if day.Covers(p.StartHour) {
			return p
		}
	}
	return g.patterns[base]
}

func (g *generator) weekendDuration(d time.Time) int {
	hours := g.input.Patterns.WeekendHours
	if hours.Min < 1 {
		return 0
	}
	r := seeded.Rand(g.input.Patterns.Seed, "weekend-hours", g.input.Contract.ID, model.DateKey(d))
	return seeded.IntBetween(r, hours.Min, hours.Max)
}

// fillWeeklyHours sets each record's WeeklyHours to the working hours of its ISO week
func fillWeeklyHours(records []model.ShiftRecord) {
	totals := make(map[[2]int]int)
	for _, r := range records {
		year, week := r.Date.ISOWeek()
		totals[[2]int{year, week}] += r.Hours()
	}
	for i := range records {
		year, week := records[i].Date.ISOWeek()
		records[i].WeeklyHours = totals[[2]int{year, week}]
	}
}

// RecordID returns the stable identifier of a contract's record for a date
func RecordID(contractID string, d time.Time) string {
	return uuid.NewSHA1(shiftNamespace, []byte(contractID+"/"+model.DateKey(d))).String()
}
