package schedule

import (
	"fmt"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

// ShiftPattern is a working window given by its start hour and length in hours
type ShiftPattern struct {
	StartHour int `yaml:"startHour" validate:"min=0,max=23"`
	Duration  int `yaml:"duration" validate:"min=1,max=24"`
}

// End returns the hour the shift finishes, wrapping past midnight
func (p ShiftPattern) End() int {
	return (p.StartHour + p.Duration) % 24
}

// CrossesMidnight reports whether the shift finishes on the next calendar day
func (p ShiftPattern) CrossesMidnight() bool {
	return p.End() <= p.StartHour
}

func (p ShiftPattern) String() string {
	return fmt.Sprintf("%02d:00+%dh", p.StartHour, p.Duration)
}

// HourRange is an inclusive range of shift lengths
type HourRange struct {
	Min int `yaml:"min" validate:"min=1,max=24"`
	Max int `yaml:"max" validate:"min=1,max=24,gtefield=Min"`
}

// ShiftPatternTable holds the fixed shift patterns per shift type
type ShiftPatternTable struct {
	Patterns map[model.ShiftType][]ShiftPattern

	// WeekendHours bounds the shorter weekend shift length
	WeekendHours HourRange

	Seed int64
}

// DefaultPatternTable returns the built-in pattern table
func DefaultPatternTable(seed int64) ShiftPatternTable {
	return ShiftPatternTable{
		Patterns: map[model.ShiftType][]ShiftPattern{
			model.ShiftDay: {
				{StartHour: 8, Duration: 8},
				{StartHour: 9, Duration: 8},
				{StartHour: 7, Duration: 9},
			},
			model.ShiftNight: {
				{StartHour: 22, Duration: 8},
				{StartHour: 20, Duration: 10},
			},
			model.ShiftRotating: {
				{StartHour: 6, Duration: 8},
				{StartHour: 14, Duration: 8},
				{StartHour: 22, Duration: 8},
			},
		},
		WeekendHours: HourRange{Min: 5, Max: 6},
		Seed:         seed,
	}
}

// For returns the patterns of a shift type
func (t ShiftPatternTable) For(shiftType model.ShiftType) []ShiftPattern {
	return t.Patterns[shiftType]
}
