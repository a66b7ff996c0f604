package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type WorkerStatus string

const (
	WorkerAvailable  WorkerStatus = "available"
	WorkerOnContract WorkerStatus = "on_contract"
	WorkerOnLeave    WorkerStatus = "on_leave"
	WorkerSickLeave  WorkerStatus = "sick_leave"
	WorkerCompTime   WorkerStatus = "comp_time"
	WorkerInactive   WorkerStatus = "inactive"
)

func (s WorkerStatus) IsValid() bool {
	switch s {
	case WorkerAvailable, WorkerOnContract, WorkerOnLeave, WorkerSickLeave, WorkerCompTime, WorkerInactive:
		return true
	}
	return false
}

type ContractStatus string

const (
	ContractPending   ContractStatus = "pending"
	ContractActive    ContractStatus = "active"
	ContractCompleted ContractStatus = "completed"
	ContractCancelled ContractStatus = "cancelled"
	ContractPaused    ContractStatus = "paused"
)

type ShiftType string

const (
	ShiftDay      ShiftType = "day"
	ShiftNight    ShiftType = "night"
	ShiftRotating ShiftType = "rotating"
)

// ShiftTypes lists every shift type in a fixed order
var ShiftTypes = []ShiftType{ShiftDay, ShiftNight, ShiftRotating}

func (t ShiftType) IsValid() bool {
	return t == ShiftDay || t == ShiftNight || t == ShiftRotating
}

// ShiftStatus is the persisted disposition of a single day
type ShiftStatus string

const (
	ShiftWorking     ShiftStatus = "working"
	ShiftSickLeave   ShiftStatus = "sick_leave"
	ShiftVacation    ShiftStatus = "vacation"
	ShiftClientBreak ShiftStatus = "client_break"
)

// LeaveCategory is a weekday-only reservation type. Categories are mutually exclusive per day.
type LeaveCategory string

const (
	LeaveSick        LeaveCategory = "sick_leave"
	LeaveVacation    LeaveCategory = "vacation"
	LeaveClientBreak LeaveCategory = "client_break"
)

// LeaveCategories lists the leave categories in planning order
var LeaveCategories = []LeaveCategory{LeaveSick, LeaveVacation, LeaveClientBreak}

// ShiftStatus returns the shift status recorded for a day in this category
func (c LeaveCategory) ShiftStatus() ShiftStatus {
	switch c {
	case LeaveSick:
		return ShiftSickLeave
	case LeaveVacation:
		return ShiftVacation
	case LeaveClientBreak:
		return ShiftClientBreak
	}
	return ShiftWorking
}

// WorkerStatus returns the worker status used while the worker is on this kind of leave
func (c LeaveCategory) WorkerStatus() WorkerStatus {
	switch c {
	case LeaveSick:
		return WorkerSickLeave
	case LeaveVacation:
		return WorkerOnLeave
	case LeaveClientBreak:
		return WorkerCompTime
	}
	return WorkerAvailable
}

// DisplayStatus is the richer status shown on rota screens.
// Only a subset is ever persisted, see ToShiftStatus.
type DisplayStatus string

const (
	DisplayWorking     DisplayStatus = "working"
	DisplayDayOff      DisplayStatus = "day_off"
	DisplaySickLeave   DisplayStatus = "sick_leave"
	DisplayVacation    DisplayStatus = "vacation"
	DisplayClientBreak DisplayStatus = "client_break"
	DisplayCompTime    DisplayStatus = "comp_time"
	DisplayAbsent      DisplayStatus = "absent"
)

// ToShiftStatus maps a display status onto the persisted shift status.
// Returns false for display states that never produce a record.
func (d DisplayStatus) ToShiftStatus() (ShiftStatus, bool) {
	switch d {
	case DisplayWorking:
		return ShiftWorking, true
	case DisplaySickLeave:
		return ShiftSickLeave, true
	case DisplayVacation:
		return ShiftVacation, true
	case DisplayClientBreak, DisplayCompTime:
		return ShiftClientBreak, true
	}
	return "", false
}

// DayAvailability is one weekday of a worker's availability template
type DayAvailability struct {
	Available bool `json:"available"`
	StartHour int  `json:"startHour"`
	EndHour   int  `json:"endHour"`
}

// Covers reports whether the given hour falls inside the window
func (d DayAvailability) Covers(hour int) bool {
	return d.Available && hour >= d.StartHour && hour < d.EndHour
}

// WeeklyAvailability is indexed by time.Weekday (Sunday = 0)
type WeeklyAvailability [7]DayAvailability

// Worker represents an agency worker who can be placed with clients
type Worker struct {
	ID           string
	FirstName    string
	LastName     string
	Skills       []string
	HourlyRate   decimal.Decimal
	Status       WorkerStatus
	StatusReason string
	Availability WeeklyAvailability
}

func (w Worker) DisplayName() string {
	return fmt.Sprintf("%s %s", w.FirstName, w.LastName)
}

// ClientOrg represents a client organisation that requests workers
type ClientOrg struct {
	ID                 string
	Name               string
	Active             bool
	Industry           string
	PreferredPositions []string
}

// Contract is a time-bounded worker-to-client assignment with one position
type Contract struct {
	ID             string
	Number         string
	WorkerID       string
	ClientID       string
	Position       string
	Interval       Interval
	Status         ContractStatus
	HourlyRate     decimal.Decimal
	MaxWeeklyHours int
	ShiftType      ShiftType
	CreatedBy      string
}

// ShiftRecord is one calendar day's disposition for a worker under a contract
type ShiftRecord struct {
	ID              string
	WorkerID        string
	ClientID        string
	ContractID      string
	Date            time.Time
	Start           TimeOfDay
	End             TimeOfDay
	CrossesMidnight bool
	Status          ShiftStatus
	Note            string
	// WeeklyHours is informational only and is not used for billing
	WeeklyHours int
	CreatedBy   string
}

// Hours returns the length of the recorded working window
func (r ShiftRecord) Hours() int {
	if r.Status != ShiftWorking {
		return 0
	}
	start := r.Start.Minutes()
	end := r.End.Minutes()
	if r.CrossesMidnight {
		end += 24 * 60
	}
	return (end - start) / 60
}

// TimeOfDay is a wall-clock time without a date
type TimeOfDay struct {
	Hour   int
	Minute int
}

func NewTimeOfDay(hour int) TimeOfDay {
	return TimeOfDay{Hour: ((hour % 24) + 24) % 24}
}

func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay parses an HH:MM string
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}
