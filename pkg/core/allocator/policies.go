package allocator

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
	"github.com/jakechorley/staffing-scheduler/pkg/core/seeded"
)

// DemandPolicy decides how many contracts a client should receive.
// Implementations must be pure functions of their inputs and configuration.
type DemandPolicy interface {
	Desired(client model.ClientOrg, matchCount int) int
}

// Activation describes the terms chosen for a new contract
type Activation struct {
	Status    model.ContractStatus
	Interval  model.Interval
	ShiftType model.ShiftType
}

// ActivationPolicy chooses lifecycle status, interval and shift type for the
// contract at the given position in the run. The interval must lie inside horizon.
type ActivationPolicy interface {
	Activate(index int, client model.ClientOrg, horizon model.Interval) Activation
}

// SeededDemand draws a contract count in [1, min(MaxPerClient, matchCount)]
// from a stream keyed by client ID.
type SeededDemand struct {
	Seed         int64
	MaxPerClient int
}

func (d SeededDemand) Desired(client model.ClientOrg, matchCount int) int {
	upper := min(d.MaxPerClient, matchCount)
	if upper < 1 {
		return 0
	}
	r := seeded.Rand(d.Seed, "demand", client.ID)
	return seeded.IntBetween(r, 1, upper)
}

// FixedDemand always asks for the same number of contracts
type FixedDemand int

func (d FixedDemand) Desired(client model.ClientOrg, matchCount int) int {
	return int(d)
}

// SeededActivation produces either an active contract whose start is backdated
// from Today or a pending contract starting after Today.
type SeededActivation struct {
	Seed            int64
	Today           time.Time
	ActiveRatio     float64
	BackdateMaxDays int
	LeadMaxDays     int
	MinLengthDays   int
	MaxLengthDays   int
	ShiftTypes      []model.ShiftType
}

func (a SeededActivation) Activate(index int, client model.ClientOrg, horizon model.Interval) Activation {
	r := seeded.Rand(a.Seed, "activation", fmt.Sprint(index))
	today := model.NormalizeDate(a.Today)

	length := seeded.IntBetween(r, max(a.MinLengthDays, 1), max(a.MaxLengthDays, 1))

	status := model.ContractPending
	var start time.Time
	if r.Float64() < a.ActiveRatio {
		status = model.ContractActive
		start = today.AddDate(0, 0, -seeded.IntBetween(r, 0, a.BackdateMaxDays))
	} else {
		start = today.AddDate(0, 0, seeded.IntBetween(r, 1, max(a.LeadMaxDays, 1)))
	}

	if start.Before(horizon.Start) {
		start = horizon.Start
	}
	if start.After(horizon.End) {
		start = horizon.End
	}
	end := start.AddDate(0, 0, length-1)
	if end.After(horizon.End) {
		end = horizon.End
	}

	// A clamped pending start may land on or before today
	if status == model.ContractPending && !start.After(today) {
		status = model.ContractActive
	}

	shiftTypes := a.ShiftTypes
	if len(shiftTypes) == 0 {
		shiftTypes = model.ShiftTypes
	}

	return Activation{
		Status:    status,
		Interval:  model.Interval{Start: start, End: end},
		ShiftType: shiftTypes[r.IntN(len(shiftTypes))],
	}
}

// SkillCatalog maps a client's industry category to the skills it requires
type SkillCatalog struct {
	// Industries maps a lower-case industry name to its required skills, in priority order.
	// An explicitly empty list means the industry has no staffable requirement.
	Industries map[string][]string

	// Default is used for industries missing from Industries
	Default []string
}

// DefaultSkillCatalog returns the built-in category mapping
func DefaultSkillCatalog() SkillCatalog {
	return SkillCatalog{
		Industries: map[string][]string{
			"construction":  {"bricklayer", "carpenter", "electrician", "welder", "general_labourer"},
			"manufacturing": {"machine_operator", "welder", "quality_inspector", "forklift_operator"},
			"logistics":     {"warehouse_operative", "forklift_operator", "driver", "picker_packer"},
			"hospitality":   {"chef", "kitchen_porter", "waiter", "housekeeper"},
			"healthcare":    {"care_assistant", "nurse", "cleaner"},
			"retail":        {"sales_assistant", "cashier", "stock_handler"},
			"facilities":    {"cleaner", "security_officer", "maintenance_technician"},
		},
		Default: []string{"general_labourer", "cleaner", "warehouse_operative"},
	}
}

// Requirements resolves the ordered requirement list for a client.
// Preferred positions that belong to the resolved set are moved to the front;
// the set itself never changes.
func (c SkillCatalog) Requirements(client model.ClientOrg) []string {
	skills, ok := c.Industries[strings.ToLower(strings.TrimSpace(client.Industry))]
	if !ok {
		skills = c.Default
	}

	required := make([]string, 0, len(skills))
	for _, s := range skills {
		if !slices.Contains(required, s) {
			required = append(required, s)
		}
	}

	ordered := make([]string, 0, len(required))
	for _, p := range client.PreferredPositions {
		if slices.Contains(required, p) && !slices.Contains(ordered, p) {
			ordered = append(ordered, p)
		}
	}
	for _, s := range required {
		if !slices.Contains(ordered, s) {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

// Sequence issues contract numbers. It is owned by a single run and passed
// explicitly rather than kept as package state.
type Sequence struct {
	prefix string
	next   int
}

func NewSequence(prefix string, start int) *Sequence {
	if start < 1 {
		start = 1
	}
	return &Sequence{prefix: prefix, next: start}
}

// Next returns the next contract number and advances the sequence
func (s *Sequence) Next() string {
	n := s.next
	s.next++
	return fmt.Sprintf("%s%06d", s.prefix, n)
}

// Peek returns the value the next call to Next will use
func (s *Sequence) Peek() int {
	return s.next
}
