package services

import (
	"fmt"
	"io"
	"sort"

	"github.com/jakechorley/staffing-scheduler/pkg/core/allocator"
	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

// Summary is the per-category report of a run. Non-fatal conditions surface here.
type Summary struct {
	WorkersConsidered int `json:"workersConsidered"`
	ClientsConsidered int `json:"clientsConsidered"`
	ClientsProcessed  int `json:"clientsProcessed"`
	InactiveClients   int `json:"inactiveClients"`

	SkippedNoRequirements int `json:"skippedNoRequirements"`
	SkippedNoMatches      int `json:"skippedNoMatches"`

	ContractsByStatus map[model.ContractStatus]int `json:"contractsByStatus"`
	ShiftsByStatus    map[model.ShiftStatus]int    `json:"shiftsByStatus"`

	LeaveDaysByCategory   map[model.LeaveCategory]int `json:"leaveDaysByCategory"`
	LeavePeriodsTruncated int                         `json:"leavePeriodsTruncated"`
	LeavePeriodsDropped   int                         `json:"leavePeriodsDropped"`
	WeekendDaysScheduled  int                         `json:"weekendDaysScheduled"`

	// StatusUpdates is filled only when worker statuses were applied
	StatusUpdates map[model.WorkerStatus]int `json:"statusUpdates,omitempty"`
}

func summarize(workers, clients int, outcome *allocator.AllocationOutcome, schedules []contractSchedule) Summary {
	s := Summary{
		WorkersConsidered:     workers,
		ClientsConsidered:     clients,
		ClientsProcessed:      outcome.ClientsProcessed,
		InactiveClients:       outcome.InactiveClients,
		SkippedNoRequirements: outcome.CountSkipped(allocator.SkipNoRequirements),
		SkippedNoMatches:      outcome.CountSkipped(allocator.SkipNoMatches),
		ContractsByStatus:     outcome.CountByStatus(),
		ShiftsByStatus:        make(map[model.ShiftStatus]int),
		LeaveDaysByCategory:   make(map[model.LeaveCategory]int),
	}

	for _, cs := range schedules {
		for _, r := range cs.records {
			s.ShiftsByStatus[r.Status]++
		}
		if cs.leave != nil {
			for category, n := range cs.leave.CountByCategory() {
				s.LeaveDaysByCategory[category] += n
			}
			s.LeavePeriodsTruncated += cs.leave.Truncated
			s.LeavePeriodsDropped += cs.leave.Dropped
		}
		s.WeekendDaysScheduled += cs.weekendDays
	}

	return s
}

// Write prints the summary as an indented report
func (s Summary) Write(w io.Writer) {
	fmt.Fprintf(w, "Workers considered:      %d\n", s.WorkersConsidered)
	fmt.Fprintf(w, "Clients considered:      %d\n", s.ClientsConsidered)
	fmt.Fprintf(w, "Clients processed:       %d\n", s.ClientsProcessed)
	fmt.Fprintf(w, "Skipped (no skills):     %d\n", s.SkippedNoRequirements)
	fmt.Fprintf(w, "Skipped (no matches):    %d\n", s.SkippedNoMatches)

	fmt.Fprintln(w, "Contracts:")
	writeCounts(w, s.ContractsByStatus)
	fmt.Fprintln(w, "Shift records:")
	writeCounts(w, s.ShiftsByStatus)
	fmt.Fprintln(w, "Leave days:")
	writeCounts(w, s.LeaveDaysByCategory)

	fmt.Fprintf(w, "Leave periods truncated: %d\n", s.LeavePeriodsTruncated)
	fmt.Fprintf(w, "Leave periods dropped:   %d\n", s.LeavePeriodsDropped)
	fmt.Fprintf(w, "Weekend days scheduled:  %d\n", s.WeekendDaysScheduled)

	if s.StatusUpdates != nil {
		fmt.Fprintln(w, "Worker status updates:")
		writeCounts(w, s.StatusUpdates)
	}
}

func writeCounts[K ~string](w io.Writer, counts map[K]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	if len(keys) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, k := range keys {
		fmt.Fprintf(w, "  %-14s %d\n", k, counts[K(k)])
	}
}
