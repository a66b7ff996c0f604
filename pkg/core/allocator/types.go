package allocator

import (
	"errors"

	"github.com/jakechorley/staffing-scheduler/pkg/core/availability"
	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

var (
	// ErrMissingActor is returned when no actor is available to stamp generated contracts
	ErrMissingActor = errors.New("no reference actor to attribute contracts to")

	// ErrOverlappingContract signals a broken single-active-contract invariant.
	// It indicates a programming error, never bad input.
	ErrOverlappingContract = errors.New("contract interval overlaps an existing commitment")
)

// SkipReason explains why a client received no contracts
type SkipReason string

const (
	SkipNoRequirements SkipReason = "no_requirements"
	SkipNoMatches      SkipReason = "no_matches"
)

// SkippedClient records a client that was processed but not staffed
type SkippedClient struct {
	ClientID string
	Industry string
	Reason   SkipReason
}

// AllocationConfig contains everything a single allocation run needs
type AllocationConfig struct {
	// Clients to staff. Inactive clients are ignored.
	Clients []model.ClientOrg

	// Workers is the currently-available pool. It is never mutated.
	Workers []model.Worker

	// Index holds commitments made before this run. A fresh index is used when nil.
	Index *availability.Index

	// Horizon bounds every contract interval produced by the run
	Horizon model.Interval

	Catalog    SkillCatalog
	Demand     DemandPolicy
	Activation ActivationPolicy

	// MaxPerClient caps the contracts created for one client. Zero means no cap.
	MaxPerClient int

	// Sequence issues contract numbers. A fresh sequence is used when nil.
	Sequence *Sequence

	// MaxWeeklyHours is copied onto each contract
	MaxWeeklyHours int

	// CreatedBy is the actor stamped on generated contracts (required)
	CreatedBy string

	// Seed makes contract identifiers reproducible across runs
	Seed int64
}

// AllocationOutcome represents the result of an allocation run
type AllocationOutcome struct {
	// Contracts created by the run, in creation order
	Contracts []model.Contract

	// ClientsProcessed counts active clients that were considered
	ClientsProcessed int

	// InactiveClients counts clients ignored because they are not active
	InactiveClients int

	// SkippedClients lists active clients that received no contracts
	SkippedClients []SkippedClient

	// Sequence is positioned after the last issued contract number
	Sequence *Sequence

	// Index reflects every reservation made during the run
	Index *availability.Index

	// ValidationErrors from the post-run invariant check (empty on success)
	ValidationErrors []ContractValidationError
}

// CountByStatus returns the number of contracts per lifecycle status
func (o *AllocationOutcome) CountByStatus() map[model.ContractStatus]int {
	counts := make(map[model.ContractStatus]int)
	for _, c := range o.Contracts {
		counts[c.Status]++
	}
	return counts
}

// CountSkipped returns the number of skipped clients with the given reason
func (o *AllocationOutcome) CountSkipped(reason SkipReason) int {
	n := 0
	for _, s := range o.SkippedClients {
		if s.Reason == reason {
			n++
		}
	}
	return n
}
