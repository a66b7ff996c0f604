package allocator

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jakechorley/staffing-scheduler/pkg/core/availability"
	"github.com/jakechorley/staffing-scheduler/pkg/core/matching"
	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

// contractNamespace scopes the name-based contract identifiers
var contractNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("staffing-scheduler/contract"))

// Allocator manages a single allocation run
type Allocator struct {
	config   AllocationConfig
	index    *availability.Index
	sequence *Sequence
	created  int
}

// Allocate matches workers to active clients and creates contracts.
//
// Clients are processed strictly in ascending ID order. Every contract is
// reserved in the availability index as soon as it is created, so later clients
// in the same run cannot book a worker for overlapping dates. An empty outcome (no active
// clients, nobody eligible) is not an error.
func Allocate(config AllocationConfig) (*AllocationOutcome, error) {
	if config.CreatedBy == "" {
		return nil, ErrMissingActor
	}
	if config.Demand == nil {
		return nil, fmt.Errorf("allocation config has no demand policy")
	}
	if config.Activation == nil {
		return nil, fmt.Errorf("allocation config has no activation policy")
	}

	allocator := &Allocator{
		config:   config,
		index:    config.Index,
		sequence: config.Sequence,
	}
	if allocator.index == nil {
		allocator.index = availability.NewIndex()
	}
	if allocator.sequence == nil {
		allocator.sequence = NewSequence("CT-", 1)
	}

	outcome := &AllocationOutcome{
		Contracts:        []model.Contract{},
		SkippedClients:   []SkippedClient{},
		ValidationErrors: []ContractValidationError{},
	}

	// Main allocation loop
	for _, client := range sortedClients(config.Clients) {
		if !client.Active {
			outcome.InactiveClients++
			continue
		}
		outcome.ClientsProcessed++

		contracts, skip, err := allocator.allocateClient(client)
		if err != nil {
			return nil, err
		}
		if skip != "" {
			outcome.SkippedClients = append(outcome.SkippedClients, SkippedClient{
				ClientID: client.ID,
				Industry: client.Industry,
				Reason:   skip,
			})
			continue
		}
		outcome.Contracts = append(outcome.Contracts, contracts...)
	}

	outcome.Sequence = allocator.sequence
	outcome.Index = allocator.index
	outcome.ValidationErrors = ValidateContracts(outcome.Contracts)

	return outcome, nil
}

// allocateClient staffs one client. Each slot draws its activation first and is
// matched against that interval, so a worker committed elsewhere stays eligible
// for non-overlapping dates. A worker fills at most one slot per client.
// Returns a skip reason instead of contracts when the client cannot be staffed.
func (a *Allocator) allocateClient(client model.ClientOrg) ([]model.Contract, SkipReason, error) {
	required := a.config.Catalog.Requirements(client)
	if len(required) == 0 {
		return nil, SkipNoRequirements, nil
	}

	skilled := matching.Match(required, a.config.Workers, nil, a.config.Horizon)
	if len(skilled) == 0 {
		return nil, SkipNoMatches, nil
	}

	desired := clampDemand(a.config.Demand.Desired(client, len(skilled)), len(skilled), a.config.MaxPerClient)

	contracts := make([]model.Contract, 0, desired)
	placed := make(map[string]bool, desired)
	for range desired {
		activation := a.config.Activation.Activate(a.created, client, a.config.Horizon)

		candidate, ok := firstUnplaced(matching.Match(required, a.config.Workers, a.index, activation.Interval), placed)
		if !ok {
			// the same position draws the same interval, so later slots cannot do better
			break
		}

		contract, err := a.createContract(client, candidate, activation)
		if err != nil {
			return nil, "", err
		}
		placed[candidate.Worker.ID] = true
		contracts = append(contracts, contract)
	}

	if len(contracts) == 0 {
		return nil, SkipNoMatches, nil
	}
	return contracts, "", nil
}

func firstUnplaced(candidates []matching.RankedCandidate, placed map[string]bool) (matching.RankedCandidate, bool) {
	for _, c := range candidates {
		if !placed[c.Worker.ID] {
			return c, true
		}
	}
	return matching.RankedCandidate{}, false
}

// createContract builds the contract for a candidate and reserves its interval
func (a *Allocator) createContract(client model.ClientOrg, candidate matching.RankedCandidate, activation Activation) (model.Contract, error) {
	worker := candidate.Worker
	if a.index.Overlaps(worker.ID, activation.Interval) {
		return model.Contract{}, fmt.Errorf("%w: worker %s, client %s, interval %s",
			ErrOverlappingContract, worker.ID, client.ID, activation.Interval)
	}
	a.created++

	number := a.sequence.Next()
	contract := model.Contract{
		ID:             contractID(a.config.Seed, number),
		Number:         number,
		WorkerID:       worker.ID,
		ClientID:       client.ID,
		Position:       candidate.PrimarySkill(),
		Interval:       activation.Interval,
		Status:         activation.Status,
		HourlyRate:     worker.HourlyRate,
		MaxWeeklyHours: a.config.MaxWeeklyHours,
		ShiftType:      activation.ShiftType,
		CreatedBy:      a.config.CreatedBy,
	}

	a.index.Reserve(worker.ID, contract.Interval)

	return contract, nil
}

// clampDemand bounds the desired count to [1, min(maxPerClient, matchCount)].
// maxPerClient <= 0 leaves the upper bound at matchCount.
func clampDemand(desired, matchCount, maxPerClient int) int {
	if desired < 1 {
		desired = 1
	}
	if maxPerClient > 0 {
		desired = min(desired, maxPerClient)
	}
	return min(desired, matchCount)
}

// sortedClients returns a copy of the clients ordered by ascending ID
func sortedClients(clients []model.ClientOrg) []model.ClientOrg {
	sorted := make([]model.ClientOrg, len(clients))
	copy(sorted, clients)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

func contractID(seed int64, number string) string {
	return uuid.NewSHA1(contractNamespace, []byte(fmt.Sprintf("%d/%s", seed, number))).String()
}
