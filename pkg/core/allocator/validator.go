package allocator

import (
	"fmt"
	"sort"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

// ContractValidationError represents an invariant violation found in a set of contracts
type ContractValidationError struct {
	ContractID  string
	WorkerID    string
	Rule        string
	Description string
}

func (e ContractValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Description)
}

const (
	RuleNoOverlap      = "NoOverlappingActiveContracts"
	RuleValidInterval  = "ValidInterval"
	RuleUniqueContract = "UniqueContractNumber"
)

// ValidateContracts checks the core contract invariants.
// Returns a slice of validation errors (empty if all valid).
func ValidateContracts(contracts []model.Contract) []ContractValidationError {
	errors := []ContractValidationError{}

	seenNumbers := make(map[string]string)
	activeByWorker := make(map[string][]model.Contract)

	for _, c := range contracts {
		if c.Interval.End.Before(c.Interval.Start) {
			errors = append(errors, ContractValidationError{
				ContractID:  c.ID,
				WorkerID:    c.WorkerID,
				Rule:        RuleValidInterval,
				Description: fmt.Sprintf("contract %s ends before it starts %s", c.Number, c.Interval),
			})
		}

		if other, ok := seenNumbers[c.Number]; ok && c.Number != "" {
			errors = append(errors, ContractValidationError{
				ContractID:  c.ID,
				WorkerID:    c.WorkerID,
				Rule:        RuleUniqueContract,
				Description: fmt.Sprintf("contract number %s is used by %s and %s", c.Number, other, c.ID),
			})
		}
		seenNumbers[c.Number] = c.ID

		if c.Status == model.ContractActive {
			activeByWorker[c.WorkerID] = append(activeByWorker[c.WorkerID], c)
		}
	}

	workerIDs := make([]string, 0, len(activeByWorker))
	for id := range activeByWorker {
		workerIDs = append(workerIDs, id)
	}
	sort.Strings(workerIDs)

	for _, workerID := range workerIDs {
		active := activeByWorker[workerID]
		for i := 0; i < len(active); i++ {
			for j := i + 1; j < len(active); j++ {
				if active[i].Interval.Overlaps(active[j].Interval) {
					errors = append(errors, ContractValidationError{
						ContractID: active[j].ID,
						WorkerID:   workerID,
						Rule:       RuleNoOverlap,
						Description: fmt.Sprintf("worker %s has overlapping active contracts %s %s and %s %s",
							workerID, active[i].Number, active[i].Interval, active[j].Number, active[j].Interval),
					})
				}
			}
		}
	}

	return errors
}
