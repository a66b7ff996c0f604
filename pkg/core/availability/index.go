package availability

import (
	"slices"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

// Index tracks, per worker, the date intervals already committed to a contract.
// It is not safe for concurrent mutation; allocation runs are single-threaded.
type Index struct {
	committed map[string][]model.Interval
}

func NewIndex() *Index {
	return &Index{committed: make(map[string][]model.Interval)}
}

// Reserve records an interval as committed for the worker
func (idx *Index) Reserve(workerID string, iv model.Interval) {
	idx.committed[workerID] = append(idx.committed[workerID], iv)
}

// Overlaps returns true if any interval reserved for the worker intersects iv
func (idx *Index) Overlaps(workerID string, iv model.Interval) bool {
	for _, existing := range idx.committed[workerID] {
		if existing.Overlaps(iv) {
			return true
		}
	}
	return false
}

// Intervals returns a copy of the worker's committed intervals
func (idx *Index) Intervals(workerID string) []model.Interval {
	return slices.Clone(idx.committed[workerID])
}

// SeedContracts reserves the intervals of contracts that still hold their worker
// (active, pending or paused). Completed and cancelled contracts are ignored.
func (idx *Index) SeedContracts(contracts []model.Contract) int {
	seeded := 0
	for _, c := range contracts {
		switch c.Status {
		case model.ContractActive, model.ContractPending, model.ContractPaused:
			idx.Reserve(c.WorkerID, c.Interval)
			seeded++
		}
	}
	return seeded
}
