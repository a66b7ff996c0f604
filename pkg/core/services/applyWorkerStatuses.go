package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
	"github.com/jakechorley/staffing-scheduler/pkg/db"
)

// StatusChange is a worker status transition derived from a run's output
type StatusChange struct {
	WorkerID string
	Status   model.WorkerStatus
	Reason   string
}

// PlanWorkerStatuses derives the status of every worker touched by the run on onDate.
// A leave record on onDate wins over the covering contract. Changes are ordered by worker ID.
func PlanWorkerStatuses(contracts []model.Contract, shifts []model.ShiftRecord, onDate time.Time) []StatusChange {
	onDate = model.NormalizeDate(onDate)
	changes := make(map[string]StatusChange)

	for _, c := range contracts {
		if c.Status != model.ContractActive || !c.Interval.Contains(onDate) {
			continue
		}
		changes[c.WorkerID] = StatusChange{
			WorkerID: c.WorkerID,
			Status:   model.WorkerOnContract,
			Reason:   fmt.Sprintf("Contract %s", c.Number),
		}
	}

	for _, r := range shifts {
		if r.Status == model.ShiftWorking || !r.Date.Equal(onDate) {
			continue
		}
		changes[r.WorkerID] = StatusChange{
			WorkerID: r.WorkerID,
			Status:   leaveWorkerStatus(r.Status),
			Reason:   r.Note,
		}
	}

	planned := make([]StatusChange, 0, len(changes))
	for _, change := range changes {
		planned = append(planned, change)
	}
	sort.Slice(planned, func(i, j int) bool {
		return planned[i].WorkerID < planned[j].WorkerID
	})
	return planned
}

func leaveWorkerStatus(status model.ShiftStatus) model.WorkerStatus {
	switch status {
	case model.ShiftSickLeave:
		return model.LeaveSick.WorkerStatus()
	case model.ShiftVacation:
		return model.LeaveVacation.WorkerStatus()
	case model.ShiftClientBreak:
		return model.LeaveClientBreak.WorkerStatus()
	}
	return model.WorkerOnContract
}

// ApplyWorkerStatuses moves workers with an active contract covering onDate to
// on_contract, and workers on leave that day to the matching leave status.
// Returns the number of updates per status.
func ApplyWorkerStatuses(
	ctx context.Context,
	store db.WorkerStatusUpdater,
	contracts []model.Contract,
	shifts []model.ShiftRecord,
	onDate time.Time,
	logger *zap.Logger,
) (map[model.WorkerStatus]int, error) {
	changes := PlanWorkerStatuses(contracts, shifts, onDate)
	logger.Debug("Applying worker statuses",
		zap.String("date", model.DateKey(onDate)),
		zap.Int("changes", len(changes)))

	counts := make(map[model.WorkerStatus]int)
	for _, change := range changes {
		if err := store.UpdateWorkerStatus(ctx, change.WorkerID, change.Status, change.Reason); err != nil {
			return nil, fmt.Errorf("failed to update worker %s to %s: %w", change.WorkerID, change.Status, err)
		}
		counts[change.Status]++
		logger.Debug("Updated worker status",
			zap.String("worker_id", change.WorkerID),
			zap.String("status", string(change.Status)),
			zap.String("reason", change.Reason))
	}

	logger.Info("Worker statuses applied", zap.Int("updated", len(changes)))
	return counts, nil
}
