package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/staffing-scheduler/internal/config"
	"github.com/jakechorley/staffing-scheduler/pkg/core/allocator"
	"github.com/jakechorley/staffing-scheduler/pkg/core/availability"
	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
	"github.com/jakechorley/staffing-scheduler/pkg/core/schedule"
	"github.com/jakechorley/staffing-scheduler/pkg/core/timeoff"
	"github.com/jakechorley/staffing-scheduler/pkg/core/weekend"
	"github.com/jakechorley/staffing-scheduler/pkg/db"
)

// ErrMissingSource is returned when the run has no store to read workers and clients from
var ErrMissingSource = errors.New("missing worker or client source")

// RunStore defines the database operations needed for a generation run
type RunStore interface {
	db.WorkerSource
	db.ClientSource
	db.ActorSource
	db.ContractSource
	db.Sink
	db.WorkerStatusUpdater
}

// RunOptions are the per-invocation switches of a generation run
type RunOptions struct {
	// RunDate is "today" for activation and status updates. Defaults to the current date.
	RunDate time.Time

	// Seed overrides the configured seed when set
	Seed *int64

	// DryRun skips every write
	DryRun bool

	// SkipStatusUpdate leaves worker statuses untouched after saving
	SkipStatusUpdate bool
}

// RunResult contains the outcome of a generation run
type RunResult struct {
	Seed    int64
	RunDate time.Time
	Horizon model.Interval

	Contracts      []model.Contract
	Shifts         []model.ShiftRecord
	SkippedClients []allocator.SkippedClient

	Success                bool
	ContractValidationErrs []allocator.ContractValidationError
	ShiftValidationErrs    []schedule.ShiftValidationError

	Saved   bool
	Summary Summary
}

// contractSchedule is the generated output for one contract
type contractSchedule struct {
	records     []model.ShiftRecord
	leave       *timeoff.Result
	weekendDays int
}

// GenerateSchedules allocates workers to active clients and lays out every
// resulting contract's shift records. Unless DryRun is set, the run replaces the
// previously generated contracts and records in the store.
func GenerateSchedules(
	ctx context.Context,
	store RunStore,
	cfg *config.Config,
	logger *zap.Logger,
	opts RunOptions,
) (*RunResult, error) {
	if store == nil {
		return nil, ErrMissingSource
	}

	runDate := model.NormalizeDate(opts.RunDate)
	if opts.RunDate.IsZero() {
		runDate = model.NormalizeDate(time.Now())
	}
	seed := cfg.Seed
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	horizon := cfg.Horizon(runDate)

	logger.Debug("Starting generateSchedules",
		zap.String("run_date", model.DateKey(runDate)),
		zap.Int64("seed", seed),
		zap.Stringer("horizon", horizon),
		zap.Bool("dry_run", opts.DryRun))

	// Step 1: Reference actor
	actor, err := store.GetReferenceActor(ctx, cfg.ActorRole)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", allocator.ErrMissingActor, err)
		}
		return nil, fmt.Errorf("failed to fetch reference actor: %w", err)
	}
	logger.Debug("Using reference actor", zap.String("id", actor.ID), zap.String("role", actor.Role))

	// Step 2: Sources
	workers, err := store.ListWorkers(ctx, db.WorkerFilter{Status: model.WorkerAvailable})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workers: %w", err)
	}
	clients, err := store.ListActiveClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clients: %w", err)
	}
	standing, err := store.ListStandingContracts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch standing contracts: %w", err)
	}
	logger.Info("Loaded sources",
		zap.Int("workers", len(workers)),
		zap.Int("clients", len(clients)),
		zap.Int("standing_contracts", len(standing)))

	if len(clients) == 0 {
		logger.Warn("No active clients, nothing to allocate")
	}
	if len(workers) == 0 {
		logger.Warn("No available workers, nothing to allocate")
	}

	// Step 3: Allocation
	index := availability.NewIndex()
	commitments := index.SeedContracts(standing)
	logger.Debug("Seeded availability index", zap.Int("commitments", commitments))

	outcome, err := allocator.Allocate(allocator.AllocationConfig{
		Clients:        clients,
		Workers:        workers,
		Index:          index,
		Horizon:        horizon,
		Catalog:        cfg.SkillCatalog(),
		Demand:         cfg.DemandPolicy(seed),
		Activation:     cfg.ActivationPolicy(seed, runDate),
		Sequence:       allocator.NewSequence(cfg.Allocation.ContractNumberPrefix, cfg.Allocation.ContractNumberStart),
		MaxPerClient:   cfg.Allocation.MaxPerClient,
		MaxWeeklyHours: cfg.Allocation.MaxWeeklyHours,
		CreatedBy:      actor.ID,
		Seed:           seed,
	})
	if err != nil {
		return nil, fmt.Errorf("allocation failed: %w", err)
	}

	for _, skipped := range outcome.SkippedClients {
		logger.Info("Skipped client",
			zap.String("client_id", skipped.ClientID),
			zap.String("industry", skipped.Industry),
			zap.String("reason", string(skipped.Reason)))
	}
	logger.Info("Allocation complete",
		zap.Int("contracts", len(outcome.Contracts)),
		zap.Int("skipped_clients", len(outcome.SkippedClients)))

	// Step 4: Per-contract schedules
	schedules, err := generateContractSchedules(ctx, outcome.Contracts, workers, horizon, cfg, seed, logger)
	if err != nil {
		return nil, err
	}

	shifts := make([]model.ShiftRecord, 0)
	for _, s := range schedules {
		shifts = append(shifts, s.records...)
	}

	// Step 5: Validation
	contractErrs := allocator.ValidateContracts(slices.Concat(outcome.Contracts, activeStanding(standing)))
	shiftErrs := schedule.ValidateShiftRecords(shifts)
	success := len(contractErrs) == 0 && len(shiftErrs) == 0

	for _, verr := range contractErrs {
		logger.Warn("Contract validation error",
			zap.String("rule", verr.Rule),
			zap.String("contract_id", verr.ContractID),
			zap.String("worker_id", verr.WorkerID),
			zap.String("description", verr.Description))
	}
	for _, verr := range shiftErrs {
		logger.Warn("Shift validation error",
			zap.String("rule", verr.Rule),
			zap.String("record_id", verr.RecordID),
			zap.String("worker_id", verr.WorkerID),
			zap.String("description", verr.Description))
	}

	result := &RunResult{
		Seed:                   seed,
		RunDate:                runDate,
		Horizon:                horizon,
		Contracts:              outcome.Contracts,
		Shifts:                 shifts,
		SkippedClients:         outcome.SkippedClients,
		Success:                success,
		ContractValidationErrs: contractErrs,
		ShiftValidationErrs:    shiftErrs,
	}
	result.Summary = summarize(len(workers), len(clients), outcome, schedules)

	if !success {
		logger.Warn("Validation failed, nothing saved")
		return result, nil
	}
	if opts.DryRun {
		logger.Info("Dry run - contracts and shift records not saved")
		return result, nil
	}

	// Step 6: Replace previous generation
	logger.Debug("Saving contracts", zap.Int("count", len(outcome.Contracts)))
	if err := store.SaveContracts(ctx, outcome.Contracts); err != nil {
		return nil, fmt.Errorf("failed to save contracts: %w", err)
	}
	logger.Debug("Saving shift records", zap.Int("count", len(shifts)))
	if err := store.SaveShiftRecords(ctx, shifts); err != nil {
		return nil, fmt.Errorf("failed to save shift records: %w", err)
	}
	result.Saved = true
	logger.Info("Saved run output",
		zap.Int("contracts", len(outcome.Contracts)),
		zap.Int("shift_records", len(shifts)))

	// Step 7: Worker statuses
	if !opts.SkipStatusUpdate {
		updates, err := ApplyWorkerStatuses(ctx, store, outcome.Contracts, shifts, runDate, logger)
		if err != nil {
			return nil, err
		}
		result.Summary.StatusUpdates = updates
	}

	return result, nil
}

// generateContractSchedules runs the leave, weekend and shift layout for every
// contract concurrently. Output order follows the contract order.
func generateContractSchedules(
	ctx context.Context,
	contracts []model.Contract,
	workers []model.Worker,
	horizon model.Interval,
	cfg *config.Config,
	seed int64,
	logger *zap.Logger,
) ([]contractSchedule, error) {
	workersByID := make(map[string]model.Worker, len(workers))
	for _, w := range workers {
		workersByID[w.ID] = w
	}

	leavePolicy := cfg.LeavePolicy(seed)
	weekendPolicy := cfg.WeekendPolicy(seed)
	patterns := cfg.PatternTable(seed)

	results := make([]contractSchedule, len(contracts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Generation.Parallelism, 1))

	for i, contract := range contracts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			window, ok := contract.Interval.Intersect(horizon)
			if !ok {
				return nil
			}

			leave := timeoff.Plan(contract, window, leavePolicy)

			weekendDays, err := weekend.Plan(contract, window, leave.Days, weekendPolicy)
			if err != nil {
				return fmt.Errorf("failed to plan weekends for contract %s: %w", contract.Number, err)
			}

			in := schedule.Input{
				Contract:    contract,
				Horizon:     window,
				OffDays:     leave.Days,
				WeekendDays: weekendDays,
				Patterns:    patterns,
			}
			if w, ok := workersByID[contract.WorkerID]; ok {
				in.Availability = &w.Availability
			}

			records, err := schedule.Generate(in)
			if err != nil {
				return fmt.Errorf("failed to generate schedule for contract %s: %w", contract.Number, err)
			}

			results[i] = contractSchedule{records: records, leave: leave, weekendDays: len(weekendDays)}

			logger.Debug("Generated contract schedule",
				zap.String("contract", contract.Number),
				zap.Int("records", len(records)),
				zap.Int("leave_days", len(leave.Days)),
				zap.Int("weekend_days", len(weekendDays)),
				zap.Int("leave_truncated", leave.Truncated),
				zap.Int("leave_dropped", leave.Dropped))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// activeStanding returns the standing contracts that take part in the overlap check
func activeStanding(contracts []model.Contract) []model.Contract {
	active := make([]model.Contract, 0, len(contracts))
	for _, c := range contracts {
		if c.Status == model.ContractActive {
			active = append(active, c)
		}
	}
	return active
}
