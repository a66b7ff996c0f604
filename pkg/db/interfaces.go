package db

import (
	"context"
	"errors"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// WorkerFilter narrows a worker listing. Zero values match everything.
type WorkerFilter struct {
	Status model.WorkerStatus
}

// Matches reports whether the worker passes the filter
func (f WorkerFilter) Matches(w model.Worker) bool {
	return f.Status == "" || w.Status == f.Status
}

// Actor is a user that generated records are attributed to
type Actor struct {
	ID   string
	Role string
}

// WorkerSource lists workers
type WorkerSource interface {
	ListWorkers(ctx context.Context, filter WorkerFilter) ([]model.Worker, error)
}

// ClientSource lists client organisations that currently accept placements
type ClientSource interface {
	ListActiveClients(ctx context.Context) ([]model.ClientOrg, error)
}

// ActorSource resolves the actor stamped as creator on generated records
type ActorSource interface {
	GetReferenceActor(ctx context.Context, role string) (Actor, error)
}

// ContractSource lists contracts that were not produced by a generation run.
// They survive replace-all saves and count as existing commitments.
type ContractSource interface {
	ListStandingContracts(ctx context.Context) ([]model.Contract, error)
}

// Sink persists a run's output. Both calls replace everything written by the previous run
// and leave standing contracts untouched.
type Sink interface {
	SaveContracts(ctx context.Context, contracts []model.Contract) error
	SaveShiftRecords(ctx context.Context, records []model.ShiftRecord) error
}

// WorkerStatusUpdater moves a worker to a new lifecycle status
type WorkerStatusUpdater interface {
	UpdateWorkerStatus(ctx context.Context, workerID string, status model.WorkerStatus, reason string) error
}

// Database defines the interface for all database operations.
// Both the postgres.DB and sqlite.DB stores implement this interface.
type Database interface {
	WorkerSource
	ClientSource
	ActorSource
	ContractSource
	Sink
	WorkerStatusUpdater
	ListContracts(ctx context.Context) ([]model.Contract, error)
	ListShiftRecords(ctx context.Context, contractID string) ([]model.ShiftRecord, error)
	Close()
}
