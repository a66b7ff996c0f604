package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
	"github.com/jakechorley/staffing-scheduler/pkg/db"
)

// ListWorkers returns the workers matching filter
func ListWorkers(ctx context.Context, store db.WorkerSource, filter db.WorkerFilter, logger *zap.Logger) ([]model.Worker, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("unknown worker status %q", filter.Status)
	}

	logger.Debug("Listing workers", zap.String("status", string(filter.Status)))
	workers, err := store.ListWorkers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	logger.Debug("Found workers", zap.Int("count", len(workers)))

	return workers, nil
}
