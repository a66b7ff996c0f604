package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

const contractColumns = `id, number, worker_id, client_id, position, start_date, end_date, status,
	hourly_rate::text, max_weekly_hours, shift_type, created_by`

// ListContracts retrieves every contract, generated and standing
func (d *DB) ListContracts(ctx context.Context) ([]model.Contract, error) {
	return d.queryContracts(ctx, `SELECT `+contractColumns+` FROM contract ORDER BY number`)
}

// ListStandingContracts retrieves contracts that were not written by a generation run
func (d *DB) ListStandingContracts(ctx context.Context) ([]model.Contract, error) {
	return d.queryContracts(ctx, `SELECT `+contractColumns+` FROM contract WHERE NOT generated ORDER BY number`)
}

func (d *DB) queryContracts(ctx context.Context, query string) ([]model.Contract, error) {
	rows, err := d.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer rows.Close()

	contracts := []model.Contract{}
	for rows.Next() {
		var c model.Contract
		var start, end time.Time
		var status, rate, shiftType string
		if err := rows.Scan(&c.ID, &c.Number, &c.WorkerID, &c.ClientID, &c.Position, &start, &end, &status,
			&rate, &c.MaxWeeklyHours, &shiftType, &c.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}

		c.Interval = model.Interval{Start: model.NormalizeDate(start), End: model.NormalizeDate(end)}
		c.Status = model.ContractStatus(status)
		c.ShiftType = model.ShiftType(shiftType)
		c.HourlyRate, err = decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("invalid hourly rate %q for contract %s: %w", rate, c.Number, err)
		}

		contracts = append(contracts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contracts: %w", err)
	}

	return contracts, nil
}

// SaveContracts replaces all generated contracts with the given set.
// Shift records of replaced contracts are removed by cascade.
func (d *DB) SaveContracts(ctx context.Context, contracts []model.Contract) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM contract WHERE generated`)
	if err != nil {
		return fmt.Errorf("failed to clear generated contracts: %w", err)
	}
	d.logger.Debug("Cleared generated contracts", zap.Int64("rows", tag.RowsAffected()))

	batch := &pgx.Batch{}
	for _, c := range contracts {
		batch.Queue(`
			INSERT INTO contract (id, number, worker_id, client_id, position, start_date, end_date, status,
				hourly_rate, max_weekly_hours, shift_type, created_by, generated)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric, $10, $11, $12, TRUE)
		`, c.ID, c.Number, c.WorkerID, c.ClientID, c.Position, c.Interval.Start, c.Interval.End, string(c.Status),
			c.HourlyRate.String(), c.MaxWeeklyHours, string(c.ShiftType), c.CreatedBy)
	}

	results := tx.SendBatch(ctx, batch)
	for _, c := range contracts {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert contract %s: %w", c.Number, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to insert contracts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
