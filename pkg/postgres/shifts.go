package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

var shiftColumns = []string{
	"id", "worker_id", "client_id", "contract_id", "shift_date", "start_time", "end_time",
	"crosses_midnight", "status", "note", "weekly_hours", "created_by",
}

// ListShiftRecords retrieves the records of one contract in date order
func (d *DB) ListShiftRecords(ctx context.Context, contractID string) ([]model.ShiftRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, worker_id, client_id, contract_id, shift_date, start_time, end_time,
			crosses_midnight, status, note, weekly_hours, created_by
		FROM shift_record
		WHERE contract_id = $1
		ORDER BY shift_date
	`, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift records: %w", err)
	}
	defer rows.Close()

	records := []model.ShiftRecord{}
	for rows.Next() {
		var r model.ShiftRecord
		var date time.Time
		var start, end pgtype.Time
		var status string
		if err := rows.Scan(&r.ID, &r.WorkerID, &r.ClientID, &r.ContractID, &date, &start, &end,
			&r.CrossesMidnight, &status, &r.Note, &r.WeeklyHours, &r.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan shift record: %w", err)
		}

		r.Date = model.NormalizeDate(date)
		r.Start = fromPgTime(start)
		r.End = fromPgTime(end)
		r.Status = model.ShiftStatus(status)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift records: %w", err)
	}

	return records, nil
}

// SaveShiftRecords replaces the records of all generated contracts with the given set
func (d *DB) SaveShiftRecords(ctx context.Context, records []model.ShiftRecord) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM shift_record
		WHERE contract_id IN (SELECT id FROM contract WHERE generated)
	`); err != nil {
		return fmt.Errorf("failed to clear generated shift records: %w", err)
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"shift_record"}, shiftColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{
				r.ID, r.WorkerID, r.ClientID, r.ContractID, r.Date, toPgTime(r.Start), toPgTime(r.End),
				r.CrossesMidnight, string(r.Status), r.Note, r.WeeklyHours, r.CreatedBy,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to copy shift records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	d.logger.Debug("Saved shift records", zap.Int64("rows", copied))
	return nil
}

func toPgTime(t model.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t.Minutes()) * int64(time.Minute/time.Microsecond), Valid: true}
}

func fromPgTime(t pgtype.Time) model.TimeOfDay {
	minutes := int(t.Microseconds / int64(time.Minute/time.Microsecond))
	return model.TimeOfDay{Hour: minutes / 60, Minute: minutes % 60}
}
