package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
	"github.com/jakechorley/staffing-scheduler/pkg/db"
)

// ListWorkers retrieves workers matching the filter, ordered by id
func (d *DB) ListWorkers(ctx context.Context, filter db.WorkerFilter) ([]model.Worker, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, first_name, last_name, skills, hourly_rate::text, status, status_reason, availability
		FROM worker
		WHERE $1::text = '' OR status = $1
		ORDER BY id
	`, string(filter.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	workers := []model.Worker{}
	for rows.Next() {
		var w model.Worker
		var rate, status string
		var availability []model.DayAvailability
		if err := rows.Scan(&w.ID, &w.FirstName, &w.LastName, &w.Skills, &rate, &status, &w.StatusReason, &availability); err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}

		w.HourlyRate, err = decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("invalid hourly rate %q for worker %s: %w", rate, w.ID, err)
		}
		w.Status = model.WorkerStatus(status)
		copy(w.Availability[:], availability)

		workers = append(workers, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workers: %w", err)
	}

	return workers, nil
}

// UpdateWorkerStatus sets a worker's lifecycle status and reason
func (d *DB) UpdateWorkerStatus(ctx context.Context, workerID string, status model.WorkerStatus, reason string) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE worker SET status = $2, status_reason = $3, updated_at = NOW() WHERE id = $1
	`, workerID, string(status), reason)
	if err != nil {
		return fmt.Errorf("failed to update status of worker %s: %w", workerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("worker %s: %w", workerID, db.ErrNotFound)
	}
	return nil
}

// ListActiveClients retrieves client organisations flagged active, ordered by id
func (d *DB) ListActiveClients(ctx context.Context) ([]model.ClientOrg, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, active, industry, preferred_positions
		FROM client_org
		WHERE active
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	clients := []model.ClientOrg{}
	for rows.Next() {
		var c model.ClientOrg
		if err := rows.Scan(&c.ID, &c.Name, &c.Active, &c.Industry, &c.PreferredPositions); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}

// GetReferenceActor returns the first user holding role, or db.ErrNotFound
func (d *DB) GetReferenceActor(ctx context.Context, role string) (db.Actor, error) {
	var actor db.Actor
	err := d.pool.QueryRow(ctx, `
		SELECT id, role FROM app_user WHERE role = $1 ORDER BY created_at, id LIMIT 1
	`, role).Scan(&actor.ID, &actor.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.Actor{}, fmt.Errorf("no user with role %q: %w", role, db.ErrNotFound)
	}
	if err != nil {
		return db.Actor{}, fmt.Errorf("failed to query reference actor: %w", err)
	}
	return actor, nil
}
