package sqlite

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
	"github.com/jakechorley/staffing-scheduler/pkg/db"
)

// DB implements db.Database on a local SQLite file through gorm
type DB struct {
	gorm   *gorm.DB
	logger *zap.Logger
}

// NewDB opens the SQLite file at path, enables foreign keys and migrates the schema
func NewDB(path string, logger *zap.Logger) (*DB, error) {
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		logger.Warn("Failed to enable foreign keys", zap.Error(err))
	}

	d := &DB{gorm: conn, logger: logger}
	if err := d.RunMigrations(context.Background()); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// RunMigrations brings the schema up to date with the gorm models
func (d *DB) RunMigrations(ctx context.Context) error {
	if err := d.gorm.WithContext(ctx).AutoMigrate(&User{}, &Worker{}, &ClientOrg{}, &Contract{}, &ShiftRecord{}); err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection
func (d *DB) Close() {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		d.logger.Warn("Failed to get sqlite handle", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		d.logger.Warn("Failed to close sqlite database", zap.Error(err))
	}
}

func (d *DB) ListWorkers(ctx context.Context, filter db.WorkerFilter) ([]model.Worker, error) {
	query := d.gorm.WithContext(ctx).Order("id")
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var rows []Worker
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}

	workers := make([]model.Worker, 0, len(rows))
	for _, w := range rows {
		workers = append(workers, toWorker(w))
	}
	return workers, nil
}

func (d *DB) UpdateWorkerStatus(ctx context.Context, workerID string, status model.WorkerStatus, reason string) error {
	result := d.gorm.WithContext(ctx).Model(&Worker{}).
		Where("id = ?", workerID).
		Updates(map[string]any{"status": string(status), "status_reason": reason})
	if result.Error != nil {
		return fmt.Errorf("failed to update status of worker %s: %w", workerID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("worker %s: %w", workerID, db.ErrNotFound)
	}
	return nil
}

func (d *DB) ListActiveClients(ctx context.Context) ([]model.ClientOrg, error) {
	var rows []ClientOrg
	if err := d.gorm.WithContext(ctx).Where("active = ?", true).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}

	clients := make([]model.ClientOrg, 0, len(rows))
	for _, c := range rows {
		clients = append(clients, toClient(c))
	}
	return clients, nil
}

func (d *DB) GetReferenceActor(ctx context.Context, role string) (db.Actor, error) {
	var user User
	err := d.gorm.WithContext(ctx).Where("role = ?", role).Order("created_at, id").First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Actor{}, fmt.Errorf("no user with role %q: %w", role, db.ErrNotFound)
	}
	if err != nil {
		return db.Actor{}, fmt.Errorf("failed to query reference actor: %w", err)
	}
	return db.Actor{ID: user.ID, Role: user.Role}, nil
}

func (d *DB) ListContracts(ctx context.Context) ([]model.Contract, error) {
	return d.findContracts(d.gorm.WithContext(ctx))
}

func (d *DB) ListStandingContracts(ctx context.Context) ([]model.Contract, error) {
	return d.findContracts(d.gorm.WithContext(ctx).Where("generated = ?", false))
}

func (d *DB) findContracts(query *gorm.DB) ([]model.Contract, error) {
	var rows []Contract
	if err := query.Order("number").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}

	contracts := make([]model.Contract, 0, len(rows))
	for _, c := range rows {
		contracts = append(contracts, toContract(c))
	}
	return contracts, nil
}

// SaveContracts replaces all generated contracts, and their shift records, with the given set
func (d *DB) SaveContracts(ctx context.Context, contracts []model.Contract) error {
	return d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contract_id IN (?)", tx.Model(&Contract{}).Select("id").Where("generated = ?", true)).
			Delete(&ShiftRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear generated shift records: %w", err)
		}

		result := tx.Where("generated = ?", true).Delete(&Contract{})
		if result.Error != nil {
			return fmt.Errorf("failed to clear generated contracts: %w", result.Error)
		}
		d.logger.Debug("Cleared generated contracts", zap.Int64("rows", result.RowsAffected))

		if len(contracts) == 0 {
			return nil
		}

		rows := make([]Contract, 0, len(contracts))
		for _, c := range contracts {
			rows = append(rows, fromContract(c))
		}
		if err := tx.CreateInBatches(rows, 200).Error; err != nil {
			return fmt.Errorf("failed to insert contracts: %w", err)
		}
		return nil
	})
}

func (d *DB) ListShiftRecords(ctx context.Context, contractID string) ([]model.ShiftRecord, error) {
	var rows []ShiftRecord
	if err := d.gorm.WithContext(ctx).Where("contract_id = ?", contractID).Order("shift_date").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query shift records: %w", err)
	}

	records := make([]model.ShiftRecord, 0, len(rows))
	for _, r := range rows {
		record, err := toShiftRecord(r)
		if err != nil {
			return nil, fmt.Errorf("invalid shift record %s: %w", r.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// SaveShiftRecords replaces the records of all generated contracts with the given set
func (d *DB) SaveShiftRecords(ctx context.Context, records []model.ShiftRecord) error {
	return d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contract_id IN (?)", tx.Model(&Contract{}).Select("id").Where("generated = ?", true)).
			Delete(&ShiftRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear generated shift records: %w", err)
		}

		if len(records) == 0 {
			return nil
		}

		rows := make([]ShiftRecord, 0, len(records))
		for _, r := range records {
			rows = append(rows, fromShiftRecord(r))
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("failed to insert shift records: %w", err)
		}
		return nil
	})
}
