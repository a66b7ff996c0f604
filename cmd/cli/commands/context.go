package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/staffing-scheduler/internal/config"
	"github.com/jakechorley/staffing-scheduler/pkg/db"
)

// Store is a db.Database that can also bring its own schema up to date
type Store interface {
	db.Database
	RunMigrations(ctx context.Context) error
}

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database Store
	Logger   *zap.Logger
	Ctx      context.Context
}
