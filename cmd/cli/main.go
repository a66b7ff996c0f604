package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staffing-scheduler/cmd/cli/commands"
	"github.com/jakechorley/staffing-scheduler/internal/config"
	"github.com/jakechorley/staffing-scheduler/pkg/postgres"
	"github.com/jakechorley/staffing-scheduler/pkg/sqlite"
	"github.com/jakechorley/staffing-scheduler/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Staffing scheduler CLI - allocate workers and generate shift schedules",
		Long:  `A CLI tool for allocating agency workers to client organisations and generating their daily shift records.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.GenerateCmd(app))
	rootCmd.AddCommand(commands.ListWorkersCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and database
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Logger.Info("Connecting to database", zap.String("driver", app.Cfg.Database.Driver))
	app.Database, err = openStore(app.Ctx, app.Cfg.Database, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.Logger.Info("Database initialized successfully")

	return nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (commands.Store, error) {
	if cfg.Driver == "sqlite" {
		store, err := sqlite.NewDB(cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := postgres.NewDB(ctx, cfg.URL, logger)
	if err != nil {
		return nil, err
	}
	return store, nil
}
