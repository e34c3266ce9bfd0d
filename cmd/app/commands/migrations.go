package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/allisson/securestore/internal/config"
	"github.com/allisson/securestore/internal/database"
)

// RunMigrations applies the embedded schema of the SQL storage drivers. The blob driver
// has no schema, so nothing is done for it.
func RunMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.IsSQL() {
		logger.Info("storage driver has no schema, skipping migrations",
			slog.String("driver", cfg.StorageDriver))
		return nil
	}

	logger.Info("running database migrations", slog.String("driver", cfg.StorageDriver))

	db, err := database.Connect(ctx, database.Config{
		Driver:             cfg.StorageDriver,
		ConnectionString:   cfg.DBConnectionString,
		MaxOpenConnections: 1,
		MaxIdleConnections: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	if err := database.Migrate(db, cfg.StorageDriver); err != nil {
		return err
	}

	logger.Info("migrations completed successfully")
	return nil
}
