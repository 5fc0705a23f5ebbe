package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/prodeel-backend/pkg/config"
	"github.com/angelmondragon/prodeel-backend/pkg/db"
	"github.com/angelmondragon/prodeel-backend/pkg/db/models"
	"github.com/angelmondragon/prodeel-backend/pkg/logger"
	"gorm.io/gorm"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if client.Driver() == "sqlite" {
		logg.Info(ctx, "sqlite in use, creating schema from models")
		return AutoMigrateModels(client.DB())
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	runner, err := NewRunner(sqlDB, DefaultDir)
	if err != nil {
		return err
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "migrate.dev_autorun.start")
	if err := runner.Up(ctx); err != nil {
		return err
	}
	logg.Info(ctx, "migrate.dev_autorun.done")
	return nil
}

// AutoMigrateModels creates the tables from the gorm models. It backs local
// sqlite runs where the Postgres migrations do not apply.
func AutoMigrateModels(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&models.StoreSettings{}, &models.Order{}, &models.OrderLine{}, &models.Product{}); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}
	return nil
}
