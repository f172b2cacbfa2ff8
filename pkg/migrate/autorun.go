package migrate

import (
	"context"
	"fmt"

	"github.com/drinkshop/drinkshop-backend/pkg/config"
	"github.com/drinkshop/drinkshop-backend/pkg/db"
	"github.com/drinkshop/drinkshop-backend/pkg/logger"
)

// MaybeRun applies the embedded migrations at startup when the AutoMigrate flag is enabled.
// The embedded store has no other way to receive its schema, so the flag defaults to on
// in every environment.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	dialect := cfg.DB.MigrationDialect()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": dialect})
	logg.Info(ctx, "running goose migrations")

	if err := Run(ctx, sqlDB, dialect, "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	version, err := Version(ctx, sqlDB, dialect)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "schema_version", version), "goose migrations completed")
	return nil
}
