package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dockhand/dockhand-ui/config"
	"github.com/dockhand/dockhand-ui/internal/adapters/settingsrefresher"
	"github.com/dockhand/dockhand-ui/internal/observability/metrics"
	"github.com/dockhand/dockhand-ui/internal/service"
)

// SettingsRefresherConfig contains configuration for the settings refresher.
type SettingsRefresherConfig struct {
	DB       *sql.DB
	Redis    redis.UniversalClient
	Settings config.SettingsConfig
	Config   config.SettingsRefresherConfig
	Logger   *slog.Logger
	Metrics  *metrics.Metrics

	// Service reuses an existing settings service instead of wiring a new one.
	Service service.SettingsRefresher
}

// RunSettingsRefresher starts the settings refresher and blocks until ctx is done.
func RunSettingsRefresher(ctx context.Context, cfg SettingsRefresherConfig) error {
	runner, err := settingsrefresher.NewRunner(settingsrefresher.RunnerOptions{
		DB:       cfg.DB,
		Redis:    cfg.Redis,
		Settings: cfg.Settings,
		Config:   cfg.Config,
		Logger:   cfg.Logger,
		Metrics:  cfg.Metrics,
		Service:  cfg.Service,
	})
	if err != nil {
		return fmt.Errorf("create settings refresher: %w", err)
	}

	return runner.Run(ctx)
}
