// Package settingsrefresher runs the public settings refresh loop as a standalone service.
package settingsrefresher

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dockhand/dockhand-ui/config"
	"github.com/dockhand/dockhand-ui/internal/core"
	"github.com/dockhand/dockhand-ui/internal/data"
	"github.com/dockhand/dockhand-ui/internal/observability/metrics"
	"github.com/dockhand/dockhand-ui/internal/service"
)

// sharedCachePrefix namespaces the settings document in redis.
const sharedCachePrefix = "dockhand:cache:"

// Runner wires a settings service to its stores and runs the refresh loop.
type Runner struct {
	refresher *service.SettingsRefresherService
	logger    *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB       *sql.DB
	Redis    redis.UniversalClient // Optional: enables the shared cache layer
	Settings config.SettingsConfig
	Config   config.SettingsRefresherConfig
	Logger   *slog.Logger
	Metrics  *metrics.Metrics

	// Optional dependency injection for testing
	Service service.SettingsRefresher
}

// NewRunner creates a new settings refresher runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	settings, err := wireSettingsService(opts)
	if err != nil {
		return nil, fmt.Errorf("wire settings service: %w", err)
	}

	refresher, err := service.NewSettingsRefresherService(service.SettingsRefresherServiceOptions{
		Settings: settings,
		Config:   opts.Config,
		Logger:   opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create settings refresher: %w", err)
	}

	return &Runner{refresher: refresher, logger: opts.Logger}, nil
}

func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.DB == nil && opts.Service == nil {
		return errors.New("database connection is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return nil
}

func wireSettingsService(opts RunnerOptions) (service.SettingsRefresher, error) {
	if opts.Service != nil {
		return opts.Service, nil
	}

	var shared core.CacheRepository
	if opts.Redis != nil {
		shared = data.NewRedisCacheRepo(opts.Redis, sharedCachePrefix)
	}
	return service.NewSettingsService(service.SettingsServiceOptions{
		Repo:    data.NewSettingsRepo(opts.DB),
		Shared:  shared,
		Config:  opts.Settings,
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})
}

// SharedCachePrefix is the redis key prefix the HTTP process must share with the runner.
func SharedCachePrefix() string { return sharedCachePrefix }

// Run starts the refresh loop and blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting settings refresher runner")
	return r.refresher.Run(ctx)
}
