package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dockhand/dockhand-ui/config"
	"github.com/dockhand/dockhand-ui/internal/adapters/settingsrefresher"
	"github.com/dockhand/dockhand-ui/internal/core"
	"github.com/dockhand/dockhand-ui/internal/data"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
	"github.com/dockhand/dockhand-ui/internal/observability/metrics"
	"github.com/dockhand/dockhand-ui/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Settings  *service.SettingsService
	Nav       *service.NavigationService
	Templates *service.CustomTemplateService
	Metrics   *metrics.Metrics // nil when the scrape endpoint is disabled
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient // Optional
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Templates core.CustomTemplateRepository
	Teams     core.TeamRepository
	Settings  core.SettingsRepository
	Cache     core.CacheRepository // nil without redis
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, client redis.UniversalClient) *serviceRepositories {
	repos := &serviceRepositories{
		Templates: data.NewCustomTemplateRepo(db),
		Teams:     data.NewTeamRepo(db),
		Settings:  data.NewSettingsRepo(db),
	}
	if client != nil {
		repos.Cache = data.NewRedisCacheRepo(client, settingsrefresher.SharedCachePrefix())
	}
	return repos
}

func buildMetrics(cfg config.ObservabilityConfig) *metrics.Metrics {
	if !cfg.Metrics.IsEnabled() {
		return nil
	}
	return metrics.New()
}

// navFeatures converts process configuration into navigation feature signals.
func navFeatures(cfg config.FeaturesConfig) nav.Features {
	edition := nav.EditionCE
	if cfg.Edition == config.EditionBusiness {
		edition = nav.EditionBE
	}
	return nav.Features{
		BusinessEdition: cfg.IsBusinessEdition(),
		EmbeddedHost:    cfg.EmbeddedHost,
		Edition:         edition,
	}
}

// NewServices wires business services using repositories and observability adapters.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil || deps.DB == nil {
		return ServiceContainer{}, errors.New("config and database are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	repos := buildRepositories(deps.DB, deps.RedisClient)
	m := buildMetrics(cfg.Observability)

	settings, err := service.NewSettingsService(service.SettingsServiceOptions{
		Repo:    repos.Settings,
		Shared:  repos.Cache,
		Config:  cfg.Settings,
		Logger:  logger,
		Metrics: m,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("settings service: %w", err)
	}

	router := nav.NewRouter(nav.DefaultRoutes())
	navigation, err := service.NewNavigationService(service.NavigationServiceOptions{
		Teams:    repos.Teams,
		Settings: settings,
		Router:   router,
		Features: navFeatures(cfg.Features),
		Logger:   logger,
		Metrics:  m,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("navigation service: %w", err)
	}

	templates, err := service.NewCustomTemplateService(service.CustomTemplateServiceOptions{
		Repo:    repos.Templates,
		Routes:  router,
		Logger:  logger,
		Metrics: m,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("custom template service: %w", err)
	}

	return ServiceContainer{
		Auth: BuildAuthService(ctx, AuthConfig{
			Auth:        cfg.Auth,
			RedisClient: deps.RedisClient,
			Logger:      logger,
		}),
		Settings:  settings,
		Nav:       navigation,
		Templates: templates,
		Metrics:   m,
	}, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:       deps.cfg.Config,
		Services:     deps.cfg.Services,
		HealthChecks: healthChecks(deps.cfg.DB, deps.cfg.RedisClient),
		Logger:       deps.logger,
		ErrCh:        deps.errCh,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

// newSettingsRefresherBackgroundService keeps the settings caches warm. In a
// process that also serves HTTP it refreshes the same service instance so the
// local cache is warmed too.
func newSettingsRefresherBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeSettingsRefresher,
		name: "settings refresher",
		start: func(ctx context.Context) error {
			opts := SettingsRefresherConfig{
				DB:       deps.cfg.DB,
				Redis:    deps.cfg.RedisClient,
				Settings: deps.cfg.Config.Settings,
				Config:   deps.cfg.Config.SettingsRefresher,
				Logger:   deps.logger,
				Metrics:  deps.cfg.Services.Metrics,
			}
			if deps.cfg.Services.Settings != nil {
				opts.Service = deps.cfg.Services.Settings
			}
			return RunSettingsRefresher(ctx, opts)
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	return []backgroundService{
		newSettingsRefresherBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	// Determine which services are enabled
	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	// Start all enabled services
	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	// Wait for shutdown signal or error
	return waitForShutdown(shutdownConfig{
		ctx:         serviceCtx,
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		logger:      logger,
		backgrounds: result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	return errorChannelCapacity(enabled) + 1
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx         context.Context
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		// The service context is already cancelled; shutdown gets its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(cfg.ctx), shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
