package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dockhand/dockhand-ui/config"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
)

func TestErrorChannelCapacity(t *testing.T) {
	tests := []struct {
		name  string
		modes []config.ServiceMode
		want  int
	}{
		{
			name: "no services enabled",
			want: 0,
		},
		{
			name:  "http only",
			modes: []config.ServiceMode{config.ServiceModeHTTP},
			want:  1,
		},
		{
			name:  "refresher only",
			modes: []config.ServiceMode{config.ServiceModeSettingsRefresher},
			want:  1,
		},
		{
			name:  "all services enabled",
			modes: config.ValidServiceModes(),
			want:  2,
		},
		{
			name:  "unknown modes are ignored",
			modes: []config.ServiceMode{"reaper"},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enabled := make(map[config.ServiceMode]bool, len(tt.modes))
			for _, mode := range tt.modes {
				enabled[mode] = true
			}

			assert.Equal(t, tt.want, errorChannelCapacity(enabled))
			assert.Equal(t, tt.want+1, errorChannelBufferSize(enabled))
		})
	}
}

func TestNavFeatures(t *testing.T) {
	off := false

	tests := []struct {
		name string
		cfg  config.FeaturesConfig
		want nav.Features
	}{
		{
			name: "community",
			cfg:  config.FeaturesConfig{Edition: config.EditionCommunity},
			want: nav.Features{Edition: nav.EditionCE},
		},
		{
			name: "business",
			cfg:  config.FeaturesConfig{Edition: config.EditionBusiness, EmbeddedHost: true},
			want: nav.Features{BusinessEdition: true, EmbeddedHost: true, Edition: nav.EditionBE},
		},
		{
			name: "business edition with features forced off",
			cfg:  config.FeaturesConfig{Edition: config.EditionBusiness, BusinessEdition: &off},
			want: nav.Features{Edition: nav.EditionBE},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, navFeatures(tt.cfg))
		})
	}
}

func openLazyDB(t *testing.T) *sql.DB {
	t.Helper()
	// sql.Open does not dial; nothing here touches the database.
	db, err := sql.Open("pgx", "postgres://dockhand@127.0.0.1:1/dockhand?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewServices(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("requires config and database", func(t *testing.T) {
		_, err := NewServices(context.Background(), nil)
		require.Error(t, err)

		_, err = NewServices(context.Background(), &ServiceDeps{Config: &config.AppConfig{}})
		require.Error(t, err)
	})

	t.Run("wires services without redis", func(t *testing.T) {
		cfg := &config.AppConfig{
			Auth: config.AuthConfig{
				Mode: config.AuthModeMock,
				DevAuth: config.DevAuthConfig{
					UserID: "dev-1",
					Email:  "dev@example.com",
					Groups: []string{"admins"},
				},
				AdminGroup: "admins",
				UserGroup:  "users",
			},
			Observability: config.ObservabilityConfig{
				Metrics: config.ObservabilityMetricsConfig{Enabled: false},
			},
		}
		cfg.Sanitize()

		svc, err := NewServices(context.Background(), &ServiceDeps{
			Config: cfg,
			DB:     openLazyDB(t),
			Logger: logger,
		})
		require.NoError(t, err)

		assert.NotNil(t, svc.Settings)
		assert.NotNil(t, svc.Nav)
		assert.NotNil(t, svc.Templates)
		assert.NotNil(t, svc.Auth)
		assert.Nil(t, svc.Metrics)
		assert.NotNil(t, svc.Nav.Router())
	})

	t.Run("metrics enabled", func(t *testing.T) {
		cfg := &config.AppConfig{
			Observability: config.ObservabilityConfig{
				Metrics: config.ObservabilityMetricsConfig{Enabled: true, Path: "/metrics"},
			},
		}
		cfg.Sanitize()

		svc, err := NewServices(context.Background(), &ServiceDeps{
			Config: cfg,
			DB:     openLazyDB(t),
			Logger: logger,
		})
		require.NoError(t, err)
		assert.NotNil(t, svc.Metrics)
		assert.Nil(t, svc.Auth, "no auth mode configured")
	})
}

func TestRouterServices_NilServicesStayNil(t *testing.T) {
	rs := routerServices(&config.AppConfig{}, ServiceContainer{}, nil, slog.New(slog.DiscardHandler))
	assert.Nil(t, rs.Nav)
	assert.Nil(t, rs.Templates)
	assert.Nil(t, rs.Settings)
}

func TestHealthChecks(t *testing.T) {
	assert.Empty(t, healthChecks(nil, nil))

	checks := healthChecks(openLazyDB(t), nil)
	assert.Contains(t, checks, "postgres")
	assert.NotContains(t, checks, "redis")
}

func TestLaunchBackground(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("disabled mode does not start", func(t *testing.T) {
		deps := &serviceStartupDeps{
			ctx:             context.Background(),
			logger:          logger,
			enabledServices: map[config.ServiceMode]bool{},
			errCh:           make(chan error, 1),
		}
		started := false
		done := launchBackground(context.Background(), deps, backgroundService{
			mode:  config.ServiceModeSettingsRefresher,
			name:  "settings refresher",
			start: func(context.Context) error { started = true; return nil },
		})
		assert.Nil(t, done)
		assert.False(t, started)
	})

	t.Run("failure is reported", func(t *testing.T) {
		errCh := make(chan error, 1)
		deps := &serviceStartupDeps{
			ctx:             context.Background(),
			logger:          logger,
			enabledServices: map[config.ServiceMode]bool{config.ServiceModeSettingsRefresher: true},
			errCh:           errCh,
		}
		boom := errors.New("boom")
		done := launchBackground(context.Background(), deps, backgroundService{
			mode:  config.ServiceModeSettingsRefresher,
			name:  "settings refresher",
			start: func(context.Context) error { return boom },
		})
		require.NotNil(t, done)

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("background service did not finish")
		}
		err := <-errCh
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "settings refresher failed")
	})
}

func TestStartBackgroundServices_SkipsDisabled(t *testing.T) {
	deps := &serviceStartupDeps{
		ctx:             context.Background(),
		logger:          slog.New(slog.DiscardHandler),
		enabledServices: map[config.ServiceMode]bool{config.ServiceModeHTTP: true},
		errCh:           make(chan error, 1),
	}
	handles := startBackgroundServices(deps, []backgroundService{{
		mode:  config.ServiceModeSettingsRefresher,
		name:  "settings refresher",
		start: func(context.Context) error { return nil },
	}})
	assert.Empty(t, handles)
}

func TestWaitForService(t *testing.T) {
	done := make(chan struct{})
	close(done)
	waitForService(done, "settings refresher", slog.New(slog.DiscardHandler))
	waitForService(nil, "nothing", slog.New(slog.DiscardHandler))
}

func TestRunServicesWithShutdown_RequiresConfig(t *testing.T) {
	require.Error(t, RunServicesWithShutdown(nil))
	require.Error(t, RunServicesWithShutdown(&ServiceOrchestrationConfig{}))
}
