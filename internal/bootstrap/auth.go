package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dockhand/dockhand-ui/config"
	"github.com/dockhand/dockhand-ui/internal/adapters/authroles"
	"github.com/dockhand/dockhand-ui/internal/adapters/devauth"
	"github.com/dockhand/dockhand-ui/internal/adapters/memory"
	"github.com/dockhand/dockhand-ui/internal/adapters/oidc"
	redisadapter "github.com/dockhand/dockhand-ui/internal/adapters/redis"
	"github.com/dockhand/dockhand-ui/internal/ports"
	"github.com/dockhand/dockhand-ui/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient // Optional: sessions stay in process memory without it
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(ctx context.Context, cfg AuthConfig) *service.AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var sessions ports.SessionStore
	if cfg.RedisClient != nil {
		sessions = redisadapter.NewSessionStore(cfg.RedisClient, "")
	} else {
		logger.Warn("redis not configured; sessions are kept in memory and lost on restart", "mode", cfg.Auth.Mode)
		sessions = memory.NewSessionStore()
	}

	roleMapper := authroles.StaticRoleMapper{
		AdminGroup: cfg.Auth.AdminGroup,
		UserGroup:  cfg.Auth.UserGroup,
	}

	var provider ports.AuthProvider
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		provider = buildDevAuthProvider(cfg, logger)
	case config.AuthModeOAuth:
		provider = buildOAuthProvider(ctx, cfg, logger)
	}
	if provider == nil {
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:   provider,
		Sessions:   sessions,
		Roles:      roleMapper,
		SessionTTL: cfg.Auth.SessionTTL,
		Logger:     logger,
	})
}

//nolint:ireturn // the caller only needs the port.
func buildDevAuthProvider(cfg AuthConfig, logger *slog.Logger) ports.AuthProvider {
	prov, err := devauth.NewProvider(devauth.Config{
		UserID: cfg.Auth.DevAuth.UserID,
		Email:  cfg.Auth.DevAuth.Email,
		Groups: cfg.Auth.DevAuth.Groups,
	})
	if err != nil {
		logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		return nil
	}
	logger.Warn("dev auth enabled; every visitor signs in as the configured identity",
		"user_id", cfg.Auth.DevAuth.UserID)
	return prov
}

//nolint:ireturn // the caller only needs the port.
func buildOAuthProvider(ctx context.Context, cfg AuthConfig, logger *slog.Logger) ports.AuthProvider {
	// Only enable when fully configured
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
			"discovery_url_empty", oauth.DiscoveryURL == "",
			"client_id_empty", oauth.ClientID == "",
			"client_secret_empty", oauth.ClientSecret == "",
		)
		return nil
	}

	prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
	})
	if err != nil {
		logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		return nil
	}
	return prov
}
