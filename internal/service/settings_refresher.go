package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/dockhand/dockhand-ui/config"
)

// SettingsRefresher reloads cached settings from the source of truth.
type SettingsRefresher interface {
	Refresh(ctx context.Context) error
}

// SettingsRefresherServiceOptions groups dependencies for SettingsRefresherService.
type SettingsRefresherServiceOptions struct {
	Settings SettingsRefresher              // Required
	Config   config.SettingsRefresherConfig // Required
	Logger   *slog.Logger                   // Optional
}

// SettingsRefresherService keeps the shared settings cache warm so request
// paths rarely see a cold or stale document.
type SettingsRefresherService struct {
	settings SettingsRefresher
	config   config.SettingsRefresherConfig
	logger   *slog.Logger
}

// NewSettingsRefresherService constructs a SettingsRefresherService.
func NewSettingsRefresherService(opts SettingsRefresherServiceOptions) (*SettingsRefresherService, error) {
	if opts.Settings == nil {
		return nil, errors.New("settings refresher is required")
	}
	cfg := opts.Config
	cfg.Sanitize()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsRefresherService{
		settings: opts.Settings,
		config:   cfg,
		logger:   logger.With("component", "settings_refresher"),
	}, nil
}

// Run refreshes immediately after a short jitter and then on every tick until
// ctx is cancelled. Returns nil on graceful shutdown.
func (s *SettingsRefresherService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting settings refresher", "interval", s.config.Interval)

	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.refresh(ctx, "initial refresh")

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "settings refresher stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx, "refresh")
		}
	}
}

func (s *SettingsRefresherService) refresh(ctx context.Context, label string) {
	err := s.settings.Refresh(ctx)
	if err == nil {
		return
	}
	if isContextCancellation(err) {
		s.logger.DebugContext(ctx, "settings "+label+" interrupted", "error", err)
		return
	}
	s.logger.ErrorContext(ctx, "settings "+label+" failed", "error", err)
}

// waitWithJitter sleeps up to 10% of the interval so replicas started
// together do not refresh in lockstep.
func (s *SettingsRefresherService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}
	jitter := time.Duration(int64(binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter))) // #nosec G115 - bounded by maxJitter

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

func isContextCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
