package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jmespath-community/go-jmespath"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/dockhand/dockhand-ui/config"
	"github.com/dockhand/dockhand-ui/internal/core"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
	obserrors "github.com/dockhand/dockhand-ui/internal/observability/errors"
	"github.com/dockhand/dockhand-ui/internal/observability/metrics"
)

// Status reports whether a settings query produced a value or is still loading.
type Status uint8

const (
	StatusReady Status = iota
	StatusPending
)

func (s Status) String() string {
	if s == StatusPending {
		return "pending"
	}
	return "ready"
}

const (
	publicSettingsKey = "settings:public"

	layerLocal  = "local"
	layerShared = "shared"
)

// ErrEmptySelector is returned for a blank selector expression.
var ErrEmptySelector = errors.New("selector is required")

// SettingsServiceOptions groups dependencies for SettingsService.
type SettingsServiceOptions struct {
	Repo    core.SettingsRepository // Required
	Shared  core.CacheRepository    // Optional: shared cache layer (redis)
	Config  config.SettingsConfig
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time // Optional: clock override for tests
}

// SettingsService serves the public settings document from a local cache, an
// optional shared cache and finally postgres. Stale values are served while a
// single background load refreshes them.
type SettingsService struct {
	repo    core.SettingsRepository
	shared  core.CacheRepository
	cfg     config.SettingsConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	local *gocache.Cache
	group singleflight.Group

	mu      sync.Mutex
	lastErr error

	// cacheMu orders cache writes against Invalidate. generation grows on
	// every invalidation; a load or shared read only publishes when the
	// generation it started under is still current.
	cacheMu    sync.Mutex
	generation uint64
}

type cachedSettings struct {
	Doc       *model.PublicSettings `json:"doc"`
	FetchedAt time.Time             `json:"fetched_at"`
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(opts SettingsServiceOptions) (*SettingsService, error) {
	if opts.Repo == nil {
		return nil, errors.New("SettingsRepository is required")
	}
	cfg := opts.Config
	cfg.Sanitize()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &SettingsService{
		repo:    opts.Repo,
		shared:  opts.Shared,
		cfg:     cfg,
		logger:  logger.With("component", "settings_service"),
		metrics: opts.Metrics,
		now:     now,
		local:   gocache.New(cfg.LocalTTL+cfg.StaleTTL, time.Minute),
	}, nil
}

type queryOptions struct {
	wait bool
}

// QueryOption tunes a single settings query.
type QueryOption func(*queryOptions)

// WithWait makes a cold query block until the document is loaded instead of
// returning StatusPending.
func WithWait() QueryOption {
	return func(o *queryOptions) { o.wait = true }
}

// GetPublicSetting evaluates a JMESPath selector (for example "TeamSync")
// against the public settings document. On a cold cache it starts a load and
// returns StatusPending with the last load error, if any.
func (s *SettingsService) GetPublicSetting(ctx context.Context, selector string, opts ...QueryOption) (any, Status, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, StatusReady, ErrEmptySelector
	}

	doc, status, err := s.Public(ctx, opts...)
	if doc == nil {
		return nil, status, err
	}

	value, err := evaluateSelector(selector, doc)
	if err != nil {
		return nil, StatusReady, err
	}
	return value, StatusReady, nil
}

// Public returns the whole public settings document with the same caching
// rules as GetPublicSetting.
func (s *SettingsService) Public(ctx context.Context, opts ...QueryOption) (*model.PublicSettings, Status, error) {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}

	if entry, ok := s.localEntry(); ok {
		if s.now().Sub(entry.FetchedAt) < s.cfg.LocalTTL {
			s.metrics.SettingsLookup(layerLocal, "hit")
			return entry.Doc, StatusReady, nil
		}
		s.metrics.SettingsLookup(layerLocal, "stale")
		s.refreshAsync()
		return entry.Doc, StatusReady, nil
	}
	s.metrics.SettingsLookup(layerLocal, "miss")

	gen := s.currentGeneration()
	if entry, ok := s.sharedEntry(ctx); ok {
		s.publishLocal(gen, entry)
		if s.now().Sub(entry.FetchedAt) >= s.cfg.LocalTTL {
			s.refreshAsync()
		}
		return entry.Doc, StatusReady, nil
	}

	if o.wait {
		v, err, _ := s.group.Do(publicSettingsKey, func() (any, error) {
			loadCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()
			return s.load(loadCtx)
		})
		if err != nil {
			return nil, StatusReady, fmt.Errorf("load public settings: %w", err)
		}
		doc, _ := v.(*model.PublicSettings)
		return doc, StatusReady, nil
	}

	s.refreshAsync()
	return nil, StatusPending, s.lastError()
}

// Refresh loads the document from postgres and updates both cache layers.
func (s *SettingsService) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do(publicSettingsKey, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
		return s.load(loadCtx)
	})
	if err != nil {
		return fmt.Errorf("refresh public settings: %w", err)
	}
	return nil
}

// UpdateTeamSync persists the team sync flag and invalidates both cache layers.
// Callers must check that the user is an admin.
func (s *SettingsService) UpdateTeamSync(ctx context.Context, enabled bool) error {
	if err := s.repo.SetBool(ctx, model.SettingTeamSync, enabled); err != nil {
		return fmt.Errorf("update team sync: %w", err)
	}
	s.Invalidate(ctx)
	s.logger.InfoContext(ctx, "team sync updated", "enabled", enabled)
	return nil
}

// Invalidate drops the cached document from both layers. Loads already in
// flight finish without touching either layer, and later queries start a
// fresh load instead of joining them.
func (s *SettingsService) Invalidate(ctx context.Context) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.generation++
	s.group.Forget(publicSettingsKey)
	s.local.Delete(publicSettingsKey)
	if s.shared == nil {
		return
	}
	if _, err := s.shared.Delete(ctx, publicSettingsKey); err != nil {
		s.logger.WarnContext(ctx, "shared settings cache invalidation failed", "error", err)
	}
}

func (s *SettingsService) currentGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

func (s *SettingsService) publishLocal(gen uint64, entry cachedSettings) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation == gen {
		s.storeLocal(entry)
	}
}

// publish writes a freshly loaded entry to both layers unless the cache was
// invalidated after the load began.
func (s *SettingsService) publish(ctx context.Context, gen uint64, entry cachedSettings) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation != gen {
		s.logger.DebugContext(ctx, "discarding settings loaded before invalidation")
		return
	}
	s.storeLocal(entry)

	if s.shared == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err == nil {
		err = s.shared.Set(ctx, publicSettingsKey, raw, s.cfg.SharedTTL)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "shared settings cache write failed", "error", err)
	}
}

func (s *SettingsService) localEntry() (cachedSettings, bool) {
	v, ok := s.local.Get(publicSettingsKey)
	if !ok {
		return cachedSettings{}, false
	}
	entry, ok := v.(cachedSettings)
	if !ok || entry.Doc == nil {
		return cachedSettings{}, false
	}
	return entry, true
}

func (s *SettingsService) storeLocal(entry cachedSettings) {
	ttl := s.cfg.LocalTTL + s.cfg.StaleTTL - s.now().Sub(entry.FetchedAt)
	if ttl <= 0 {
		return
	}
	s.local.Set(publicSettingsKey, entry, ttl)
}

func (s *SettingsService) sharedEntry(ctx context.Context) (cachedSettings, bool) {
	if s.shared == nil {
		return cachedSettings{}, false
	}
	readCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	raw, err := s.shared.Get(readCtx, publicSettingsKey)
	if err != nil {
		s.metrics.SettingsLookup(layerShared, "error")
		s.logger.WarnContext(ctx, "shared settings cache read failed", "error", err)
		return cachedSettings{}, false
	}
	if raw == nil {
		s.metrics.SettingsLookup(layerShared, "miss")
		return cachedSettings{}, false
	}

	var entry cachedSettings
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Doc == nil {
		s.metrics.SettingsLookup(layerShared, "error")
		s.logger.WarnContext(ctx, "discarding malformed shared settings entry", "error", err)
		return cachedSettings{}, false
	}
	s.metrics.SettingsLookup(layerShared, "hit")
	return entry, true
}

func (s *SettingsService) refreshAsync() {
	// The result channel is buffered; nobody needs to read it.
	s.group.DoChan(publicSettingsKey, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
		defer cancel()
		return s.load(ctx)
	})
}

func (s *SettingsService) load(ctx context.Context) (*model.PublicSettings, error) {
	gen := s.currentGeneration()
	doc, err := s.repo.GetPublic(ctx)
	s.metrics.SettingsFetched(obserrors.Classify(err))
	if err != nil {
		s.setLastError(err)
		s.logger.WarnContext(ctx, "public settings load failed",
			"error", err, "error_class", obserrors.Classify(err))
		return nil, err
	}
	s.setLastError(nil)

	s.publish(ctx, gen, cachedSettings{Doc: doc, FetchedAt: s.now()})
	return doc, nil
}

func (s *SettingsService) setLastError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *SettingsService) lastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// evaluateSelector runs a JMESPath expression over the JSON form of doc so
// selectors address the same field names clients see.
func evaluateSelector(selector string, doc *model.PublicSettings) (any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	value, err := jmespath.Search(selector, data)
	if err != nil {
		return nil, fmt.Errorf("evaluate selector %q: %w", selector, err)
	}
	return value, nil
}

// PublicSettingQuerier is the read side of SettingsService.
type PublicSettingQuerier interface {
	GetPublicSetting(ctx context.Context, selector string, opts ...QueryOption) (any, Status, error)
}

// PublicBool reads a boolean setting as a tri-state flag. Errors, pending
// loads and non-boolean values all yield FlagUnknown.
func PublicBool(ctx context.Context, q PublicSettingQuerier, selector string, opts ...QueryOption) nav.Flag {
	flag, _ := PublicBoolErr(ctx, q, selector, opts...)
	return flag
}

// PublicBoolErr is PublicBool that also reports why the flag is unknown.
func PublicBoolErr(ctx context.Context, q PublicSettingQuerier, selector string, opts ...QueryOption) (nav.Flag, error) {
	if q == nil {
		return nav.FlagUnknown, errors.New("settings unavailable")
	}
	value, status, err := q.GetPublicSetting(ctx, selector, opts...)
	if err != nil {
		return nav.FlagUnknown, err
	}
	if status == StatusPending {
		return nav.FlagUnknown, nil
	}
	b, ok := value.(bool)
	if !ok {
		return nav.FlagUnknown, fmt.Errorf("setting %q is %T, not bool", selector, value)
	}
	return nav.FlagOf(b), nil
}
