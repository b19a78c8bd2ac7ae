package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dockhand/dockhand-ui/config"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
	"github.com/dockhand/dockhand-ui/internal/mocks"
	"github.com/dockhand/dockhand-ui/internal/observability/metrics"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// countingSettingsRepo is a hand-rolled repo for tests that exercise background loads.
type countingSettingsRepo struct {
	mu    sync.Mutex
	doc   *model.PublicSettings
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (r *countingSettingsRepo) GetPublic(ctx context.Context) (*model.PublicSettings, error) {
	r.calls.Add(1)
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	cp := *r.doc
	return &cp, nil
}

func (r *countingSettingsRepo) set(doc *model.PublicSettings, err error) {
	r.mu.Lock()
	r.doc, r.err = doc, err
	r.mu.Unlock()
}

func (r *countingSettingsRepo) Set(context.Context, string, string) error       { return nil }
func (r *countingSettingsRepo) SetBool(context.Context, string, bool) error       { return nil }
func (r *countingSettingsRepo) SetMany(context.Context, map[string]string) error { return nil }

func testSettingsConfig() config.SettingsConfig {
	return config.SettingsConfig{
		LocalTTL:     15 * time.Second,
		SharedTTL:    5 * time.Minute,
		StaleTTL:     10 * time.Minute,
		FetchTimeout: time.Second,
	}
}

func newTestSettingsService(t *testing.T, opts SettingsServiceOptions) *SettingsService {
	t.Helper()
	if opts.Config == (config.SettingsConfig{}) {
		opts.Config = testSettingsConfig()
	}
	svc, err := NewSettingsService(opts)
	require.NoError(t, err)
	return svc
}

func TestNewSettingsService_RequiresRepo(t *testing.T) {
	_, err := NewSettingsService(SettingsServiceOptions{})
	require.Error(t, err)
}

func TestSettingsService_WithWaitLoadsAndCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSettingsRepository(ctrl)
	repo.EXPECT().GetPublic(gomock.Any()).Return(&model.PublicSettings{TeamSync: true, LogoURL: "x"}, nil).Times(1)

	svc := newTestSettingsService(t, SettingsServiceOptions{Repo: repo, Metrics: metrics.New()})
	ctx := context.Background()

	v, status, err := svc.GetPublicSetting(ctx, "TeamSync", WithWait())
	require.NoError(t, err)
	assert.Equal(t, StatusReady, status)
	assert.Equal(t, true, v)

	v, status, err = svc.GetPublicSetting(ctx, "LogoURL")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, status)
	assert.Equal(t, "x", v)
}

func TestSettingsService_ColdQueryIsPending(t *testing.T) {
	repo := &countingSettingsRepo{doc: &model.PublicSettings{TeamSync: true}, gate: make(chan struct{})}
	svc := newTestSettingsService(t, SettingsServiceOptions{Repo: repo})
	ctx := context.Background()

	v, status, err := svc.GetPublicSetting(ctx, "TeamSync")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)
	assert.Nil(t, v)

	// A second cold query joins the in-flight load.
	_, status, _ = svc.GetPublicSetting(ctx, "TeamSync")
	assert.Equal(t, StatusPending, status)

	close(repo.gate)
	require.Eventually(t, func() bool {
		_, st, _ := svc.GetPublicSetting(ctx, "TeamSync")
		return st == StatusReady
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), repo.calls.Load())
}

func TestSettingsService_StaleWhileRevalidate(t *testing.T) {
	clock := newFakeClock()
	repo := &countingSettingsRepo{doc: &model.PublicSettings{TeamSync: false}}
	svc := newTestSettingsService(t, SettingsServiceOptions{Repo: repo, Now: clock.Now})
	ctx := context.Background()

	require.NoError(t, svc.Refresh(ctx))
	repo.set(&model.PublicSettings{TeamSync: true}, nil)

	clock.Advance(20 * time.Second)
	v, status, err := svc.GetPublicSetting(ctx, "TeamSync")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, status)
	assert.Equal(t, false, v, "stale value is served")

	require.Eventually(t, func() bool {
		got, _, _ := svc.GetPublicSetting(ctx, "TeamSync")
		return got == true
	}, time.Second, 5*time.Millisecond)
}

func TestSettingsService_FailureKeepsLastErrorUntilSuccess(t *testing.T) {
	loadErr := errors.New("db down")
	repo := &countingSettingsRepo{err: loadErr}
	svc := newTestSettingsService(t, SettingsServiceOptions{Repo: repo})
	ctx := context.Background()

	_, _, err := svc.GetPublicSetting(ctx, "TeamSync", WithWait())
	require.ErrorIs(t, err, loadErr)

	flag, err := PublicBoolErr(ctx, svc, "TeamSync")
	assert.Equal(t, nav.FlagUnknown, flag)
	assert.ErrorIs(t, err, loadErr)

	repo.set(&model.PublicSettings{TeamSync: true}, nil)
	require.Eventually(t, func() bool {
		return PublicBool(ctx, svc, "TeamSync") == nav.FlagEnabled
	}, time.Second, 5*time.Millisecond)
}

func TestSettingsService_SharedLayer(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSettingsRepository(ctrl)
	shared := mocks.NewMockCacheRepository(ctrl)
	clock := newFakeClock()

	entry, err := json.Marshal(cachedSettings{
		Doc:       &model.PublicSettings{TeamSync: true},
		FetchedAt: clock.Now(),
	})
	require.NoError(t, err)
	shared.EXPECT().Get(gomock.Any(), publicSettingsKey).Return(entry, nil).Times(1)

	svc := newTestSettingsService(t, SettingsServiceOptions{Repo: repo, Shared: shared, Now: clock.Now})
	ctx := context.Background()

	assert.Equal(t, nav.FlagEnabled, PublicBool(ctx, svc, "TeamSync"))
	// Served from the local layer now; neither redis nor postgres is hit again.
	assert.Equal(t, nav.FlagEnabled, PublicBool(ctx, svc, "TeamSync"))
}

func TestSettingsService_LoadWritesSharedLayer(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSettingsRepository(ctrl)
	shared := mocks.NewMockCacheRepository(ctrl)

	repo.EXPECT().GetPublic(gomock.Any()).Return(&model.PublicSettings{TeamSync: true}, nil)
	shared.EXPECT().Set(gomock.Any(), publicSettingsKey, gomock.Any(), 5*time.Minute).
		DoAndReturn(func(_ context.Context, _ string, raw []byte, _ time.Duration) error {
			var entry cachedSettings
			require.NoError(t, json.Unmarshal(raw, &entry))
			assert.True(t, entry.Doc.TeamSync)
			return nil
		})

	svc := newTestSettingsService(t, SettingsServiceOptions{Repo: repo, Shared: shared})
	require.NoError(t, svc.Refresh(context.Background()))
}

func TestSettingsService_UpdateTeamSyncInvalidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSettingsRepository(ctrl)
	shared := mocks.NewMockCacheRepository(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().GetPublic(gomock.Any()).Return(&model.PublicSettings{TeamSync: false}, nil),
		repo.EXPECT().SetBool(gomock.Any(), model.SettingTeamSync, true).Return(nil),
		repo.EXPECT().GetPublic(gomock.Any()).Return(&model.PublicSettings{TeamSync: true}, nil),
	)
	shared.EXPECT().Set(gomock.Any(), publicSettingsKey, gomock.Any(), gomock.Any()).Return(nil).Times(2)
	shared.EXPECT().Delete(gomock.Any(), publicSettingsKey).Return(true, nil)
	shared.EXPECT().Get(gomock.Any(), publicSettingsKey).Return(nil, nil)

	svc := newTestSettingsService(t, SettingsServiceOptions{Repo: repo, Shared: shared})
	require.NoError(t, svc.Refresh(ctx))
	assert.Equal(t, nav.FlagDisabled, PublicBool(ctx, svc, "TeamSync"))

	require.NoError(t, svc.UpdateTeamSync(ctx, true))
	assert.Equal(t, nav.FlagEnabled, PublicBool(ctx, svc, "TeamSync", WithWait()))
}

// snapshotRepo reads the document and then parks until released, so a write
// can land between the read and the cache update.
type snapshotRepo struct {
	mu       sync.Mutex
	doc      model.PublicSettings
	started  chan struct{}
	release  chan struct{}
	returned atomic.Int32
}

func (r *snapshotRepo) GetPublic(ctx context.Context) (*model.PublicSettings, error) {
	r.mu.Lock()
	snapshot := r.doc
	r.mu.Unlock()

	r.started <- struct{}{}
	defer r.returned.Add(1)
	select {
	case <-r.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &snapshot, nil
}

func (r *snapshotRepo) SetBool(_ context.Context, key string, value bool) error {
	if key == model.SettingTeamSync {
		r.mu.Lock()
		r.doc.TeamSync = value
		r.mu.Unlock()
	}
	return nil
}

func (r *snapshotRepo) Set(context.Context, string, string) error       { return nil }
func (r *snapshotRepo) SetMany(context.Context, map[string]string) error { return nil }

func TestSettingsService_UpdateTeamSyncDiscardsInFlightLoad(t *testing.T) {
	repo := &snapshotRepo{started: make(chan struct{}, 4), release: make(chan struct{})}
	svc := newTestSettingsService(t, SettingsServiceOptions{Repo: repo})
	ctx := context.Background()

	_, status, _ := svc.Public(ctx)
	require.Equal(t, StatusPending, status)
	<-repo.started

	require.NoError(t, svc.UpdateTeamSync(ctx, true))
	close(repo.release)

	assert.Equal(t, nav.FlagEnabled, PublicBool(ctx, svc, "TeamSync", WithWait()))

	require.Eventually(t, func() bool { return repo.returned.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, nav.FlagEnabled, PublicBool(ctx, svc, "TeamSync"),
		"load that read before the update must not overwrite the cache")
}

func TestSettingsService_InvalidateSkipsInFlightSharedWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	shared := mocks.NewMockCacheRepository(ctrl)
	repo := &snapshotRepo{started: make(chan struct{}, 4), release: make(chan struct{})}

	shared.EXPECT().Delete(gomock.Any(), publicSettingsKey).Return(true, nil)
	shared.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	svc := newTestSettingsService(t, SettingsServiceOptions{Repo: repo, Shared: shared})
	ctx := context.Background()

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Refresh(ctx) }()
	<-repo.started

	svc.Invalidate(ctx)
	close(repo.release)
	require.NoError(t, <-errCh)

	_, ok := svc.localEntry()
	assert.False(t, ok)
}

func TestSettingsService_UpdateTeamSyncError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSettingsRepository(ctrl)
	repo.EXPECT().SetBool(gomock.Any(), model.SettingTeamSync, false).Return(errors.New("boom"))

	svc := newTestSettingsService(t, SettingsServiceOptions{Repo: repo})
	assert.ErrorContains(t, svc.UpdateTeamSync(context.Background(), false), "update team sync")
}

func TestSettingsService_Selectors(t *testing.T) {
	repo := &countingSettingsRepo{doc: &model.PublicSettings{AuthenticationMethod: "oauth"}}
	svc := newTestSettingsService(t, SettingsServiceOptions{Repo: repo})
	ctx := context.Background()

	_, _, err := svc.GetPublicSetting(ctx, "  ")
	require.ErrorIs(t, err, ErrEmptySelector)

	v, _, err := svc.GetPublicSetting(ctx, "AuthenticationMethod == 'oauth'", WithWait())
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, _, err = svc.GetPublicSetting(ctx, "[[[", WithWait())
	require.Error(t, err)

	flag, err := PublicBoolErr(ctx, svc, "AuthenticationMethod")
	assert.Equal(t, nav.FlagUnknown, flag)
	assert.ErrorContains(t, err, "not bool")

	flag, err = PublicBoolErr(ctx, svc, "Missing")
	assert.Equal(t, nav.FlagUnknown, flag)
	assert.Error(t, err)
}

func TestPublicBool_NilQuerier(t *testing.T) {
	assert.Equal(t, nav.FlagUnknown, PublicBool(context.Background(), nil, "TeamSync"))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "ready", StatusReady.String())
	assert.Equal(t, "pending", StatusPending.String())
}
