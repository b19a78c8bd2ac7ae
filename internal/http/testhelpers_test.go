package httpx

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
	"github.com/dockhand/dockhand-ui/internal/mocks"
	"github.com/dockhand/dockhand-ui/internal/ports"
	"github.com/dockhand/dockhand-ui/internal/service"
)

var errNoSession = errors.New("session not found")

// fakeSessions resolves session cookies from a fixed map.
type fakeSessions map[string]*domainauth.Session

func (f fakeSessions) GetSession(_ context.Context, id string) (*domainauth.Session, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, errNoSession
}

// fakeAuth is a test double for AuthServiceInterface.
type fakeAuth struct {
	fakeSessions
	begin       ports.BeginOutput
	beginErr    error
	complete    domainauth.Session
	completeIn  service.CompleteLoginInput
	completeErr error
	loggedOut   []string
}

func (f *fakeAuth) BeginLogin(context.Context, string) (ports.BeginOutput, error) {
	return f.begin, f.beginErr
}

func (f *fakeAuth) CompleteLogin(_ context.Context, in service.CompleteLoginInput) (domainauth.Session, error) {
	f.completeIn = in
	return f.complete, f.completeErr
}

func (f *fakeAuth) Logout(_ context.Context, id string) error {
	f.loggedOut = append(f.loggedOut, id)
	return nil
}

// stubSettings answers TeamSync reads for the navigation service.
type stubSettings struct {
	doc    *model.PublicSettings
	status service.Status
	err    error

	updated *bool
}

func (s *stubSettings) GetPublicSetting(_ context.Context, selector string, _ ...service.QueryOption) (any, service.Status, error) {
	if s.err != nil || s.status == service.StatusPending {
		return nil, s.status, s.err
	}
	if selector == "TeamSync" && s.doc != nil {
		return s.doc.TeamSync, service.StatusReady, nil
	}
	return nil, service.StatusReady, nil
}

func (s *stubSettings) Public(context.Context, ...service.QueryOption) (*model.PublicSettings, service.Status, error) {
	return s.doc, s.status, s.err
}

func (s *stubSettings) UpdateTeamSync(_ context.Context, enabled bool) error {
	if s.err != nil {
		return s.err
	}
	s.updated = &enabled
	if s.doc != nil {
		s.doc.TeamSync = enabled
	}
	return nil
}

// newTestNav builds a real NavigationService over a mocked team repository.
// Users listed in leaders lead a team.
func newTestNav(t *testing.T, settings *stubSettings, leaders ...string) *service.NavigationService {
	t.Helper()
	return newCountingNav(t, settings, nil, leaders...)
}

// newCountingNav is newTestNav that also counts leadership lookups.
func newCountingNav(t *testing.T, settings *stubSettings, lookups *atomic.Int32, leaders ...string) *service.NavigationService {
	t.Helper()
	ctrl := gomock.NewController(t)
	teams := mocks.NewMockTeamRepository(ctrl)
	leading := make(map[string]bool, len(leaders))
	for _, id := range leaders {
		leading[id] = true
	}
	teams.EXPECT().IsLeader(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, userID string) (bool, error) {
			if lookups != nil {
				lookups.Add(1)
			}
			return leading[userID], nil
		},
	).AnyTimes()

	svc, err := service.NewNavigationService(service.NavigationServiceOptions{
		Teams:    teams,
		Settings: settings,
		Router:   nav.NewRouter(nav.DefaultRoutes()),
	})
	require.NoError(t, err)
	return svc
}

// fakeTemplates is a function-field test double for TemplatesService.
type fakeTemplates struct {
	list   func(domainauth.CurrentUser, service.TemplateListOptions) (*service.TemplatePage, error)
	get    func(domainauth.CurrentUser, int64) (*service.TemplateDetail, error)
	create func(domainauth.CurrentUser, model.CreateCustomTemplateRequest) (*model.CustomTemplate, error)
	update func(domainauth.CurrentUser, int64, model.UpdateCustomTemplateRequest) (*model.CustomTemplate, error)
	del    func(domainauth.CurrentUser, int64) error
}

func (f *fakeTemplates) List(_ context.Context, u domainauth.CurrentUser, o service.TemplateListOptions) (*service.TemplatePage, error) {
	if f.list == nil {
		return &service.TemplatePage{}, nil
	}
	return f.list(u, o)
}

func (f *fakeTemplates) Get(_ context.Context, u domainauth.CurrentUser, id int64) (*service.TemplateDetail, error) {
	return f.get(u, id)
}

func (f *fakeTemplates) Create(_ context.Context, u domainauth.CurrentUser, req model.CreateCustomTemplateRequest) (*model.CustomTemplate, error) {
	return f.create(u, req)
}

func (f *fakeTemplates) Update(_ context.Context, u domainauth.CurrentUser, id int64, req model.UpdateCustomTemplateRequest) (*model.CustomTemplate, error) {
	return f.update(u, id, req)
}

func (f *fakeTemplates) Delete(_ context.Context, u domainauth.CurrentUser, id int64) error {
	return f.del(u, id)
}

// requireRenderer parses the real templates or skips when they are missing.
func requireRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("templates not available")
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(TemplatePathFromTest)})
	require.NoError(t, err)
	return tr
}

// withSession attaches sess to the request context as the auth middleware would.
func withSession(r *http.Request, sess *domainauth.Session) *http.Request {
	return r.WithContext(SetSessionInContext(r.Context(), sess))
}
