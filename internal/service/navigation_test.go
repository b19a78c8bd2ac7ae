package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
	"github.com/dockhand/dockhand-ui/internal/mocks"
	"github.com/dockhand/dockhand-ui/internal/observability/metrics"
)

type stubQuerier struct {
	value  any
	status Status
	err    error
}

func (q stubQuerier) GetPublicSetting(context.Context, string, ...QueryOption) (any, Status, error) {
	return q.value, q.status, q.err
}

func newTestNavigationService(t *testing.T, teams *mocks.MockTeamRepository, q PublicSettingQuerier, m *metrics.Metrics) *NavigationService {
	t.Helper()
	svc, err := NewNavigationService(NavigationServiceOptions{
		Teams:    teams,
		Settings: q,
		Router:   nav.NewRouter(nav.DefaultRoutes()),
		Features: nav.Features{Edition: nav.EditionCE},
		Metrics:  m,
	})
	require.NoError(t, err)
	return svc
}

func userSession(id string, role domainauth.Role) *domainauth.Session {
	return &domainauth.Session{ID: "s-" + id, UserID: id, Role: role}
}

func TestNewNavigationService_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	teams := mocks.NewMockTeamRepository(ctrl)

	_, err := NewNavigationService(NavigationServiceOptions{Settings: stubQuerier{}, Router: nav.NewRouter(nil)})
	require.Error(t, err)
	_, err = NewNavigationService(NavigationServiceOptions{Teams: teams, Router: nav.NewRouter(nil)})
	require.Error(t, err)
	_, err = NewNavigationService(NavigationServiceOptions{Teams: teams, Settings: stubQuerier{}})
	require.Error(t, err)
}

func TestNavigationService_Sidebar(t *testing.T) {
	tests := []struct {
		name         string
		sess         *domainauth.Session
		leader       bool
		leaderErr    error
		setting      stubQuerier
		wantUsers    bool
		wantSettings bool
		wantDegraded bool
	}{
		{
			name:         "admin",
			sess:         userSession("admin", domainauth.RoleAdmin),
			setting:      stubQuerier{value: true},
			wantUsers:    true,
			wantSettings: true,
		},
		{
			name:      "team leader with team sync off",
			sess:      userSession("lead", domainauth.RoleUser),
			leader:    true,
			setting:   stubQuerier{value: false},
			wantUsers: true,
		},
		{
			name:    "team leader with team sync on",
			sess:    userSession("lead", domainauth.RoleUser),
			leader:  true,
			setting: stubQuerier{value: true},
		},
		{
			name:      "team leader while team sync is loading",
			sess:      userSession("lead", domainauth.RoleUser),
			leader:    true,
			setting:   stubQuerier{status: StatusPending},
			wantUsers: true,
		},
		{
			name:         "team leader when settings fail",
			sess:         userSession("lead", domainauth.RoleUser),
			leader:       true,
			setting:      stubQuerier{err: errors.New("redis down")},
			wantUsers:    true,
			wantDegraded: true,
		},
		{
			name:         "leadership lookup fails closed",
			sess:         userSession("lead", domainauth.RoleUser),
			leaderErr:    errors.New("db down"),
			setting:      stubQuerier{value: false},
			wantDegraded: true,
		},
		{
			name:    "plain user",
			sess:    userSession("u", domainauth.RoleUser),
			setting: stubQuerier{value: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			teams := mocks.NewMockTeamRepository(ctrl)
			teams.EXPECT().IsLeader(gomock.Any(), tt.sess.UserID).Return(tt.leader, tt.leaderErr)
			m := metrics.New()

			svc := newTestNavigationService(t, teams, tt.setting, m)
			view, err := svc.Sidebar(context.Background(), tt.sess, nav.RouteUsers)
			require.NoError(t, err)

			assert.Equal(t, tt.wantUsers, view.Visibility.UserManagement)
			assert.Equal(t, tt.wantSettings, view.Visibility.Settings)
			assert.Equal(t, tt.wantDegraded, view.Degraded)
			assert.True(t, view.Visibility.Notifications)

			_, hasUsers := nav.Find(view.Nodes, nav.KeyUsers)
			assert.Equal(t, tt.wantUsers, hasUsers)
			if hasUsers {
				users, _ := nav.Find(view.Nodes, nav.KeyUsers)
				assert.True(t, users.Active)
			}

			outcome := metrics.OutcomeOK
			if tt.wantDegraded {
				outcome = metrics.OutcomeDegraded
			}
			expected := fmt.Sprintf(`
# HELP dockhand_nav_sidebar_resolutions_total Sidebar resolutions by outcome; degraded means an upstream signal fell back to fail-closed.
# TYPE dockhand_nav_sidebar_resolutions_total counter
dockhand_nav_sidebar_resolutions_total{outcome=%q} 1
`, outcome)
			require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
				"dockhand_nav_sidebar_resolutions_total"))
		})
	}
}

func TestNavigationService_AnonymousSkipsTeamLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	teams := mocks.NewMockTeamRepository(ctrl)

	svc := newTestNavigationService(t, teams, stubQuerier{value: false}, nil)
	view, err := svc.Sidebar(context.Background(), nil, "")
	require.NoError(t, err)
	assert.True(t, view.User.IsAnonymous())
	assert.Equal(t, nav.Visibility{Notifications: true}, view.Visibility)
	assert.Equal(t, nav.EditionCE.HelpURL(), view.HelpURL)
}

func TestNavigationService_CanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	teams := mocks.NewMockTeamRepository(ctrl)
	svc := newTestNavigationService(t, teams, stubQuerier{value: false}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Sidebar(ctx, userSession("u", domainauth.RoleUser), "")
	require.ErrorIs(t, err, context.Canceled)
}

