package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dockhand/dockhand-ui/internal/core"
	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
	obserrors "github.com/dockhand/dockhand-ui/internal/observability/errors"
	"github.com/dockhand/dockhand-ui/internal/observability/metrics"
)

const (
	teamSyncSelector         = "TeamSync"
	defaultSignalReadTimeout = 2 * time.Second
)

// NavigationServiceOptions groups dependencies for NavigationService.
type NavigationServiceOptions struct {
	Teams    core.TeamRepository  // Required
	Settings PublicSettingQuerier // Required
	Router   *nav.Router          // Required
	Features nav.Features
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	// SignalTimeout bounds the leadership and team sync reads. Defaults to 2s.
	SignalTimeout time.Duration
}

// NavigationService resolves the sidebar for the signed-in user.
type NavigationService struct {
	teams    core.TeamRepository
	settings PublicSettingQuerier
	router   *nav.Router
	features nav.Features
	logger   *slog.Logger
	metrics  *metrics.Metrics
	timeout  time.Duration
}

// SidebarView is a resolved sidebar along with the inputs that produced it.
type SidebarView struct {
	User       domainauth.CurrentUser `json:"user"`
	Nodes      []nav.Node             `json:"nodes"`
	Visibility nav.Visibility         `json:"visibility"`
	Signals    nav.Signals            `json:"signals"`
	HelpURL    string                 `json:"help_url"`
	// Degraded is set when a signal could not be read and fell back to its fail-closed value.
	Degraded bool `json:"degraded"`
}

// NewNavigationService constructs a NavigationService.
func NewNavigationService(opts NavigationServiceOptions) (*NavigationService, error) {
	if opts.Teams == nil {
		return nil, errors.New("TeamRepository is required")
	}
	if opts.Settings == nil {
		return nil, errors.New("settings querier is required")
	}
	if opts.Router == nil {
		return nil, errors.New("router is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.SignalTimeout
	if timeout <= 0 {
		timeout = defaultSignalReadTimeout
	}
	return &NavigationService{
		teams:    opts.Teams,
		settings: opts.Settings,
		router:   opts.Router,
		features: opts.Features,
		logger:   logger.With("component", "navigation_service"),
		metrics:  opts.Metrics,
		timeout:  timeout,
	}, nil
}

// Router exposes the route table used for URLs.
func (s *NavigationService) Router() *nav.Router { return s.router }

// Features returns the process-wide feature signals.
func (s *NavigationService) Features() nav.Features { return s.features }

// Sidebar resolves the administration sidebar for sess, highlighting
// currentRoute. Upstream failures never surface as errors: the affected
// signal falls back to its fail-closed value and the view is marked degraded.
// The only error is the caller's own context ending before resolution starts.
func (s *NavigationService) Sidebar(ctx context.Context, sess *domainauth.Session, currentRoute string) (SidebarView, error) {
	if err := ctx.Err(); err != nil {
		return SidebarView{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		isLeader  bool
		leaderErr error
		teamSync  nav.Flag
		syncErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		isLeader, leaderErr = s.isLeader(gctx, sess)
		return nil
	})
	g.Go(func() error {
		teamSync, syncErr = PublicBoolErr(gctx, s.settings, teamSyncSelector)
		return nil
	})
	_ = g.Wait()

	degraded := false
	if leaderErr != nil {
		degraded = true
		isLeader = false
		s.logger.WarnContext(ctx, "team leadership lookup failed; treating user as non-leader",
			"user_id", sessionUserID(sess), "error", leaderErr, "error_class", obserrors.Classify(leaderErr))
	}
	if syncErr != nil {
		degraded = true
		teamSync = nav.FlagUnknown
		s.logger.WarnContext(ctx, "team sync lookup failed; treating as disabled",
			"error", syncErr, "error_class", obserrors.Classify(syncErr))
	}

	user := domainauth.NewCurrentUser(sess, isLeader)
	signals := s.features.Signals(user, teamSync)
	vis := nav.Decide(signals)
	nodes := nav.Resolve(nav.SettingsSidebar(s.features), vis, nav.ResolveOptions{
		Router:       s.router,
		CurrentRoute: currentRoute,
	})

	if degraded {
		s.metrics.SidebarResolved(metrics.OutcomeDegraded)
	} else {
		s.metrics.SidebarResolved(metrics.OutcomeOK)
	}

	return SidebarView{
		User:       user,
		Nodes:      nodes,
		Visibility: vis,
		Signals:    signals,
		HelpURL:    s.features.Edition.HelpURL(),
		Degraded:   degraded,
	}, nil
}

func (s *NavigationService) isLeader(ctx context.Context, sess *domainauth.Session) (bool, error) {
	if sess == nil || sess.UserID == "" {
		return false, nil
	}
	return s.teams.IsLeader(ctx, sess.UserID)
}

func sessionUserID(sess *domainauth.Session) string {
	if sess == nil {
		return ""
	}
	return sess.UserID
}
