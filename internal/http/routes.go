package httpx

import (
	"bytes"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"

	dockhand "github.com/dockhand/dockhand-ui"
	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
	"github.com/dockhand/dockhand-ui/internal/observability/metrics"
	"github.com/dockhand/dockhand-ui/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      *service.AuthService
	Nav       NavigationService
	Templates TemplatesService
	Settings  SettingsService

	Metrics      *metrics.Metrics // Optional: request metrics and the scrape endpoint
	MetricsPath  string           // Defaults to /metrics
	HealthChecks map[string]HealthCheck

	CookieDomain string
	IsDev        bool         // Serve templates and static files from disk
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates the HTTP handler: API, auth and UI routes behind
// recovery, request logging, browser detection and metrics.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	health := HealthHandler{Checks: services.HealthChecks}
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)

	if services.Metrics != nil {
		path := services.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, services.Metrics.Handler())
	}

	var sessions SessionReader
	if services.Auth != nil {
		sessions = services.Auth
		registerAuthRoutes(mux, &AuthHandlers{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: logger})
	}

	registerAPIRoutes(mux, &APIHandlers{
		Nav:       services.Nav,
		Templates: services.Templates,
		Settings:  services.Settings,
		Logger:    logger.With("component", "api"),
	}, sessions)

	mux.Handle("GET /static/", staticHandler(services.IsDev, logger))

	uiHandlers := setupUIHandlers(services, logger)
	if uiHandlers != nil {
		registerUIRoutes(mux, uiHandlers, uiRouteConfig{Sessions: sessions, CookieDomain: services.CookieDomain})
	}

	var handler http.Handler = &notFoundHandler{mux: mux, uiHandlers: uiHandlers, logger: logger}
	handler = Metrics(services.Metrics)(handler)
	handler = BrowserDetection()(handler)
	handler = Logging(logger.With("component", "http"))(handler)
	return Recover(logger)(handler)
}

// setupUIHandlers loads templates from disk in dev mode and from the
// embedded FS otherwise. A renderer failure disables the UI, not the API.
func setupUIHandlers(services RouterServices, logger *slog.Logger) *UIHandlers {
	var templateFS fs.FS
	if services.IsDev {
		templateFS = os.DirFS(TemplatePathFromRoot)
	} else {
		sub, err := fs.Sub(dockhand.TemplateFS, TemplatePathFromRoot)
		if err != nil {
			logger.Error("embedded templates unavailable; falling back to disk", slog.Any("error", err))
			sub = os.DirFS(TemplatePathFromRoot)
		}
		templateFS = sub
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		DevMode:    services.IsDev,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to create template renderer", slog.Any("error", err))
		return nil
	}

	return &UIHandlers{
		T:         tr,
		Nav:       services.Nav,
		Templates: services.Templates,
		Settings:  services.Settings,
		IsDev:     services.IsDev,
		Logger:    logger.With("component", "ui"),
	}
}

// staticHandler serves /static/* from disk in dev mode and from the
// embedded FS otherwise.
func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	const dir = "frontend/static"
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
	}
	sub, err := fs.Sub(dockhand.StaticFS, dir)
	if err != nil {
		logger.Error("embedded static assets unavailable; falling back to disk", slog.Any("error", err))
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
}

// hashedFilePattern matches content-hashed names such as app.abc12345.css.
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders caches hashed assets for a year and everything else not at all.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
	logger     *slog.Logger
}

// ServeHTTP replaces the mux's plain-text 404 with the HTML or JSON one.
// Missing static files keep the file server response.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)

	if cw.status != http.StatusNotFound || strings.HasPrefix(r.URL.Path, "/static/") || r.Pattern != "" {
		cw.flushTo(w, h.logger)
		return
	}
	if h.uiHandlers != nil {
		h.uiHandlers.NotFound(w, r)
		return
	}
	http.NotFound(w, r)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter, logger *slog.Logger) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		logger.Debug("failed to write captured response", slog.Any("error", err))
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// optional returns mw, or a no-op when no session source is configured.
func optional(sessions SessionReader, mw func(SessionReader) func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if sessions == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return mw(sessions)
}

func registerAPIRoutes(mux *http.ServeMux, h *APIHandlers, sessions SessionReader) {
	authed := optional(sessions, RequireAuth)
	admin := optional(sessions, func(s SessionReader) func(http.Handler) http.Handler {
		return RequireRole(s, domainauth.RoleAdmin)
	})

	mux.Handle("GET /api/sidebar", authed(http.HandlerFunc(h.Sidebar)))

	mux.Handle("GET /api/custom_templates", authed(http.HandlerFunc(h.ListTemplates)))
	mux.Handle("POST /api/custom_templates", authed(http.HandlerFunc(h.CreateTemplate)))
	mux.Handle("GET /api/custom_templates/{id}", authed(http.HandlerFunc(h.GetTemplate)))
	mux.Handle("PUT /api/custom_templates/{id}", authed(http.HandlerFunc(h.UpdateTemplate)))
	mux.Handle("DELETE /api/custom_templates/{id}", authed(http.HandlerFunc(h.DeleteTemplate)))

	mux.Handle("GET /api/settings/public", authed(http.HandlerFunc(h.PublicSettings)))
	mux.Handle("PUT /api/settings/team-sync", admin(http.HandlerFunc(h.UpdateTeamSync)))
}

// uiRouteConfig holds configuration for UI route registration.
type uiRouteConfig struct {
	Sessions     SessionReader
	CookieDomain string
}

// authWrap requires a browser session and applies CSRF protection.
func (cfg uiRouteConfig) authWrap() func(http.Handler) http.Handler {
	csrf := CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
	auth := optional(cfg.Sessions, RequireAuthBrowser)
	return func(h http.Handler) http.Handler { return auth(csrf(h)) }
}

// adminWrap is authWrap restricted to administrators.
func (cfg uiRouteConfig) adminWrap() func(http.Handler) http.Handler {
	csrf := CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
	roleCheck := optional(cfg.Sessions, func(s SessionReader) func(http.Handler) http.Handler {
		return RequireRoleBrowser(s, domainauth.RoleAdmin)
	})
	return func(h http.Handler) http.Handler { return roleCheck(csrf(h)) }
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	registerUITemplateRoutes(mux, h, cfg)
	registerUIAdminRoutes(mux, h, cfg)
	mux.Handle("GET /auth/signed-out", http.HandlerFunc(h.SignedOut))
}

func registerUITemplateRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /{$}", wrap(http.HandlerFunc(h.Home)))
	mux.Handle("GET /templates/custom", wrap(http.HandlerFunc(h.TemplatesList)))
	mux.Handle("GET /templates/custom/new", wrap(http.HandlerFunc(h.TemplateNew)))
	mux.Handle("POST /templates/custom", wrap(http.HandlerFunc(h.TemplateCreate)))
	mux.Handle("GET /templates/custom/{id}", wrap(http.HandlerFunc(h.TemplateView)))
	mux.Handle("GET /templates/custom/{id}/edit", wrap(http.HandlerFunc(h.TemplateEdit)))
	mux.Handle("POST /templates/custom/{id}", wrap(http.HandlerFunc(h.TemplateUpdate)))
	mux.Handle("POST /templates/custom/{id}/delete", wrap(http.HandlerFunc(h.TemplateDelete)))
	mux.Handle("POST /templates/custom/{id}/action", wrap(http.HandlerFunc(h.TemplateAction)))
}

// registerUIAdminRoutes serves a landing page for every administration
// sidebar route. Visibility is enforced per page against the resolved sidebar.
func registerUIAdminRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	for name, path := range nav.DefaultRoutes() {
		if name == nav.RouteHome || strings.HasPrefix(name, "dockhand.templates.") {
			continue
		}
		mux.Handle("GET "+path, wrap(http.HandlerFunc(h.AdminSection)))
	}
	mux.Handle("POST /settings/team-sync", cfg.adminWrap()(http.HandlerFunc(h.UpdateTeamSync)))
}
