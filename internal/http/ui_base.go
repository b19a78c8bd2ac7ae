package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dockhand/dockhand-ui/internal/http/ui/viewmodel"
)

const errMsgFixBelow = "Please fix the errors below."

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T         *TemplateRenderer
	Nav       NavigationService
	Templates TemplatesService
	Settings  SettingsService
	IsDev     bool // Development mode flag for enhanced error reporting
	Logger    *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// getPageParams parses pagination params from URL query with sane defaults.
func getPageParams(q url.Values) (int, int) {
	page := 1
	pageSize := DefaultPageLimit
	if p := q.Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	if s := q.Get("page_size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= MaxPageLimit {
			pageSize = n
		}
	}
	return page, pageSize
}

// pageOpts represents pagination options for list views.
type pageOpts struct {
	Page     int
	PageSize int
}

// LimitAndOffset converts a 1-based page into repository bounds.
func (p pageOpts) LimitAndOffset() (int, int) {
	page := max(p.Page, 1)
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageLimit
	}
	return pageSize, (page - 1) * pageSize
}

// buildPageURL returns a URL with page and page_size set, preserving other
// non-blank query params. htmx bookkeeping params are dropped.
func buildPageURL(basePath string, q url.Values, p pageOpts) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") {
			continue
		}
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				qq.Add(k, s)
			}
		}
	}
	qq.Set("page", strconv.Itoa(p.Page))
	qq.Set("page_size", strconv.Itoa(p.PageSize))
	return basePath + "?" + qq.Encode()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// currentRoute maps the request path onto a route name for sidebar
// highlighting. Unknown paths yield "".
func (h *UIHandlers) currentRoute(r *http.Request) string {
	if h.Nav == nil {
		return ""
	}
	name, _, ok := h.Nav.Router().Match(r.URL.Path)
	if !ok {
		return ""
	}
	return name
}

// buildLayout constructs shared layout metadata from the request/session context.
func (h *UIHandlers) buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:        meta.Title,
		PageTitle:    meta.PageTitle,
		CurrentPage:  meta.CurrentPage,
		CurrentRoute: h.currentRoute(r),
		CSRFToken:    GetCSRFToken(r),
	}

	session := GetSessionFromContext(r.Context())
	if session != nil {
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{
			Email:   session.Email,
			Name:    strings.TrimSpace(session.FirstName + " " + session.LastName),
			Role:    string(session.Role),
			IsAdmin: session.IsAdmin(),
		}
	}

	if h.Nav == nil || session == nil {
		return layout
	}
	view, err := h.Nav.Sidebar(r.Context(), session, layout.CurrentRoute)
	if err != nil {
		h.logger().DebugContext(r.Context(), "sidebar skipped", "error", err)
		return layout
	}
	layout.Sidebar = view.Nodes
	layout.HelpURL = view.HelpURL
	layout.SidebarDegraded = view.Degraded
	layout.User.IsTeamLeader = view.User.IsTeamLeader
	return layout
}

// basePageData constructs the common page data map with user context.
func (h *UIHandlers) basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := h.buildLayout(r, meta)
	data := map[string]any{
		"Layout":          &layout,
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"CurrentRoute":    layout.CurrentRoute,
		"IsAuthenticated": layout.IsAuthenticated,
		"Sidebar":         layout.Sidebar,
		"HelpURL":         layout.HelpURL,
		"SidebarDegraded": layout.SidebarDegraded,
	}
	if layout.CSRFToken != "" {
		data["CSRFToken"] = layout.CSRFToken
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := h.basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			h.logger().WarnContext(r.Context(), "page fetch failed",
				"page", spec.Meta.CurrentPage, "error", err, "request_id", RequestID(r.Context()))
			markPageError(data)
		}
	}
	h.renderPage(w, r, data)
}

// renderPage renders a full page, or for htmx the content plus out-of-band
// title, header and sidebar updates.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	layout := extractLayoutInfo(data)
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path, "route": layout.CurrentRoute})

	head := `<title>` + html.EscapeString(layout.Title) + `</title>` +
		`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + html.EscapeString(layout.PageTitle) + `</h1>`
	if _, err := w.Write([]byte(head)); err != nil {
		h.logger().Error("failed to write partial header", "error", err)
		return
	}

	if err := h.T.Execute(w, "sidebar-oob", data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial sidebar render")
		return
	}
	if err := h.T.Execute(w, ContentTemplateFor(layout.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// setPageTitle overrides titles known only after the layout was built.
func setPageTitle(data map[string]any, title, pageTitle string) {
	data["Title"] = title
	data["PageTitle"] = pageTitle
	if layout, ok := data["Layout"].(*viewmodel.Layout); ok && layout != nil {
		layout.Title = title
		layout.PageTitle = pageTitle
	}
}

func markPageError(data map[string]any) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = "An unexpected error occurred. Please try again."
}

func extractLayoutInfo(data map[string]any) viewmodel.Layout {
	if layout, ok := data["Layout"].(*viewmodel.Layout); ok && layout != nil {
		return *layout
	}
	layout := viewmodel.Layout{}
	layout.Title, _ = data["Title"].(string)
	layout.PageTitle, _ = data["PageTitle"].(string)
	layout.CurrentPage, _ = data["CurrentPage"].(string)
	return layout
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if !h.IsDev {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	body := `<div class="dev-error"><h2>Template Rendering Error</h2>` +
		`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
		`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
		`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`
	if _, writeErr := w.Write([]byte(body)); writeErr != nil {
		h.logger().Error("failed to write template error response", "error", writeErr)
	}
}
