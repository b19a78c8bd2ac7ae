package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
	"github.com/dockhand/dockhand-ui/internal/service"
)

// NavigationService resolves the sidebar.
type NavigationService interface {
	Sidebar(ctx context.Context, sess *domainauth.Session, currentRoute string) (service.SidebarView, error)
	Router() *nav.Router
}

// TemplatesService is the custom templates use-case surface.
type TemplatesService interface {
	List(ctx context.Context, user domainauth.CurrentUser, opts service.TemplateListOptions) (*service.TemplatePage, error)
	Get(ctx context.Context, user domainauth.CurrentUser, id int64) (*service.TemplateDetail, error)
	Create(ctx context.Context, user domainauth.CurrentUser, req model.CreateCustomTemplateRequest) (*model.CustomTemplate, error)
	Update(ctx context.Context, user domainauth.CurrentUser, id int64, req model.UpdateCustomTemplateRequest) (*model.CustomTemplate, error)
	Delete(ctx context.Context, user domainauth.CurrentUser, id int64) error
}

// SettingsService reads and changes public settings.
type SettingsService interface {
	Public(ctx context.Context, opts ...service.QueryOption) (*model.PublicSettings, service.Status, error)
	UpdateTeamSync(ctx context.Context, enabled bool) error
}

var (
	_ NavigationService = (*service.NavigationService)(nil)
	_ TemplatesService  = (*service.CustomTemplateService)(nil)
	_ SettingsService   = (*service.SettingsService)(nil)
)

// APIHandlers serves the JSON API.
type APIHandlers struct {
	Nav       NavigationService
	Templates TemplatesService
	Settings  SettingsService
	Logger    *slog.Logger
}

func (h *APIHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *APIHandlers) serviceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, _ := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger().ErrorContext(r.Context(), op+" failed", "error", err, "request_id", RequestID(r.Context()))
	}
	WriteServiceError(w, err)
}

// Sidebar returns the resolved administration sidebar.
// GET /api/sidebar?route=<route name>.
func (h *APIHandlers) Sidebar(w http.ResponseWriter, r *http.Request) {
	view, err := h.Nav.Sidebar(r.Context(), GetSessionFromContext(r.Context()), r.URL.Query().Get("route"))
	if err != nil {
		h.serviceError(w, r, "sidebar", err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// ListTemplates returns one page of custom templates.
// GET /api/custom_templates?q=&type=&sort=&dir=&limit=&offset=&selected=.
func (h *APIHandlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	opts, err := templateListOptions(r)
	if err != nil {
		writeBadRequest(w, "invalid_query", err.Error())
		return
	}
	page, err := h.Templates.List(r.Context(), GetCurrentUserFromContext(r.Context()), opts)
	if err != nil {
		h.serviceError(w, r, "list templates", err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// GetTemplate returns one template with its rendered note.
// GET /api/custom_templates/{id}.
func (h *APIHandlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid_id", "id must be a positive integer")
		return
	}
	detail, err := h.Templates.Get(r.Context(), GetCurrentUserFromContext(r.Context()), id)
	if err != nil {
		h.serviceError(w, r, "get template", err)
		return
	}
	WriteJSON(w, http.StatusOK, detail)
}

// CreateTemplate stores a template owned by the caller.
// POST /api/custom_templates.
func (h *APIHandlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCustomTemplateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	tmpl, err := h.Templates.Create(r.Context(), GetCurrentUserFromContext(r.Context()), req)
	if err != nil {
		h.serviceError(w, r, "create template", err)
		return
	}
	WriteJSON(w, http.StatusCreated, tmpl)
}

// UpdateTemplate replaces the editable fields of a template.
// PUT /api/custom_templates/{id}.
func (h *APIHandlers) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid_id", "id must be a positive integer")
		return
	}
	var req model.UpdateCustomTemplateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	tmpl, err := h.Templates.Update(r.Context(), GetCurrentUserFromContext(r.Context()), id, req)
	if err != nil {
		h.serviceError(w, r, "update template", err)
		return
	}
	WriteJSON(w, http.StatusOK, tmpl)
}

// DeleteTemplate removes a template when the caller owns it or is an admin.
// DELETE /api/custom_templates/{id}.
func (h *APIHandlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid_id", "id must be a positive integer")
		return
	}
	if err := h.Templates.Delete(r.Context(), GetCurrentUserFromContext(r.Context()), id); err != nil {
		h.serviceError(w, r, "delete template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type publicSettingsResponse struct {
	Settings *model.PublicSettings `json:"settings"`
	Status   string                `json:"status"`
}

// PublicSettings returns the cached public settings document. A pending
// status means the first load has not finished yet.
// GET /api/settings/public.
func (h *APIHandlers) PublicSettings(w http.ResponseWriter, r *http.Request) {
	doc, status, err := h.Settings.Public(r.Context())
	if err != nil {
		h.serviceError(w, r, "public settings", err)
		return
	}
	WriteJSON(w, http.StatusOK, publicSettingsResponse{Settings: doc, Status: status.String()})
}

type teamSyncRequest struct {
	Enabled *bool `json:"enabled"`
}

// UpdateTeamSync toggles the team sync setting.
// PUT /api/settings/team-sync.
func (h *APIHandlers) UpdateTeamSync(w http.ResponseWriter, r *http.Request) {
	var req teamSyncRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Enabled == nil {
		writeBadRequest(w, "validation", "enabled is required")
		return
	}
	if err := h.Settings.UpdateTeamSync(r.Context(), *req.Enabled); err != nil {
		h.serviceError(w, r, "update team sync", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"enabled": *req.Enabled})
}

var errInvalidType = errors.New("type must be swarm, compose or kubernetes")

// templateListOptions reads list filters shared by the API and UI handlers.
func templateListOptions(r *http.Request) (service.TemplateListOptions, error) {
	limit, offset := ParseLimitOffset(r, DefaultPageLimit, MaxPageLimit)
	sort, dir := ParseSortParam(r, "created_at", "title")
	q := r.URL.Query()

	opts := service.TemplateListOptions{
		CustomTemplatesListOptions: model.CustomTemplatesListOptions{
			Limit:  limit,
			Offset: offset,
			Q:      optionalString(q.Get("q")),
			Sort:   sort,
			Dir:    dir,
		},
	}
	if raw := q.Get("type"); raw != "" {
		t, ok := model.ParseStackType(raw)
		if !ok {
			return opts, errInvalidType
		}
		opts.Type = &t
	}
	if raw := q.Get("selected"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			opts.SelectedID = id
		}
	}
	return opts, nil
}
