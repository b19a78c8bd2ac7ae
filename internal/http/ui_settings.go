package httpx

import (
	"net/http"
	"strconv"

	"github.com/dockhand/dockhand-ui/internal/domain/nav"
	"github.com/dockhand/dockhand-ui/internal/service"
)

// sectionForRoute finds the sidebar node that owns route. Hidden entries are
// absent from the resolved tree, so a miss means the user may not see it.
func sectionForRoute(nodes []nav.Node, route string) (nav.Node, bool) {
	var (
		found nav.Node
		ok    bool
	)
	nav.Walk(nodes, func(n nav.Node) {
		if ok || n.Route != route || n.Kind == nav.KindParent {
			return
		}
		found, ok = n, true
	})
	return found, ok
}

// AdminSection renders the landing page of any administration sidebar entry.
// The page is served only when the entry is visible to the caller.
// GET /settings, /users, /registries, ...
func (h *UIHandlers) AdminSection(w http.ResponseWriter, r *http.Request) {
	data := h.basePageData(r, PageMeta{CurrentPage: PageSettings})
	layout := extractLayoutInfo(data)

	node, ok := sectionForRoute(layout.Sidebar, layout.CurrentRoute)
	if !ok {
		showAccessDenied(w, r)
		return
	}
	setPageTitle(data, node.Label+" - Dockhand", node.Label)
	data["Section"] = node

	if layout.CurrentRoute == nav.RouteSettings && h.Settings != nil {
		doc, status, err := h.Settings.Public(r.Context())
		switch {
		case err != nil:
			h.logger().WarnContext(r.Context(), "public settings unavailable", "error", err)
			markPageError(data)
		case status == service.StatusPending:
			data["SettingsPending"] = true
		default:
			data["Settings"] = doc
		}
	}
	h.renderPage(w, r, data)
}

// UpdateTeamSync toggles team sync from the general settings page.
// POST /settings/team-sync (form field "enabled").
func (h *UIHandlers) UpdateTeamSync(w http.ResponseWriter, r *http.Request) {
	enabled, err := strconv.ParseBool(r.PostFormValue("enabled"))
	if err != nil {
		http.Error(w, "enabled must be true or false", http.StatusBadRequest)
		return
	}
	if err := h.Settings.UpdateTeamSync(r.Context(), enabled); err != nil {
		h.logger().ErrorContext(r.Context(), "team sync update failed", "error", err)
		triggerToast(w, processError(err, nil), "error")
		status, _ := errorStatus(err)
		w.WriteHeader(status)
		return
	}

	msg := "Team sync disabled."
	if enabled {
		msg = "Team sync enabled."
	}
	triggerToast(w, msg, "success")
	redirectAfterAction(w, r, "/settings")
}
