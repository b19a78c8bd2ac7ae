package httpx

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
)

// Home sends signed-in users to the custom templates list.
// GET /{$}.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, templatesBasePath, http.StatusFound)
}

// SignedOut renders a simple signed-out page with a Sign In button.
func (h *UIHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	redirect := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	loginURL := "/auth/login?redirect_uri=" + url.QueryEscape(redirect)
	if h.T == nil {
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
		return
	}

	var buf bytes.Buffer
	data := map[string]any{
		"Title":       "Signed out - Dockhand",
		"RedirectURI": redirect,
		"LoginURL":    loginURL,
	}
	if err := h.T.Execute(&buf, "signed-out-page", data); err != nil {
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().Error("failed to write signed-out response", "error", err)
	}
}

// NotFound handles 404 errors with auth-aware behavior: browsers get an
// HTML page, API clients a JSON error.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}

	isAuthenticated := GetSessionFromContext(r.Context()) != nil
	data := map[string]any{
		"Title":           "Page Not Found - Dockhand",
		"Code":            "404",
		"Message":         "The page you're looking for doesn't exist.",
		"IsAuthenticated": isAuthenticated,
		"ShowLogin":       !isAuthenticated,
		"RedirectURI":     safeRedirectPath(r.URL.RequestURI()),
	}

	var buf bytes.Buffer
	if h.T == nil || h.T.Execute(&buf, "error-layout", data) != nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().Error("failed to write not found response", "error", err)
	}
}
