package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/ports"
	"github.com/dockhand/dockhand-ui/internal/service"
)

const (
	oauthStateCookie        = "oauth_state"
	oauthNonceCookie        = "oauth_nonce"
	postLoginRedirectCookie = "post_login_redirect"
	oauthCookieMaxAge       = 600
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (ports.BeginOutput, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login starts the sign-in flow.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     errors.New("unable to start sign in"),
		})
		return
	}

	h.setCookie(w, r, oauthStateCookie, result.State, oauthCookieMaxAge)
	h.setCookie(w, r, oauthNonceCookie, result.Nonce, oauthCookieMaxAge)
	h.setCookie(w, r, postLoginRedirectCookie, redirectURI, oauthCookieMaxAge)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback finishes the sign-in flow.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		writeBadRequest(w, "missing_code", "authorization code is required")
		return
	}
	if state == "" {
		writeBadRequest(w, "missing_state", "state parameter is required")
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value != state {
		writeBadRequest(w, "invalid_state", "invalid or missing state parameter")
		return
	}
	nonceCookie, err := r.Cookie(oauthNonceCookie)
	if err != nil || nonceCookie.Value == "" {
		writeBadRequest(w, "missing_nonce", "missing nonce parameter")
		return
	}

	session, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logger().WarnContext(r.Context(), "complete login failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "login_completion_failed",
			Err:     errors.New("sign in could not be completed"),
		})
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	h.setCookie(w, r, sessionCookieName, session.ID, maxAge)
	h.clearCookie(w, r, oauthStateCookie)
	h.clearCookie(w, r, oauthNonceCookie)

	http.Redirect(w, r, h.postLoginRedirect(w, r), http.StatusFound)
}

// Logout ends the session and sends the browser to the signed-out page.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), c.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	h.clearCookie(w, r, sessionCookieName)

	redirectURI := r.FormValue("redirect_uri")
	if redirectURI == "" {
		redirectURI = r.URL.Query().Get("redirect_uri")
	}
	u := url.URL{Path: "/auth/signed-out", RawQuery: url.Values{"redirect_uri": {safeRedirectPath(redirectURI)}}.Encode()}
	signedOutURL := u.String()

	if IsHTMX(r) || strings.Contains(r.Header.Get("Accept"), "application/json") {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": signedOutURL,
		})
		return
	}
	http.Redirect(w, r, signedOutURL, http.StatusFound)
}

type authStatusUser struct {
	ID        string          `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Role      domainauth.Role `json:"role"`
}

type authStatusResponse struct {
	Authenticated bool            `json:"authenticated"`
	User          *authStatusUser `json:"user,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
}

// Status reports whether the caller has a live session.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, authStatusResponse{})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), c.Value)
	if err != nil {
		h.clearCookie(w, r, sessionCookieName)
		WriteJSON(w, http.StatusOK, authStatusResponse{})
		return
	}

	WriteJSON(w, http.StatusOK, authStatusResponse{
		Authenticated: true,
		User: &authStatusUser{
			ID:        session.UserID,
			FirstName: session.FirstName,
			LastName:  session.LastName,
			Email:     session.Email,
			Role:      session.Role,
		},
		ExpiresAt: &session.ExpiresAt,
	})
}

func (h *AuthHandlers) setCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clearCookie expires a cookie with the same attributes it was set with so
// every browser drops it.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// postLoginRedirect returns the stored destination and clears its cookie.
func (h *AuthHandlers) postLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(postLoginRedirectCookie)
	if err != nil {
		return "/"
	}
	h.clearCookie(w, r, postLoginRedirectCookie)
	return safeRedirectPath(c.Value)
}

func writeBadRequest(w http.ResponseWriter, code, msg string) {
	WriteError(w, ErrorParams{
		Code:    http.StatusBadRequest,
		ErrCode: code,
		Err:     errors.New(msg),
	})
}
