package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// level orders roles as guest < user < admin. Unknown roles have no level.
func (r Role) level() (int, bool) {
	switch r {
	case RoleGuest:
		return 0, true
	case RoleUser:
		return 1, true
	case RoleAdmin:
		return 2, true
	default:
		return 0, false
	}
}

// Satisfies reports whether r meets or exceeds required.
func (r Role) Satisfies(required Role) bool {
	have, ok := r.level()
	if !ok {
		return false
	}
	need, ok := required.level()
	if !ok {
		return false
	}
	return have >= need
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (e.g., sub or username)
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// IsAdmin returns true if the session role is admin.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// CurrentUser is the per-request view of the signed-in user that visibility
// decisions read. It is a snapshot; nothing mutates it after resolution.
type CurrentUser struct {
	ID           string `json:"id"`
	IsAdmin      bool   `json:"is_admin"`
	IsTeamLeader bool   `json:"is_team_leader"`
}

// NewCurrentUser builds a CurrentUser from a session. Team leadership is
// supplied by the caller because it lives in team memberships, not the session.
func NewCurrentUser(sess *Session, isTeamLeader bool) CurrentUser {
	if sess == nil {
		return CurrentUser{}
	}
	return CurrentUser{
		ID:           sess.UserID,
		IsAdmin:      sess.IsAdmin(),
		IsTeamLeader: isTeamLeader,
	}
}

// IsAnonymous reports whether no user is signed in.
func (u CurrentUser) IsAnonymous() bool { return u.ID == "" }
