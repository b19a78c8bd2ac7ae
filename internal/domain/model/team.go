package model

import (
	"errors"
	"strings"
	"time"
)

// TeamRole is a user's role inside one team.
type TeamRole string

const (
	TeamRoleLeader TeamRole = "leader"
	TeamRoleMember TeamRole = "member"
)

// Valid reports whether the team role is supported.
func (r TeamRole) Valid() bool {
	return r == TeamRoleLeader || r == TeamRoleMember
}

// ParseTeamRole normalizes a role string and reports whether it is supported.
func ParseTeamRole(value string) (TeamRole, bool) {
	role := TeamRole(strings.ToLower(strings.TrimSpace(value)))
	if role.Valid() {
		return role, true
	}
	return "", false
}

// Team groups users for access delegation.
type Team struct {
	ID        int64     `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TeamMembership links a user to a team with a role.
type TeamMembership struct {
	TeamID int64    `json:"team_id" db:"team_id"`
	UserID string   `json:"user_id" db:"user_id"`
	Role   TeamRole `json:"role"    db:"role"`
}

// Validate validates TeamMembership.
func (m TeamMembership) Validate() error {
	if m.TeamID <= 0 {
		return errors.New("team_id is required")
	}
	if strings.TrimSpace(m.UserID) == "" {
		return errors.New("user_id is required")
	}
	if !m.Role.Valid() {
		return errors.New("invalid role")
	}
	return nil
}
