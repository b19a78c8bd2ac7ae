// Package authroles maps identity-provider groups to application roles.
package authroles

import (
	"strings"

	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
)

// StaticRoleMapper grants admin for AdminGroup and user for UserGroup. Group
// names compare case-insensitively; admin wins when both match. Anything else
// is a guest.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	role := domainauth.RoleGuest
	for _, g := range groups {
		switch {
		case matches(g, m.AdminGroup):
			return domainauth.RoleAdmin
		case matches(g, m.UserGroup):
			role = domainauth.RoleUser
		}
	}
	return role
}

func matches(group, want string) bool {
	return want != "" && strings.EqualFold(strings.TrimSpace(group), want)
}
