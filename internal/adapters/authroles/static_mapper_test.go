package authroles

import (
	"testing"

	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/stretchr/testify/assert"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	m := StaticRoleMapper{AdminGroup: "dockhand-admins", UserGroup: "dockhand-users"}

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
	}{
		{"no groups", nil, domainauth.RoleGuest},
		{"user", []string{"dockhand-users"}, domainauth.RoleUser},
		{"admin after user", []string{"dockhand-users", "Dockhand-Admins"}, domainauth.RoleAdmin},
		{"unrelated", []string{"ops"}, domainauth.RoleGuest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.groups))
		})
	}

	assert.Equal(t, domainauth.RoleGuest, StaticRoleMapper{}.Map([]string{""}))
}
