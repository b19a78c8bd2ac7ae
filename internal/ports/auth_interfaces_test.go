package ports_test

import (
	"testing"

	mocks "github.com/dockhand/dockhand-ui/internal/mocks/auth"
	"github.com/dockhand/dockhand-ui/internal/ports"
)

func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthProvider = (*mocks.FakeAuthProvider)(nil)
	var _ ports.SessionStore = (*mocks.MemorySessionStore)(nil)
	var _ ports.RoleMapper = mocks.StaticRoleMapper{}
}
