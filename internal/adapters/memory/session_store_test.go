package memory

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.SessionStore = (*SessionStore)(nil)

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess := domainauth.Session{ID: "s1", UserID: "u1", Role: domainauth.RoleAdmin, ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.Error(t, store.Save(ctx, domainauth.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Second)}))
	require.Error(t, store.Save(ctx, domainauth.Session{ExpiresAt: time.Now().Add(time.Minute)}))

	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "short", ExpiresAt: time.Now().Add(20 * time.Millisecond)}))
	assert.Eventually(t, func() bool {
		_, err := store.Get(ctx, "short")
		return err != nil
	}, time.Second, 10*time.Millisecond)
}
