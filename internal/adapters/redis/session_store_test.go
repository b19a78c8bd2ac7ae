package redis

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/ports"
	"github.com/dockhand/dockhand-ui/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client, "")
	ctx := context.Background()

	sess := domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Role, got.Role)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)
	assert.True(t, client.Exists(ctx, defaultSessionPrefix+"sess-1").Val() == 1)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_Rejections(t *testing.T) {
	store := NewSessionStore(nil, "custom:")
	ctx := context.Background()

	require.Error(t, store.Save(ctx, domainauth.Session{ExpiresAt: time.Now().Add(time.Minute)}))
	require.Error(t, store.Save(ctx, domainauth.Session{ID: "x", ExpiresAt: time.Now().Add(-time.Minute)}))

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.NoError(t, store.Delete(ctx, ""))
	assert.Equal(t, "custom:", store.prefix)
}
