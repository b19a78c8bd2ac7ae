package devauth

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/dockhand/dockhand-ui/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{UserID: "dev-user", Email: "dev@example.com", Groups: []string{"admins"}})
	require.NoError(t, err)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	prov.now = func() time.Time { return fixed }

	out, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	u, err := url.Parse(out.AuthURL)
	require.NoError(t, err)
	assert.Equal(t, "/auth/callback", u.Path)
	assert.Equal(t, out.State, u.Query().Get("state"))
	assert.NotEmpty(t, out.Nonce)

	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: u.Query().Get("code"), State: out.State, Nonce: out.Nonce})
	require.NoError(t, err)
	assert.Equal(t, "dev-user", id.UserID)
	assert.Equal(t, []string{"admins"}, id.Groups)
	assert.Equal(t, fixed.Add(defaultSessionDuration), id.ExpiresAt)

	id.Groups[0] = "mutated"
	again, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: devCode})
	require.NoError(t, err)
	assert.Equal(t, []string{"admins"}, again.Groups)
}

func TestProvider_RejectsForeignCode(t *testing.T) {
	prov, err := NewProvider(Config{UserID: "u", Email: "u@example.com"})
	require.NoError(t, err)
	_, err = prov.Exchange(context.Background(), ports.ExchangeInput{Code: "real-idp-code"})
	require.Error(t, err)
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Email: "x@example.com"})
	require.Error(t, err)
	_, err = NewProvider(Config{UserID: "x"})
	require.Error(t, err)
}
