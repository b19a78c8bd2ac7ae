package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dockhand/dockhand-ui/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":                 srv.URL,
			"authorization_endpoint": "https://idp.example.com/auth",
			"token_endpoint":         "https://idp.example.com/token",
			"userinfo_endpoint":      "https://idp.example.com/userinfo",
			"jwks_uri":               "https://idp.example.com/jwks",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func validConfig(discovery string) ProviderConfig {
	return ProviderConfig{
		ClientID:     "dockhand",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "openid profile email groups",
		DiscoveryURL: discovery + "/.well-known/openid-configuration",
		LogoutURL:    "https://idp.example.com/logout",
	}
}

func TestNewProvider_Success(t *testing.T) {
	srv := newDiscoveryServer(t)

	p, err := NewProvider(context.Background(), validConfig(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "https://idp.example.com/auth", p.config.Endpoint.AuthURL)
	assert.Equal(t, "https://idp.example.com/token", p.config.Endpoint.TokenURL)
	assert.Equal(t, "https://idp.example.com/logout", p.LogoutURL())
	assert.True(t, p.hasOpenIDScope())
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	base := validConfig("https://idp.example.com")
	tests := []struct {
		name   string
		mutate func(*ProviderConfig)
		errMsg string
	}{
		{"missing client ID", func(c *ProviderConfig) { c.ClientID = "" }, "client ID is required"},
		{"missing client secret", func(c *ProviderConfig) { c.ClientSecret = "" }, "client secret is required"},
		{"missing redirect URL", func(c *ProviderConfig) { c.RedirectURL = "" }, "redirect URL is required"},
		{"missing discovery URL", func(c *ProviderConfig) { c.DiscoveryURL = "" }, "discovery URL is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := NewProvider(context.Background(), cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Begin(t *testing.T) {
	srv := newDiscoveryServer(t)
	p, err := NewProvider(context.Background(), validConfig(srv.URL))
	require.NoError(t, err)

	out, err := p.Begin(context.Background(), ports.BeginInput{RedirectURL: "/templates/custom"})
	require.NoError(t, err)
	assert.Len(t, out.State, stateLen)
	assert.Len(t, out.Nonce, nonceLen)

	u, err := url.Parse(out.AuthURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, out.State, q.Get("state"))
	assert.Equal(t, out.Nonce, q.Get("nonce"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "http://localhost:8080/auth/callback", q.Get("redirect_uri"))

	_, err = p.Begin(context.Background(), ports.BeginInput{})
	require.Error(t, err)
}

func TestProvider_Exchange_RequiresInputs(t *testing.T) {
	p := &Provider{}
	_, err := p.Exchange(context.Background(), ports.ExchangeInput{State: "s", Nonce: "n"})
	require.ErrorContains(t, err, "authorization code")
	_, err = p.Exchange(context.Background(), ports.ExchangeInput{Code: "c", Nonce: "n"})
	require.ErrorContains(t, err, "state")
	_, err = p.Exchange(context.Background(), ports.ExchangeInput{Code: "c", State: "s"})
	require.ErrorContains(t, err, "nonce")
}

func TestClaims_MergeAndUserID(t *testing.T) {
	c := claims{Subject: "abc-123", Email: ""}
	assert.Equal(t, "abc-123", c.userID())

	c = c.merge(claims{PreferredUsername: "jdoe", Email: "jdoe@example.com", Groups: []string{"admins"}})
	assert.Equal(t, "jdoe", c.userID())
	assert.Equal(t, "jdoe@example.com", c.Email)
	assert.Equal(t, []string{"admins"}, c.Groups)

	c = c.merge(claims{Email: "other@example.com"})
	assert.Equal(t, "jdoe@example.com", c.Email, "existing values win")
}

func TestIssuerFromDiscoveryURL(t *testing.T) {
	assert.Equal(t, "https://idp.example.com/realms/x",
		issuerFromDiscoveryURL("https://idp.example.com/realms/x/.well-known/openid-configuration"))
	assert.Equal(t, "https://idp.example.com", issuerFromDiscoveryURL("https://idp.example.com/"))
}
