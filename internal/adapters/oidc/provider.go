// Package oidc implements ports.AuthProvider against an OpenID Connect issuer.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/ports"
	"github.com/dockhand/dockhand-ui/internal/util"
	"golang.org/x/oauth2"
)

const (
	stateLen = 32
	nonceLen = 32
)

// Provider implements the AuthProvider interface using OIDC/OAuth2.
type Provider struct {
	config    *oauth2.Config
	logoutURL string

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	LogoutURL    string
	HTTPClient   *http.Client // defaults to a client with a 30s timeout
}

// NewProvider runs discovery against the issuer and prepares the oauth2 config.
func NewProvider(ctx context.Context, cfg ProviderConfig) (*Provider, error) {
	switch {
	case cfg.ClientID == "":
		return nil, errors.New("client ID is required")
	case cfg.ClientSecret == "":
		return nil, errors.New("client secret is required")
	case cfg.RedirectURL == "":
		return nil, errors.New("redirect URL is required")
	case cfg.DiscoveryURL == "":
		return nil, errors.New("discovery URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	op, err := gooidc.NewProvider(gooidc.ClientContext(ctx, httpClient), issuerFromDiscoveryURL(cfg.DiscoveryURL))
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Provider{
		logoutURL:    cfg.LogoutURL,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint:     op.Endpoint(),
		},
	}, nil
}

// LogoutURL is the IdP end-session URL, empty when not configured.
func (p *Provider) LogoutURL() string { return p.logoutURL }

func issuerFromDiscoveryURL(u string) string {
	u = strings.TrimSuffix(u, "/")
	return strings.TrimSuffix(u, "/.well-known/openid-configuration")
}

// Begin builds the authorization URL with a fresh state and nonce.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (ports.BeginOutput, error) {
	if in.RedirectURL == "" {
		return ports.BeginOutput{}, errors.New("redirect URL is required")
	}
	state, err := util.RandomString(stateLen)
	if err != nil {
		return ports.BeginOutput{}, fmt.Errorf("generate state: %w", err)
	}
	nonce, err := util.RandomString(nonceLen)
	if err != nil {
		return ports.BeginOutput{}, fmt.Errorf("generate nonce: %w", err)
	}

	// redirect_uri comes from the registered config, never from the request.
	authURL := p.config.AuthCodeURL(state,
		gooidc.Nonce(nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return ports.BeginOutput{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// Exchange trades the code for tokens, verifies the id_token nonce and maps claims.
// Missing claims are filled from the userinfo endpoint.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	var c claims
	if p.hasOpenIDScope() {
		if c, err = p.verifyIDToken(ctx, token, in.Nonce); err != nil {
			return domainauth.Identity{}, fmt.Errorf("extract id_token: %w", err)
		}
	}
	if c.userID() == "" || c.Email == "" {
		ui, uiErr := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
		if uiErr != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", uiErr)
		}
		var extra claims
		if claimsErr := ui.Claims(&extra); claimsErr != nil {
			return domainauth.Identity{}, fmt.Errorf("decode user info: %w", claimsErr)
		}
		c = c.merge(extra)
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(time.Hour)
	}
	return domainauth.Identity{
		UserID:    c.userID(),
		FirstName: c.GivenName,
		LastName:  c.FamilyName,
		Email:     c.Email,
		Groups:    c.Groups,
		ExpiresAt: expiresAt,
	}, nil
}

func (p *Provider) verifyIDToken(ctx context.Context, tok *oauth2.Token, nonce string) (claims, error) {
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return claims{}, errors.New("missing id_token in token response")
	}
	idTok, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return claims{}, fmt.Errorf("verify id_token: %w", err)
	}
	if idTok.Nonce != nonce {
		return claims{}, errors.New("invalid nonce")
	}
	var c claims
	if err := idTok.Claims(&c); err != nil {
		return claims{}, fmt.Errorf("parse id_token claims: %w", err)
	}
	return c, nil
}

func (p *Provider) hasOpenIDScope() bool {
	for _, sc := range p.config.Scopes {
		if sc == gooidc.ScopeOpenID {
			return true
		}
	}
	return false
}

// claims is the subset of standard OIDC claims mapped into an Identity.
type claims struct {
	Subject           string   `json:"sub"`
	PreferredUsername string   `json:"preferred_username"`
	Email             string   `json:"email"`
	GivenName         string   `json:"given_name"`
	FamilyName        string   `json:"family_name"`
	Groups            []string `json:"groups"`
}

// userID prefers the human-readable username over the opaque subject.
func (c claims) userID() string {
	if c.PreferredUsername != "" {
		return c.PreferredUsername
	}
	return c.Subject
}

// merge fills empty fields of c from other.
func (c claims) merge(other claims) claims {
	if c.Subject == "" {
		c.Subject = other.Subject
	}
	if c.PreferredUsername == "" {
		c.PreferredUsername = other.PreferredUsername
	}
	if c.Email == "" {
		c.Email = other.Email
	}
	if c.GivenName == "" {
		c.GivenName = other.GivenName
	}
	if c.FamilyName == "" {
		c.FamilyName = other.FamilyName
	}
	if len(c.Groups) == 0 {
		c.Groups = other.Groups
	}
	return c
}
