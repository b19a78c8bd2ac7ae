// Package devauth provides a config-driven AuthProvider for local development.
// It skips the IdP round trip and signs in a fixed identity.
package devauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/ports"
	"github.com/dockhand/dockhand-ui/internal/util"
)

const (
	defaultSessionDuration = 8 * time.Hour
	callbackPath           = "/auth/callback"
	devCode                = "dev"
)

// Config controls the dev auth provider behavior.
// All fields are required except Groups, which may be empty.
type Config struct {
	UserID          string
	Email           string
	Groups          []string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider by redirecting straight to our own callback.
type Provider struct {
	identity        domainauth.Identity
	sessionDuration time.Duration
	now             func() time.Time
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur <= 0 {
		dur = defaultSessionDuration
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID: cfg.UserID,
			Email:  cfg.Email,
			Groups: append([]string(nil), cfg.Groups...),
		},
		sessionDuration: dur,
		now:             time.Now,
	}, nil
}

// Begin returns a local callback URL carrying a random state.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (ports.BeginOutput, error) {
	state, err := util.RandomString(24)
	if err != nil {
		return ports.BeginOutput{}, fmt.Errorf("generate state: %w", err)
	}
	nonce, err := util.RandomString(24)
	if err != nil {
		return ports.BeginOutput{}, fmt.Errorf("generate nonce: %w", err)
	}
	q := url.Values{"code": {devCode}, "state": {state}}
	return ports.BeginOutput{
		AuthURL: callbackPath + "?" + q.Encode(),
		State:   state,
		Nonce:   nonce,
	}, nil
}

// Exchange returns the configured identity with a fresh expiry. State and nonce
// are checked by the HTTP handler against the login cookie.
func (p *Provider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code != devCode {
		return domainauth.Identity{}, errors.New("dev auth: unexpected code")
	}
	id := p.identity
	id.Groups = append([]string(nil), p.identity.Groups...)
	id.ExpiresAt = p.now().Add(p.sessionDuration)
	return id, nil
}
