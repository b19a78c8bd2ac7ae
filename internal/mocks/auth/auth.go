// Package auth contains hand-written test doubles for the auth ports.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/ports"
)

var (
	_ ports.AuthProvider = (*FakeAuthProvider)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
	_ ports.RoleMapper   = StaticRoleMapper{}
)

// FakeAuthProvider simulates an IdP with deterministic state and nonce values.
// Set BeginErr/ExchangeErr to force failures.
type FakeAuthProvider struct {
	AuthURL     string
	Identity    domainauth.Identity
	BeginErr    error
	ExchangeErr error

	mu        sync.Mutex
	calls     int
	Exchanges []ports.ExchangeInput
}

// NewFakeAuthProvider returns a provider that signs in "mock-user-1" as a member of "users".
func NewFakeAuthProvider() *FakeAuthProvider {
	return &FakeAuthProvider{
		AuthURL: "https://mock-idp/auth",
		Identity: domainauth.Identity{
			UserID:    "mock-user-1",
			FirstName: "Mock",
			LastName:  "User",
			Email:     "mock.user@example.com",
			Groups:    []string{"users"},
		},
	}
}

func (f *FakeAuthProvider) Begin(_ context.Context, _ ports.BeginInput) (ports.BeginOutput, error) {
	if f.BeginErr != nil {
		return ports.BeginOutput{}, f.BeginErr
	}
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	return ports.BeginOutput{
		AuthURL: f.AuthURL,
		State:   fmt.Sprintf("state-%d", n),
		Nonce:   fmt.Sprintf("nonce-%d", n),
	}, nil
}

func (f *FakeAuthProvider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	f.mu.Lock()
	f.Exchanges = append(f.Exchanges, in)
	f.mu.Unlock()
	if f.ExchangeErr != nil {
		return domainauth.Identity{}, f.ExchangeErr
	}
	id := f.Identity
	if id.ExpiresAt.IsZero() {
		id.ExpiresAt = time.Now().Add(time.Hour)
	}
	return id, nil
}

// MemorySessionStore is a map-backed SessionStore safe for concurrent tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are stored.
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StaticRoleMapper returns Role for every input.
type StaticRoleMapper struct {
	Role domainauth.Role
}

func (m StaticRoleMapper) Map(_ []string) domainauth.Role {
	if m.Role == "" {
		return domainauth.RoleGuest
	}
	return m.Role
}
