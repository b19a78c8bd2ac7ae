// Package memory provides in-process adapters used when Redis is disabled.
package memory

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/ports"
	gocache "github.com/patrickmn/go-cache"
)

const janitorInterval = 5 * time.Minute

// SessionStore keeps sessions in a go-cache map that expires entries at the
// session's own expiry. Sessions do not survive a restart or span replicas.
type SessionStore struct {
	cache *gocache.Cache
}

// NewSessionStore creates an empty in-memory SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{cache: gocache.New(gocache.NoExpiration, janitorInterval)}
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}
	s.cache.Set(sess.ID, sess, ttl)
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	sess, ok := v.(domainauth.Session)
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}
