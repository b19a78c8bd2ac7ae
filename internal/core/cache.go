// Package core defines the ports between the service layer and its adapters.
package core

import (
	"context"
	"time"
)

// CacheRepository is a shared byte cache (Redis in production).
type CacheRepository interface {
	// Set stores a value with the given TTL. A TTL of 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns nil without error when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete reports whether the key existed.
	Delete(ctx context.Context, key string) (bool, error)

	Health(ctx context.Context) error
}
