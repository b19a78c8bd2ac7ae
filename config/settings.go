package config

import "time"

// SettingsConfig controls how public settings are cached between the
// in-process cache, redis and postgres.
type SettingsConfig struct {
	// LocalTTL is how long a value is served from the in-process cache as fresh.
	LocalTTL time.Duration `env:"LOCAL_TTL" envDefault:"15s"`

	// SharedTTL is the redis expiry for the serialized settings document.
	SharedTTL time.Duration `env:"SHARED_TTL" envDefault:"5m"`

	// StaleTTL is how long past LocalTTL a value may still be served while it is refreshed.
	StaleTTL time.Duration `env:"STALE_TTL" envDefault:"10m"`

	// FetchTimeout bounds a single load from the backing stores.
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"3s"`
}

// Sanitize applies guardrails to settings cache values.
func (s *SettingsConfig) Sanitize() {
	if s.LocalTTL < time.Second {
		s.LocalTTL = time.Second
	}
	if s.SharedTTL < s.LocalTTL {
		s.SharedTTL = s.LocalTTL
	}
	if s.StaleTTL < 0 {
		s.StaleTTL = 0
	}
	if s.FetchTimeout <= 0 {
		s.FetchTimeout = 3 * time.Second
	}
}
