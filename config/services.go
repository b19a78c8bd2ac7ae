package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeSettingsRefresher runs the public settings cache refresher.
	ServiceModeSettingsRefresher ServiceMode = "settings-refresher"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeSettingsRefresher,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeSettingsRefresher:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, settings-refresher)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// SettingsRefresherConfig contains settings refresher runner configuration.
type SettingsRefresherConfig struct {
	// Interval is the refresh tick interval.
	Interval time.Duration `env:"SETTINGS_REFRESHER_INTERVAL" envDefault:"30s"`
}

// Sanitize applies guardrails to refresher configuration values.
func (s *SettingsRefresherConfig) Sanitize() {
	if s.Interval < time.Second {
		s.Interval = time.Second
	}
}
