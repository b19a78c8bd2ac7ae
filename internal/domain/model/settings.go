package model

import "time"

// PublicSettings is the settings document readable by any signed-in user.
// Field names are the selector paths clients query (e.g. "TeamSync").
type PublicSettings struct {
	TeamSync                  bool      `json:"TeamSync"`
	AuthenticationMethod      string    `json:"AuthenticationMethod"`
	EnableTelemetry           bool      `json:"EnableTelemetry"`
	EnableEdgeComputeFeatures bool      `json:"EnableEdgeComputeFeatures"`
	LogoURL                   string    `json:"LogoURL"`
	UpdatedAt                 time.Time `json:"UpdatedAt"`
}

// Setting keys persisted in the settings table.
const (
	SettingTeamSync                  = "team_sync"
	SettingAuthenticationMethod      = "authentication_method"
	SettingEnableTelemetry           = "enable_telemetry"
	SettingEnableEdgeComputeFeatures = "enable_edge_compute_features"
	SettingLogoURL                   = "logo_url"
)
