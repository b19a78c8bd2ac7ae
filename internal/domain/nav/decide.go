package nav

import "github.com/dockhand/dockhand-ui/internal/domain/auth"

// Edition selects edition-specific links.
type Edition string

const (
	EditionCE Edition = "CE"
	EditionBE Edition = "BE"
)

const (
	helpURLCommunity = "https://docs.dockhand.dev/community-help"
	helpURLBusiness  = "https://docs.dockhand.dev/r/business-support"
)

// HelpURL returns the help/about target for the edition.
func (e Edition) HelpURL() string {
	if e == EditionCE {
		return helpURLCommunity
	}
	return helpURLBusiness
}

// Features is the immutable process-wide configuration consulted by Decide.
type Features struct {
	BusinessEdition bool    `json:"business_edition" yaml:"business_edition"`
	EmbeddedHost    bool    `json:"embedded_host"    yaml:"embedded_host"`
	Edition         Edition `json:"edition"          yaml:"edition"`
}

// Signals is the complete input of Decide.
type Signals struct {
	IsAdmin         bool `json:"is_admin"         yaml:"is_admin"`
	IsTeamLeader    bool `json:"is_team_leader"   yaml:"is_team_leader"`
	TeamSync        Flag `json:"team_sync"        yaml:"team_sync"`
	BusinessEdition bool `json:"business_edition" yaml:"business_edition"`
	EmbeddedHost    bool `json:"embedded_host"    yaml:"embedded_host"`
}

// Signals combines the process features with a user and the team-sync setting.
func (f Features) Signals(user auth.CurrentUser, teamSync Flag) Signals {
	return Signals{
		IsAdmin:         user.IsAdmin,
		IsTeamLeader:    user.IsTeamLeader,
		TeamSync:        teamSync,
		BusinessEdition: f.BusinessEdition,
		EmbeddedHost:    f.EmbeddedHost,
	}
}

// Visibility holds one decision per named sidebar entry.
type Visibility struct {
	UserManagement     bool `json:"user_management"     yaml:"user_management"`
	Roles              bool `json:"roles"               yaml:"roles"`
	EnvironmentRelated bool `json:"environment_related" yaml:"environment_related"`
	UpdateRollback     bool `json:"update_rollback"     yaml:"update_rollback"`
	Registries         bool `json:"registries"          yaml:"registries"`
	Licenses           bool `json:"licenses"            yaml:"licenses"`
	Logs               bool `json:"logs"                yaml:"logs"`
	Notifications      bool `json:"notifications"       yaml:"notifications"`
	Settings           bool `json:"settings"            yaml:"settings"`
	Authentication     bool `json:"authentication"      yaml:"authentication"`
	SharedCredentials  bool `json:"shared_credentials"  yaml:"shared_credentials"`
	EdgeCompute        bool `json:"edge_compute"        yaml:"edge_compute"`
	Help               bool `json:"help"                yaml:"help"`
}

// Decide computes sidebar visibility. An unresolved team-sync flag counts as
// disabled.
func Decide(s Signals) Visibility {
	teamSync := s.TeamSync.Enabled()

	v := Visibility{
		UserManagement:     !s.EmbeddedHost && (s.IsAdmin || (s.IsTeamLeader && !teamSync)),
		EnvironmentRelated: s.IsAdmin,
		Registries:         s.IsAdmin,
		Licenses:           s.IsAdmin && s.BusinessEdition,
		Logs:               s.IsAdmin,
		Notifications:      true,
		Settings:           s.IsAdmin,
	}
	v.Roles = v.UserManagement && s.IsAdmin
	v.UpdateRollback = v.EnvironmentRelated && s.BusinessEdition
	v.Authentication = v.Settings && !s.EmbeddedHost
	v.SharedCredentials = v.Settings && s.BusinessEdition
	v.EdgeCompute = v.Settings
	v.Help = v.Settings
	return v
}
