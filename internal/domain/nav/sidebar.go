package nav

// Sidebar entry keys, stable across releases for tests and clients.
const (
	KeyAdministration     = "administration"
	KeyUserRelated        = "user-related"
	KeyUsers              = "users"
	KeyTeams              = "teams"
	KeyRoles              = "roles"
	KeyEnvironmentRelated = "environment-related"
	KeyEnvironments       = "environments"
	KeyGroups             = "groups"
	KeyTags               = "tags"
	KeyUpdateRollback     = "update-rollback"
	KeyRegistries         = "registries"
	KeyLicenses           = "licenses"
	KeyLogs               = "logs"
	KeyAuthLogs           = "auth-logs"
	KeyActivityLogs       = "activity-logs"
	KeyNotifications      = "notifications"
	KeySettings           = "settings"
	KeyGeneralSettings    = "general-settings"
	KeyAuthentication     = "authentication"
	KeySharedCredentials  = "shared-credentials"
	KeyEdgeCompute        = "edge-compute"
	KeyHelp               = "help"
)

// SettingsSidebar returns the administration sidebar definition. Only the
// help link depends on features; everything else is gated by predicates.
func SettingsSidebar(f Features) []Entry {
	return []Entry{{
		Key:   KeyAdministration,
		Kind:  KindSection,
		Label: "Administration",
		Children: []Entry{
			userRelated(),
			environmentRelated(),
			{
				Key: KeyRegistries, Kind: KindItem, Label: "Registries", Route: RouteRegistries,
				Icon: "radio", DataCy: "dockhandSidebar-registries",
				Visible: func(v Visibility) bool { return v.Registries },
			},
			{
				Key: KeyLicenses, Kind: KindItem, Label: "Licenses", Route: RouteLicenses,
				Icon: "award", DataCy: "dockhandSidebar-licenses",
				Visible: func(v Visibility) bool { return v.Licenses },
			},
			logs(),
			{
				Key: KeyNotifications, Kind: KindItem, Label: "Notifications", Route: RouteNotifications,
				Icon: "bell", DataCy: "dockhandSidebar-notifications",
				Visible: func(v Visibility) bool { return v.Notifications },
			},
			settings(f),
		},
	}}
}

func userRelated() Entry {
	return Entry{
		Key: KeyUserRelated, Kind: KindParent, Label: "User-related", Route: RouteUsers,
		Icon: "users", DataCy: "dockhandSidebar-userRelated",
		Paths:   PathOptions{IncludePaths: []string{RouteTeams, RouteRoles}},
		Visible: func(v Visibility) bool { return v.UserManagement },
		Children: []Entry{
			{Key: KeyUsers, Kind: KindItem, Label: "Users", Route: RouteUsers, DataCy: "dockhandSidebar-users"},
			{Key: KeyTeams, Kind: KindItem, Label: "Teams", Route: RouteTeams, DataCy: "dockhandSidebar-teams"},
			{
				Key: KeyRoles, Kind: KindItem, Label: "Roles", Route: RouteRoles, DataCy: "dockhandSidebar-roles",
				Visible: func(v Visibility) bool { return v.Roles },
			},
		},
	}
}

func environmentRelated() Entry {
	return Entry{
		Key: KeyEnvironmentRelated, Kind: KindParent, Label: "Environment-related", Route: RouteEndpoints,
		Icon: "hard-drive", DataCy: "dockhandSidebar-environmentRelated",
		Paths: PathOptions{
			IncludePaths: []string{RouteWizardEndpoints, RouteGroups, RouteTags},
		},
		Visible: func(v Visibility) bool { return v.EnvironmentRelated },
		Children: []Entry{
			{
				Key: KeyEnvironments, Kind: KindItem, Label: "Environments", Route: RouteEndpoints,
				DataCy: "dockhandSidebar-environments",
				Paths: PathOptions{
					IncludePaths: []string{RouteWizardEndpoints},
					IgnorePaths:  []string{RouteEndpointUpdateSchedules},
				},
			},
			{Key: KeyGroups, Kind: KindItem, Label: "Groups", Route: RouteGroups, DataCy: "dockhandSidebar-environmentGroups"},
			{Key: KeyTags, Kind: KindItem, Label: "Tags", Route: RouteTags, DataCy: "dockhandSidebar-environmentTags"},
			{
				Key: KeyUpdateRollback, Kind: KindItem, Label: "Update & Rollback", Route: RouteEndpointUpdateSchedules,
				DataCy:  "dockhandSidebar-updateSchedules",
				Visible: func(v Visibility) bool { return v.UpdateRollback },
			},
		},
	}
}

func logs() Entry {
	return Entry{
		Key: KeyLogs, Kind: KindParent, Label: "Logs", Route: RouteAuthLogs,
		Icon: "file-text", DataCy: "dockhandSidebar-logs",
		Paths:   PathOptions{IncludePaths: []string{RouteActivityLogs}},
		Visible: func(v Visibility) bool { return v.Logs },
		Children: []Entry{
			{Key: KeyAuthLogs, Kind: KindItem, Label: "Authentication", Route: RouteAuthLogs, DataCy: "dockhandSidebar-authLogs"},
			{Key: KeyActivityLogs, Kind: KindItem, Label: "Activity", Route: RouteActivityLogs, DataCy: "dockhandSidebar-activityLogs"},
		},
	}
}

func settings(f Features) Entry {
	return Entry{
		Key: KeySettings, Kind: KindParent, Label: "Settings", Route: RouteSettings,
		Icon: "settings", DataCy: "dockhandSidebar-settings",
		Visible: func(v Visibility) bool { return v.Settings },
		Children: []Entry{
			{
				Key: KeyGeneralSettings, Kind: KindItem, Label: "General", Route: RouteSettings,
				DataCy: "dockhandSidebar-generalSettings",
				Paths: PathOptions{
					IgnorePaths: []string{RouteSettingsAuthentication, RouteEdgeCompute},
				},
			},
			{
				Key: KeyAuthentication, Kind: KindItem, Label: "Authentication", Route: RouteSettingsAuthentication,
				DataCy:  "dockhandSidebar-authentication",
				Visible: func(v Visibility) bool { return v.Authentication },
			},
			{
				Key: KeySharedCredentials, Kind: KindItem, Label: "Shared Credentials", Route: RouteSharedCredentials,
				DataCy:  "dockhandSidebar-cloud",
				Visible: func(v Visibility) bool { return v.SharedCredentials },
			},
			{
				Key: KeyEdgeCompute, Kind: KindItem, Label: "Edge Compute", Route: RouteEdgeCompute,
				DataCy:  "dockhandSidebar-edgeCompute",
				Visible: func(v Visibility) bool { return v.EdgeCompute },
			},
			{
				Key: KeyHelp, Kind: KindLink, Label: "Help / About", Href: f.Edition.HelpURL(),
				DataCy:  "dockhandSidebar-help",
				Visible: func(v Visibility) bool { return v.Help },
			},
		},
	}
}
