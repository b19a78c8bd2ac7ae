package nav

// Route names. Nesting is expressed by dotted prefixes.
const (
	RouteHome                    = "dockhand.home"
	RouteUsers                   = "dockhand.users"
	RouteTeams                   = "dockhand.teams"
	RouteRoles                   = "dockhand.roles"
	RouteEndpoints               = "dockhand.endpoints"
	RouteEndpointUpdateSchedules = "dockhand.endpoints.updateSchedules"
	RouteWizardEndpoints         = "dockhand.wizard.endpoints"
	RouteGroups                  = "dockhand.groups"
	RouteTags                    = "dockhand.tags"
	RouteRegistries              = "dockhand.registries"
	RouteLicenses                = "dockhand.licenses"
	RouteAuthLogs                = "dockhand.authLogs"
	RouteActivityLogs            = "dockhand.activityLogs"
	RouteNotifications           = "dockhand.notifications"
	RouteSettings                = "dockhand.settings"
	RouteSettingsAuthentication  = "dockhand.settings.authentication"
	RouteSharedCredentials       = "dockhand.settings.sharedcredentials"
	RouteEdgeCompute             = "dockhand.settings.edgeCompute"
	RouteCustomTemplates         = "dockhand.templates.custom"
	RouteCustomTemplateNew       = "dockhand.templates.custom.new"
	RouteCustomTemplate          = "dockhand.templates.custom.template"
	RouteCustomTemplateEdit      = "dockhand.templates.custom.edit"
)

// DefaultRoutes maps every route name to its path template.
func DefaultRoutes() map[string]string {
	return map[string]string{
		RouteHome:                    "/",
		RouteUsers:                   "/users",
		RouteTeams:                   "/teams",
		RouteRoles:                   "/roles",
		RouteEndpoints:               "/endpoints",
		RouteEndpointUpdateSchedules: "/endpoints/updates",
		RouteWizardEndpoints:         "/wizard/endpoints",
		RouteGroups:                  "/groups",
		RouteTags:                    "/tags",
		RouteRegistries:              "/registries",
		RouteLicenses:                "/licenses",
		RouteAuthLogs:                "/auth-logs",
		RouteActivityLogs:            "/activity-logs",
		RouteNotifications:           "/notifications",
		RouteSettings:                "/settings",
		RouteSettingsAuthentication:  "/settings/auth",
		RouteSharedCredentials:       "/settings/shared-credentials",
		RouteEdgeCompute:             "/settings/edge",
		RouteCustomTemplates:         "/templates/custom",
		RouteCustomTemplateNew:       "/templates/custom/new",
		RouteCustomTemplate:          "/templates/custom/{id}",
		RouteCustomTemplateEdit:      "/templates/custom/{id}/edit",
	}
}
