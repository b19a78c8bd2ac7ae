package viewmodel

import "github.com/dockhand/dockhand-ui/internal/domain/nav"

// User represents the authenticated user context exposed to templates.
type User struct {
	Email        string
	Name         string
	Role         string
	IsAdmin      bool
	IsTeamLeader bool
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CurrentRoute    string
	CSRFToken       string
	IsAuthenticated bool
	User            *User

	Sidebar         []nav.Node
	HelpURL         string
	SidebarDegraded bool
}
