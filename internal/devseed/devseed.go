// Package devseed populates a development database with teams, a leader
// membership, sample custom templates and default settings.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dockhand/dockhand-ui/internal/core"
	"github.com/dockhand/dockhand-ui/internal/data"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	Teams     core.TeamRepository
	Templates core.CustomTemplateRepository
	Settings  core.SettingsRepository
}

// Identity names the users that seeded data is attributed to.
type Identity struct {
	// LeaderID leads every seeded team.
	LeaderID string
	// OwnerID owns every seeded template.
	OwnerID string
}

// DefaultIdentity matches the default dev auth user.
func DefaultIdentity() Identity {
	return Identity{LeaderID: "dev-user", OwnerID: "dev-user"}
}

// NewServices constructs all required repositories for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		Teams:     data.NewTeamRepo(db),
		Templates: data.NewCustomTemplateRepo(db),
		Settings:  data.NewSettingsRepo(db),
	}
}

// Run executes the full development seeding workflow. It is idempotent:
// existing teams, templates and settings are left untouched.
func Run(ctx context.Context, svcs Services, who Identity, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	failures := 0
	failures += seedTeams(ctx, svcs.Teams, who, logger)
	failures += seedTemplates(ctx, svcs.Templates, who, logger)
	if err := seedSettings(ctx, svcs.Settings, logger); err != nil {
		logger.ErrorContext(ctx, "failed to seed settings", "error", err)
		failures++
	}
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func defaultTeams() []string {
	return []string{"platform", "frontend"}
}

func seedTeams(ctx context.Context, repo core.TeamRepository, who Identity, logger *slog.Logger) int {
	failures := 0
	for _, name := range defaultTeams() {
		team, created, err := ensureTeam(ctx, repo, name)
		if err != nil {
			logger.ErrorContext(ctx, "failed to create team", "name", name, "error", err)
			failures++
			continue
		}
		msg := "team already exists"
		if created {
			msg = "created team"
		}
		logger.InfoContext(ctx, msg, "name", name)

		if who.LeaderID == "" {
			continue
		}
		membership := model.TeamMembership{TeamID: team.ID, UserID: who.LeaderID, Role: model.TeamRoleLeader}
		if err := repo.AddMember(ctx, membership); err != nil {
			logger.ErrorContext(ctx, "failed to add team leader", "team", name, "user_id", who.LeaderID, "error", err)
			failures++
		}
	}
	return failures
}

func ensureTeam(ctx context.Context, repo core.TeamRepository, name string) (*model.Team, bool, error) {
	team, err := repo.CreateTeam(ctx, name)
	if err == nil {
		return team, true, nil
	}
	if !errors.Is(err, data.ErrTeamNameExists) {
		return nil, false, err
	}
	team, err = repo.GetByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return team, false, nil
}

func defaultTemplates() []*model.CreateCustomTemplateRequest {
	return []*model.CreateCustomTemplateRequest{
		{
			Title:       "nginx-proxy",
			Description: "Reverse proxy in front of a single web service",
			Note:        "Publishes **port 80**. Set `VIRTUAL_HOST` on the proxied service.",
			Type:        model.StackTypeDockerCompose,
		},
		{
			Title:       "redis-ha",
			Description: "Redis primary with two replicas and sentinel",
			Note:        "Requires at least three swarm nodes.",
			Type:        model.StackTypeDockerSwarm,
		},
		{
			Title:       "whoami",
			Description: "Echo service for ingress smoke tests",
			Type:        model.StackTypeKubernetes,
		},
	}
}

func seedTemplates(ctx context.Context, repo core.CustomTemplateRepository, who Identity, logger *slog.Logger) int {
	failures := 0
	for _, req := range defaultTemplates() {
		created, err := createTemplate(ctx, repo, who.OwnerID, req)
		if err != nil {
			logger.ErrorContext(ctx, "failed to create custom template", "title", req.Title, "error", err)
			failures++
			continue
		}
		msg := "custom template already exists"
		if created {
			msg = "created custom template"
		}
		logger.InfoContext(ctx, msg, "title", req.Title)
	}
	return failures
}

// createTemplate creates req unless a template with the same title and type exists.
func createTemplate(ctx context.Context, repo core.CustomTemplateRepository, ownerID string, req *model.CreateCustomTemplateRequest) (bool, error) {
	title := req.Title
	stackType := req.Type
	existing, err := repo.List(ctx, model.CustomTemplatesListOptions{Q: &title, Type: &stackType, Limit: 50})
	if err != nil {
		return false, fmt.Errorf("list custom templates: %w", err)
	}
	for _, t := range existing {
		if t.Title == req.Title {
			return false, nil
		}
	}
	if err := req.Validate(); err != nil {
		return false, err
	}
	if _, err := repo.Create(ctx, ownerID, req); err != nil {
		return false, err
	}
	return true, nil
}

// seedSettings writes the defaults only into an empty settings table so a
// restart does not undo changes made through the UI.
func seedSettings(ctx context.Context, repo core.SettingsRepository, logger *slog.Logger) error {
	current, err := repo.GetPublic(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !current.UpdatedAt.IsZero() {
		logger.InfoContext(ctx, "settings already exist")
		return nil
	}
	if err := repo.SetMany(ctx, map[string]string{
		model.SettingTeamSync:             strconv.FormatBool(false),
		model.SettingAuthenticationMethod: "oauth",
		model.SettingEnableTelemetry:      strconv.FormatBool(false),
	}); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	logger.InfoContext(ctx, "seeded default settings")
	return nil
}
