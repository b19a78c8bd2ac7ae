package core

import (
	"context"

	"github.com/dockhand/dockhand-ui/internal/domain/model"
)

// Repository ports. Services depend on these; internal/data provides the
// postgres implementations.

// CustomTemplateRepository stores custom templates and their owner.
type CustomTemplateRepository interface {
	Create(ctx context.Context, ownerID string, req *model.CreateCustomTemplateRequest) (*model.CustomTemplate, error)
	GetByID(ctx context.Context, id int64) (*model.CustomTemplate, error)
	List(ctx context.Context, opts model.CustomTemplatesListOptions) ([]*model.CustomTemplate, error)
	Count(ctx context.Context, opts model.CustomTemplatesListOptions) (int, error)
	Update(ctx context.Context, id int64, req *model.UpdateCustomTemplateRequest) (*model.CustomTemplate, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// TeamRepository answers team membership questions.
type TeamRepository interface {
	CreateTeam(ctx context.Context, name string) (*model.Team, error)
	GetByName(ctx context.Context, name string) (*model.Team, error)
	AddMember(ctx context.Context, membership model.TeamMembership) error
	// IsLeader reports whether the user leads at least one team.
	IsLeader(ctx context.Context, userID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.TeamMembership, error)
}

// SettingsRepository is the source of truth for platform settings.
type SettingsRepository interface {
	GetPublic(ctx context.Context) (*model.PublicSettings, error)
	Set(ctx context.Context, key, value string) error
	SetBool(ctx context.Context, key string, value bool) error
	SetMany(ctx context.Context, values map[string]string) error
}
