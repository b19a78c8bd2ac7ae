package testutil

import (
	"time"

	"github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
)

// CustomTemplateBuilder builds CustomTemplate fixtures with sensible defaults.
type CustomTemplateBuilder struct {
	tmpl model.CustomTemplate
}

// NewCustomTemplate starts a compose template owned by "user-1".
func NewCustomTemplate() *CustomTemplateBuilder {
	now := TestTime()
	return &CustomTemplateBuilder{tmpl: model.CustomTemplate{
		ID:              1,
		Title:           "nginx",
		Description:     "reverse proxy",
		Type:            model.StackTypeDockerCompose,
		CreatedByUserID: "user-1",
		CreatedAt:       now,
		UpdatedAt:       now,
	}}
}

func (b *CustomTemplateBuilder) WithID(id int64) *CustomTemplateBuilder {
	b.tmpl.ID = id
	return b
}

func (b *CustomTemplateBuilder) WithTitle(title string) *CustomTemplateBuilder {
	b.tmpl.Title = title
	return b
}

func (b *CustomTemplateBuilder) WithType(t model.StackType) *CustomTemplateBuilder {
	b.tmpl.Type = t
	return b
}

func (b *CustomTemplateBuilder) WithOwner(userID string) *CustomTemplateBuilder {
	b.tmpl.CreatedByUserID = userID
	return b
}

func (b *CustomTemplateBuilder) WithNote(note string) *CustomTemplateBuilder {
	b.tmpl.Note = note
	return b
}

// Build returns a pointer to a copy of the template.
func (b *CustomTemplateBuilder) Build() *model.CustomTemplate {
	t := b.tmpl
	return &t
}

// NewSession returns a live session for userID with the given role.
func NewSession(userID string, role auth.Role) *auth.Session {
	return &auth.Session{
		ID:        "sess-" + userID,
		UserID:    userID,
		Email:     userID + "@example.com",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}
