//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTemplateTitleLen       = 200
	maxTemplateDescriptionLen = 1000
)

// StackType is the deployment flavour of a custom template.
// Values match the stack type codes stored with templates; any other value is
// legal and must be tolerated by readers.
type StackType int

const (
	StackTypeDockerSwarm   StackType = 1
	StackTypeDockerCompose StackType = 2
	StackTypeKubernetes    StackType = 3
)

// Known reports whether t is one of the defined stack types.
func (t StackType) Known() bool {
	switch t {
	case StackTypeDockerSwarm, StackTypeDockerCompose, StackTypeKubernetes:
		return true
	default:
		return false
	}
}

// ParseStackType accepts the names used by the admin CLI and forms.
func ParseStackType(value string) (StackType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "swarm", "dockerswarm", "docker-swarm", "1":
		return StackTypeDockerSwarm, true
	case "compose", "standalone", "dockercompose", "docker-compose", "2":
		return StackTypeDockerCompose, true
	case "kubernetes", "k8s", "manifest", "3":
		return StackTypeKubernetes, true
	default:
		return 0, false
	}
}

// CustomTemplatesListOptions controls paging and filtering for listing templates.
// Sort supports "created_at" and "title"; Dir supports "asc" and "desc".
type CustomTemplatesListOptions struct {
	Limit  int
	Offset int
	Q      *string    // substring match on title (ILIKE)
	Type   *StackType // exact match
	Sort   string
	Dir    string
}

// CustomTemplate is a user-authored deployable stack template. CreatedByUserID
// is the ownership record consulted before edit and delete.
type CustomTemplate struct {
	ID              int64     `json:"id"                 db:"id"`
	Title           string    `json:"title"              db:"title"`
	Description     string    `json:"description"        db:"description"`
	Note            string    `json:"note"               db:"note"`
	Logo            string    `json:"logo"               db:"logo"`
	Type            StackType `json:"type"               db:"type"`
	CreatedByUserID string    `json:"created_by_user_id" db:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"         db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"         db:"updated_at"`
}

// FieldError is a validation failure tied to one request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

func fieldErr(field, msg string) error { return &FieldError{Field: field, Message: msg} }

// CreateCustomTemplateRequest represents parameters to create a CustomTemplate.
// The owner is taken from the signed-in user, never from the request body.
type CreateCustomTemplateRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Note        string    `json:"note"`
	Logo        string    `json:"logo"`
	Type        StackType `json:"type"`
}

// Validate validates CreateCustomTemplateRequest.
func (r *CreateCustomTemplateRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fieldErr("title", "title is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Title) > maxTemplateTitleLen {
		return fieldErr("title", "title cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(r.Description) > maxTemplateDescriptionLen {
		return fieldErr("description", "description cannot exceed 1000 characters")
	}
	if !r.Type.Known() {
		return fieldErr("type", "invalid type")
	}
	r.Logo = strings.TrimSpace(r.Logo)
	return nil
}

// UpdateCustomTemplateRequest replaces the editable fields of a template.
// The owner is never editable.
type UpdateCustomTemplateRequest CreateCustomTemplateRequest

// Validate applies the same rules as creation.
func (r *UpdateCustomTemplateRequest) Validate() error {
	return (*CreateCustomTemplateRequest)(r).Validate()
}
