// Package templates holds the view rules for custom template list items:
// who may act on an item and how its stack type is labelled.
package templates

import (
	"strconv"

	"github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
)

// Type labels shown on list items.
const (
	LabelSwarm      = "swarm"
	LabelManifest   = "manifest"
	LabelStandalone = "standalone"
)

// TypeLabel maps a stack type to its label. Unrecognised values, including
// types added later, fall back to "standalone".
func TypeLabel(t model.StackType) string {
	switch t {
	case model.StackTypeDockerSwarm:
		return LabelSwarm
	case model.StackTypeKubernetes:
		return LabelManifest
	default:
		return LabelStandalone
	}
}

// CanEdit reports whether user may edit and delete tmpl.
func CanEdit(user auth.CurrentUser, tmpl model.CustomTemplate) bool {
	if user.IsAdmin {
		return true
	}
	return user.ID != "" && tmpl.CreatedByUserID == user.ID
}

// Actions lists the item-level buttons. Edit and delete are gated together.
type Actions struct {
	ShowEdit   bool `json:"show_edit"`
	ShowDelete bool `json:"show_delete"`
}

// URLBuilder renders named routes.
type URLBuilder interface {
	URL(name string, params map[string]string) (string, error)
}

// ListItem is the rendered view of one custom template in a list.
type ListItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Logo        string  `json:"logo,omitempty"`
	TypeLabel   string  `json:"type_label"`
	Selected    bool    `json:"selected"`
	Actions     Actions `json:"actions"`
	EditURL     string  `json:"edit_url,omitempty"`
}

// ItemOptions carries the optional inputs of NewListItem.
type ItemOptions struct {
	Routes     URLBuilder
	EditRoute  string
	SelectedID int64
}

// NewListItem builds the view of tmpl for user.
func NewListItem(user auth.CurrentUser, tmpl model.CustomTemplate, opts ItemOptions) ListItem {
	allowed := CanEdit(user, tmpl)
	item := ListItem{
		ID:          tmpl.ID,
		Title:       tmpl.Title,
		Description: tmpl.Description,
		Logo:        tmpl.Logo,
		TypeLabel:   TypeLabel(tmpl.Type),
		Selected:    opts.SelectedID != 0 && opts.SelectedID == tmpl.ID,
		Actions:     Actions{ShowEdit: allowed, ShowDelete: allowed},
	}
	if allowed && opts.Routes != nil && opts.EditRoute != "" {
		if u, err := opts.Routes.URL(opts.EditRoute, map[string]string{"id": strconv.FormatInt(tmpl.ID, 10)}); err == nil {
			item.EditURL = u
		}
	}
	return item
}

// NewListItems builds views for a page of templates.
func NewListItems(user auth.CurrentUser, tmpls []model.CustomTemplate, opts ItemOptions) []ListItem {
	items := make([]ListItem, 0, len(tmpls))
	for _, t := range tmpls {
		items = append(items, NewListItem(user, t, opts))
	}
	return items
}
