package templates

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
)

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "swarm", TypeLabel(model.StackTypeDockerSwarm))
	assert.Equal(t, "manifest", TypeLabel(model.StackTypeKubernetes))
	assert.Equal(t, "standalone", TypeLabel(model.StackTypeDockerCompose))
	assert.Equal(t, "standalone", TypeLabel(model.StackType(0)))
	assert.Equal(t, "standalone", TypeLabel(model.StackType(99)))
}

func TestTypeLabel_TotalAndIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		st := model.StackType(rapid.Int().Draw(rt, "type"))
		label := TypeLabel(st)

		require.Equal(rt, label, TypeLabel(st))
		require.Contains(rt, []string{LabelSwarm, LabelManifest, LabelStandalone}, label)
		if st != model.StackTypeDockerSwarm && st != model.StackTypeKubernetes {
			require.Equal(rt, LabelStandalone, label)
		}
	})
}

func TestCanEdit(t *testing.T) {
	tmpl := model.CustomTemplate{ID: 1, CreatedByUserID: "alice"}

	tests := []struct {
		name string
		user auth.CurrentUser
		want bool
	}{
		{name: "owner", user: auth.CurrentUser{ID: "alice"}, want: true},
		{name: "other user", user: auth.CurrentUser{ID: "bob"}},
		{name: "team leader is not owner", user: auth.CurrentUser{ID: "bob", IsTeamLeader: true}},
		{name: "admin non-owner", user: auth.CurrentUser{ID: "carol", IsAdmin: true}, want: true},
		{name: "admin owner", user: auth.CurrentUser{ID: "alice", IsAdmin: true}, want: true},
		{name: "anonymous", user: auth.CurrentUser{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEdit(tt.user, tmpl))
		})
	}

	t.Run("anonymous never owns an ownerless template", func(t *testing.T) {
		assert.False(t, CanEdit(auth.CurrentUser{}, model.CustomTemplate{}))
	})
}

func TestCanEdit_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		users := []string{"", "u1", "u2"}
		user := auth.CurrentUser{
			ID:      rapid.SampledFrom(users).Draw(rt, "user"),
			IsAdmin: rapid.Bool().Draw(rt, "admin"),
		}
		tmpl := model.CustomTemplate{CreatedByUserID: rapid.SampledFrom(users).Draw(rt, "owner")}

		item := NewListItem(user, tmpl, ItemOptions{})
		require.Equal(rt, item.Actions.ShowEdit, item.Actions.ShowDelete)
		if user.IsAdmin {
			require.True(rt, item.Actions.ShowEdit)
		}
		if !user.IsAdmin && user.ID != "" {
			require.Equal(rt, user.ID == tmpl.CreatedByUserID, item.Actions.ShowEdit)
		}
	})
}

type stubRoutes struct {
	err error
}

func (s stubRoutes) URL(name string, params map[string]string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "/" + name + "/" + params["id"], nil
}

func TestNewListItem(t *testing.T) {
	tmpl := model.CustomTemplate{
		ID: 7, Title: "redis", Description: "cache", Logo: "l.png",
		Type: model.StackTypeKubernetes, CreatedByUserID: "alice",
	}

	t.Run("owner gets actions and edit link", func(t *testing.T) {
		item := NewListItem(auth.CurrentUser{ID: "alice"}, tmpl, ItemOptions{
			Routes: stubRoutes{}, EditRoute: "edit", SelectedID: 7,
		})
		assert.Equal(t, ListItem{
			ID: 7, Title: "redis", Description: "cache", Logo: "l.png",
			TypeLabel: "manifest", Selected: true,
			Actions: Actions{ShowEdit: true, ShowDelete: true},
			EditURL: "/edit/7",
		}, item)
	})

	t.Run("non-owner gets no actions nor link", func(t *testing.T) {
		item := NewListItem(auth.CurrentUser{ID: "bob"}, tmpl, ItemOptions{Routes: stubRoutes{}, EditRoute: "edit"})
		assert.Equal(t, Actions{}, item.Actions)
		assert.Empty(t, item.EditURL)
		assert.False(t, item.Selected)
	})

	t.Run("route errors leave link empty", func(t *testing.T) {
		item := NewListItem(auth.CurrentUser{IsAdmin: true}, tmpl, ItemOptions{
			Routes: stubRoutes{err: errors.New("boom")}, EditRoute: "edit",
		})
		assert.True(t, item.Actions.ShowEdit)
		assert.Empty(t, item.EditURL)
	})

	t.Run("list preserves order", func(t *testing.T) {
		items := NewListItems(auth.CurrentUser{ID: "bob"}, []model.CustomTemplate{
			{ID: 1, CreatedByUserID: "bob"},
			{ID: 2, CreatedByUserID: "alice"},
		}, ItemOptions{})
		require.Len(t, items, 2)
		assert.True(t, items[0].Actions.ShowDelete)
		assert.False(t, items[1].Actions.ShowDelete)
	})
}
