package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"

	"github.com/dockhand/dockhand-ui/internal/data"
	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
	"github.com/dockhand/dockhand-ui/internal/domain/templates"
	apperrors "github.com/dockhand/dockhand-ui/internal/errors"
	"github.com/dockhand/dockhand-ui/internal/mocks"
)

func newTestTemplateService(t *testing.T, repo *mocks.MockCustomTemplateRepository) *CustomTemplateService {
	t.Helper()
	svc, err := NewCustomTemplateService(CustomTemplateServiceOptions{
		Repo:   repo,
		Routes: nav.NewRouter(nav.DefaultRoutes()),
	})
	require.NoError(t, err)
	return svc
}

func ownedTemplate(id int64, owner string) *model.CustomTemplate {
	return &model.CustomTemplate{
		ID:              id,
		Title:           "nginx",
		Type:            model.StackTypeDockerCompose,
		CreatedByUserID: owner,
		CreatedAt:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewCustomTemplateService_RequiresRepo(t *testing.T) {
	_, err := NewCustomTemplateService(CustomTemplateServiceOptions{})
	require.Error(t, err)
}

func TestCustomTemplateService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCustomTemplateRepository(ctrl)
	opts := TemplateListOptions{
		CustomTemplatesListOptions: model.CustomTemplatesListOptions{Limit: 10},
		SelectedID:                 2,
	}
	repo.EXPECT().List(gomock.Any(), opts.CustomTemplatesListOptions).Return([]*model.CustomTemplate{
		ownedTemplate(1, "alice"),
		ownedTemplate(2, "bob"),
		{ID: 3, Title: "k8s", Type: model.StackTypeKubernetes, CreatedByUserID: "alice"},
	}, nil)
	repo.EXPECT().Count(gomock.Any(), opts.CustomTemplatesListOptions).Return(3, nil)

	svc := newTestTemplateService(t, repo)
	page, err := svc.List(context.Background(), domainauth.CurrentUser{ID: "alice"}, opts)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 10, page.Limit)

	assert.True(t, page.Items[0].Actions.ShowDelete)
	assert.Equal(t, "/templates/custom/1/edit", page.Items[0].EditURL)
	assert.False(t, page.Items[1].Actions.ShowEdit)
	assert.Empty(t, page.Items[1].EditURL)
	assert.True(t, page.Items[1].Selected)
	assert.Equal(t, templates.LabelManifest, page.Items[2].TypeLabel)
}

func TestCustomTemplateService_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCustomTemplateRepository(ctrl)
	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil).AnyTimes()

	svc := newTestTemplateService(t, repo)
	_, err := svc.List(context.Background(), domainauth.CurrentUser{ID: "alice"}, TemplateListOptions{})
	require.ErrorContains(t, err, "list custom templates")
}

func TestCustomTemplateService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCustomTemplateRepository(ctrl)
	tmpl := ownedTemplate(7, "alice")
	tmpl.Note = "Run **docker compose up** <script>x()</script>"
	repo.EXPECT().GetByID(gomock.Any(), int64(7)).Return(tmpl, nil)
	repo.EXPECT().GetByID(gomock.Any(), int64(8)).Return(nil, data.ErrCustomTemplateNotFound)

	svc := newTestTemplateService(t, repo)
	ctx := context.Background()

	detail, err := svc.Get(ctx, domainauth.CurrentUser{ID: "bob"}, 7)
	require.NoError(t, err)
	assert.Contains(t, detail.NoteHTML, "<strong>docker compose up</strong>")
	assert.NotContains(t, detail.NoteHTML, "<script")
	assert.False(t, detail.Item.Actions.ShowEdit)
	assert.True(t, detail.Item.Selected)
	assert.Equal(t, "alice", detail.CreatedBy)

	_, err = svc.Get(ctx, domainauth.CurrentUser{ID: "bob"}, 8)
	assert.True(t, apperrors.IsNotFound(err))
	assert.ErrorIs(t, err, data.ErrCustomTemplateNotFound)
}

func TestCustomTemplateService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		user      domainauth.CurrentUser
		owner     string
		getErr    error
		deleted   bool
		deleteErr error
		expectDel bool
		check     func(t *testing.T, err error)
	}{
		{
			name:      "owner deletes",
			user:      domainauth.CurrentUser{ID: "alice"},
			owner:     "alice",
			deleted:   true,
			expectDel: true,
			check:     func(t *testing.T, err error) { require.NoError(t, err) },
		},
		{
			name:      "admin deletes another user's template",
			user:      domainauth.CurrentUser{ID: "root", IsAdmin: true},
			owner:     "alice",
			deleted:   true,
			expectDel: true,
			check:     func(t *testing.T, err error) { require.NoError(t, err) },
		},
		{
			name:  "non-owner is forbidden",
			user:  domainauth.CurrentUser{ID: "bob"},
			owner: "alice",
			check: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsForbidden(err))
				assert.ErrorIs(t, err, apperrors.ErrForbidden)
			},
		},
		{
			name:  "team leader is not an owner",
			user:  domainauth.CurrentUser{ID: "lead", IsTeamLeader: true},
			owner: "alice",
			check: func(t *testing.T, err error) { assert.True(t, apperrors.IsForbidden(err)) },
		},
		{
			name:  "anonymous never matches an empty owner",
			user:  domainauth.CurrentUser{},
			owner: "",
			check: func(t *testing.T, err error) { assert.True(t, apperrors.IsForbidden(err)) },
		},
		{
			name:   "missing template",
			user:   domainauth.CurrentUser{ID: "alice"},
			getErr: data.ErrCustomTemplateNotFound,
			check:  func(t *testing.T, err error) { assert.True(t, apperrors.IsNotFound(err)) },
		},
		{
			name:      "row vanished before delete",
			user:      domainauth.CurrentUser{ID: "alice"},
			owner:     "alice",
			expectDel: true,
			check:     func(t *testing.T, err error) { assert.True(t, apperrors.IsNotFound(err)) },
		},
		{
			name:      "repository failure",
			user:      domainauth.CurrentUser{ID: "alice"},
			owner:     "alice",
			deleteErr: errors.New("conn reset"),
			expectDel: true,
			check:     func(t *testing.T, err error) { assert.ErrorContains(t, err, "delete custom template") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockCustomTemplateRepository(ctrl)
			if tt.getErr != nil {
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, tt.getErr)
			} else {
				repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(ownedTemplate(1, tt.owner), nil)
			}
			if tt.expectDel {
				repo.EXPECT().Delete(gomock.Any(), int64(1)).Return(tt.deleted, tt.deleteErr)
			}

			svc := newTestTemplateService(t, repo)
			tt.check(t, svc.Delete(context.Background(), tt.user, 1))
		})
	}
}

// Server-side enforcement must agree with the visibility of the delete action.
func TestCustomTemplateService_DeleteMatchesActions(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ids := []string{"", "alice", "bob"}
		user := domainauth.CurrentUser{
			ID:           rapid.SampledFrom(ids).Draw(rt, "user"),
			IsAdmin:      rapid.Bool().Draw(rt, "admin"),
			IsTeamLeader: rapid.Bool().Draw(rt, "leader"),
		}
		tmpl := ownedTemplate(1, rapid.SampledFrom(ids).Draw(rt, "owner"))

		ctrl := gomock.NewController(rt)
		repo := mocks.NewMockCustomTemplateRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(tmpl, nil)
		repo.EXPECT().Delete(gomock.Any(), int64(1)).Return(true, nil).MaxTimes(1)

		svc, err := NewCustomTemplateService(CustomTemplateServiceOptions{Repo: repo})
		require.NoError(rt, err)

		item := templates.NewListItem(user, *tmpl, templates.ItemOptions{})
		err = svc.Delete(context.Background(), user, 1)
		require.Equal(rt, item.Actions.ShowDelete, err == nil)
	})
}

func TestCustomTemplateService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCustomTemplateRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), "alice", gomock.Any()).
		DoAndReturn(func(_ context.Context, owner string, req *model.CreateCustomTemplateRequest) (*model.CustomTemplate, error) {
			assert.Equal(t, "redis", req.Title)
			return &model.CustomTemplate{ID: 9, Title: req.Title, Type: req.Type, CreatedByUserID: owner}, nil
		})

	svc := newTestTemplateService(t, repo)
	ctx := context.Background()

	tmpl, err := svc.Create(ctx, domainauth.CurrentUser{ID: "alice"},
		model.CreateCustomTemplateRequest{Title: " redis ", Type: model.StackTypeDockerCompose})
	require.NoError(t, err)
	assert.Equal(t, "alice", tmpl.CreatedByUserID)

	_, err = svc.Create(ctx, domainauth.CurrentUser{ID: "alice"}, model.CreateCustomTemplateRequest{Type: model.StackTypeDockerSwarm})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "title", apperrors.GetField(err))

	_, err = svc.Create(ctx, domainauth.CurrentUser{}, model.CreateCustomTemplateRequest{Title: "x", Type: model.StackTypeDockerSwarm})
	assert.True(t, apperrors.IsForbidden(err))
}

func TestCustomTemplateService_Update(t *testing.T) {
	ctx := context.Background()
	req := model.UpdateCustomTemplateRequest{Title: "nginx v2", Type: model.StackTypeDockerCompose}

	t.Run("owner updates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCustomTemplateRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(ownedTemplate(1, "alice"), nil)
		repo.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).Return(&model.CustomTemplate{ID: 1, Title: "nginx v2"}, nil)

		got, err := newTestTemplateService(t, repo).Update(ctx, domainauth.CurrentUser{ID: "alice"}, 1, req)
		require.NoError(t, err)
		assert.Equal(t, "nginx v2", got.Title)
	})

	t.Run("non-owner is forbidden and nothing is written", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCustomTemplateRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(ownedTemplate(1, "alice"), nil)

		_, err := newTestTemplateService(t, repo).Update(ctx, domainauth.CurrentUser{ID: "bob", IsTeamLeader: true}, 1, req)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("invalid input", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCustomTemplateRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(ownedTemplate(1, "alice"), nil)

		_, err := newTestTemplateService(t, repo).Update(ctx, domainauth.CurrentUser{ID: "alice"}, 1,
			model.UpdateCustomTemplateRequest{Type: model.StackTypeDockerCompose})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("row vanished", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockCustomTemplateRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(ownedTemplate(1, "alice"), nil)
		repo.EXPECT().Update(gomock.Any(), int64(1), gomock.Any()).Return(nil, data.ErrCustomTemplateNotFound)

		_, err := newTestTemplateService(t, repo).Update(ctx, domainauth.CurrentUser{IsAdmin: true, ID: "root"}, 1, req)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
