package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dockhand/dockhand-ui/internal/core"
	"github.com/dockhand/dockhand-ui/internal/data"
	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/domain/model"
	"github.com/dockhand/dockhand-ui/internal/domain/nav"
	"github.com/dockhand/dockhand-ui/internal/domain/templates"
	apperrors "github.com/dockhand/dockhand-ui/internal/errors"
	"github.com/dockhand/dockhand-ui/internal/observability/metrics"
	"github.com/dockhand/dockhand-ui/internal/util"
)

// CustomTemplateServiceOptions groups dependencies for CustomTemplateService.
type CustomTemplateServiceOptions struct {
	Repo    core.CustomTemplateRepository // Required
	Routes  templates.URLBuilder          // Optional: builds edit URLs
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// CustomTemplateService lists and manages custom templates, enforcing the
// owner-or-admin rule on every mutation.
type CustomTemplateService struct {
	repo    core.CustomTemplateRepository
	routes  templates.URLBuilder
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewCustomTemplateService constructs a CustomTemplateService.
func NewCustomTemplateService(opts CustomTemplateServiceOptions) (*CustomTemplateService, error) {
	if opts.Repo == nil {
		return nil, errors.New("CustomTemplateRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomTemplateService{
		repo:    opts.Repo,
		routes:  opts.Routes,
		logger:  logger.With("component", "custom_template_service"),
		metrics: opts.Metrics,
	}, nil
}

// TemplateListOptions filters a list and marks one item as selected.
type TemplateListOptions struct {
	model.CustomTemplatesListOptions
	SelectedID int64
}

// TemplatePage is one page of list items.
type TemplatePage struct {
	Items  []templates.ListItem `json:"items"`
	Total  int                  `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

// TemplateDetail is a single template as shown on its detail page.
type TemplateDetail struct {
	Item      templates.ListItem   `json:"item"`
	Template  model.CustomTemplate `json:"template"`
	NoteHTML  string               `json:"note_html"`
	CreatedBy string               `json:"created_by"`
}

func (s *CustomTemplateService) itemOptions(selected int64) templates.ItemOptions {
	return templates.ItemOptions{
		Routes:     s.routes,
		EditRoute:  nav.RouteCustomTemplateEdit,
		SelectedID: selected,
	}
}

// List returns one page of templates with per-item actions computed for user.
func (s *CustomTemplateService) List(ctx context.Context, user domainauth.CurrentUser, opts TemplateListOptions) (*TemplatePage, error) {
	var (
		rows  []*model.CustomTemplate
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.repo.List(gctx, opts.CustomTemplatesListOptions)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, opts.CustomTemplatesListOptions)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list custom templates: %w", apperrors.MapDBError(err))
	}

	tmpls := make([]model.CustomTemplate, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			tmpls = append(tmpls, *r)
		}
	}
	return &TemplatePage{
		Items:  templates.NewListItems(user, tmpls, s.itemOptions(opts.SelectedID)),
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}, nil
}

// Get returns a template with its note rendered to sanitized HTML.
func (s *CustomTemplateService) Get(ctx context.Context, user domainauth.CurrentUser, id int64) (*TemplateDetail, error) {
	tmpl, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	note, err := util.RenderMarkdown(tmpl.Note)
	if err != nil {
		s.logger.WarnContext(ctx, "template note render failed", "template_id", id, "error", err)
		note = ""
	}
	return &TemplateDetail{
		Item:      templates.NewListItem(user, *tmpl, s.itemOptions(tmpl.ID)),
		Template:  *tmpl,
		NoteHTML:  note,
		CreatedBy: tmpl.CreatedByUserID,
	}, nil
}

// Delete removes a template if user is its owner or an admin. Denials return
// a forbidden AppError and leave the row untouched.
func (s *CustomTemplateService) Delete(ctx context.Context, user domainauth.CurrentUser, id int64) error {
	tmpl, err := s.lookup(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.metrics.TemplateDeleted(metrics.OutcomeNotFound)
		} else {
			s.metrics.TemplateDeleted(metrics.OutcomeError)
		}
		return err
	}

	if !templates.CanEdit(user, *tmpl) {
		s.metrics.TemplateDeleted(metrics.OutcomeForbidden)
		s.logger.InfoContext(ctx, "template delete denied", "template_id", id, "user_id", user.ID)
		return apperrors.Forbidden("You do not have permission to delete this template.")
	}

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.metrics.TemplateDeleted(metrics.OutcomeError)
		return fmt.Errorf("delete custom template: %w", apperrors.MapDBError(err))
	}
	if !ok {
		s.metrics.TemplateDeleted(metrics.OutcomeNotFound)
		return apperrors.NotFoundf("custom template %d not found", id)
	}

	s.metrics.TemplateDeleted(metrics.OutcomeOK)
	s.logger.InfoContext(ctx, "template deleted", "template_id", id, "user_id", user.ID, "owner", tmpl.CreatedByUserID)
	return nil
}

// Create stores a new template owned by user.
func (s *CustomTemplateService) Create(ctx context.Context, user domainauth.CurrentUser, req model.CreateCustomTemplateRequest) (*model.CustomTemplate, error) {
	if user.IsAnonymous() {
		return nil, apperrors.Forbidden("Sign in to create templates.")
	}
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}
	tmpl, err := s.repo.Create(ctx, user.ID, &req)
	if err != nil {
		return nil, fmt.Errorf("create custom template: %w", apperrors.MapDBError(err))
	}
	return tmpl, nil
}

// Update replaces the editable fields of a template under the same
// owner-or-admin rule as Delete.
func (s *CustomTemplateService) Update(
	ctx context.Context,
	user domainauth.CurrentUser,
	id int64,
	req model.UpdateCustomTemplateRequest,
) (*model.CustomTemplate, error) {
	tmpl, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !templates.CanEdit(user, *tmpl) {
		s.logger.InfoContext(ctx, "template update denied", "template_id", id, "user_id", user.ID)
		return nil, apperrors.Forbidden("You do not have permission to edit this template.")
	}
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}

	updated, err := s.repo.Update(ctx, id, &req)
	switch {
	case errors.Is(err, data.ErrCustomTemplateNotFound):
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, fmt.Sprintf("custom template %d not found", id))
	case err != nil:
		return nil, fmt.Errorf("update custom template: %w", apperrors.MapDBError(err))
	}
	return updated, nil
}

func (s *CustomTemplateService) lookup(ctx context.Context, id int64) (*model.CustomTemplate, error) {
	tmpl, err := s.repo.GetByID(ctx, id)
	switch {
	case errors.Is(err, data.ErrCustomTemplateNotFound):
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, fmt.Sprintf("custom template %d not found", id))
	case err != nil:
		return nil, fmt.Errorf("get custom template: %w", apperrors.MapDBError(err))
	}
	return tmpl, nil
}

// validationError keeps the offending field so forms can mark it.
func validationError(err error) error {
	appErr := apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	var fe *model.FieldError
	if errors.As(err, &fe) {
		appErr.Field = fe.Field
	}
	return appErr
}
