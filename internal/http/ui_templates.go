package httpx

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dockhand/dockhand-ui/internal/domain/model"
	"github.com/dockhand/dockhand-ui/internal/domain/templates"
	apperrors "github.com/dockhand/dockhand-ui/internal/errors"
)

const templatesBasePath = "/templates/custom"

func templateURL(id int64) string     { return templatesBasePath + "/" + strconv.FormatInt(id, 10) }
func templateEditURL(id int64) string { return templateURL(id) + "/edit" }

// templateForm is the submitted form, kept as strings so it can be
// re-rendered verbatim on errors.
type templateForm struct {
	Title       string
	Description string
	Note        string
	Logo        string
	Type        string
}

func templateFormFrom(t model.CustomTemplate) templateForm {
	return templateForm{
		Title:       t.Title,
		Description: t.Description,
		Note:        t.Note,
		Logo:        t.Logo,
		Type:        strconv.Itoa(int(t.Type)),
	}
}

func parseTemplateForm(r *http.Request) (templateForm, model.CreateCustomTemplateRequest, map[string]string) {
	f := templateForm{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Note:        r.PostFormValue("note"),
		Logo:        r.PostFormValue("logo"),
		Type:        r.PostFormValue("type"),
	}
	req := model.CreateCustomTemplateRequest{
		Title:       f.Title,
		Description: f.Description,
		Note:        f.Note,
		Logo:        f.Logo,
	}
	t, ok := model.ParseStackType(f.Type)
	if !ok {
		return f, req, map[string]string{"type": "Select a template type."}
	}
	req.Type = t
	return f, req, nil
}

// TemplatesList renders the paged custom templates list.
// GET /templates/custom.
func (h *UIHandlers) TemplatesList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := getPageParams(q)
	opts, err := templateListOptions(r)
	if err != nil {
		opts.Type = nil
	}
	opts.Limit, opts.Offset = pageOpts{Page: page, PageSize: pageSize}.LimitAndOffset()

	meta := PageMeta{Title: "Custom Templates - Dockhand", PageTitle: "Custom Templates", CurrentPage: PageTemplates}
	builder := h.newTemplateData(r, meta).
		With("Query", q.Get("q")).
		With("TypeFilter", q.Get("type")).
		With("Sort", opts.Sort).
		With("Dir", opts.Dir)

	result, err := h.Templates.List(r.Context(), GetCurrentUserFromContext(r.Context()), opts)
	if err != nil {
		h.logger().WarnContext(r.Context(), "template list failed", "error", err, "request_id", RequestID(r.Context()))
		builder.WithError(processError(err, nil))
		h.renderPage(w, r, builder.With("Items", []templates.ListItem{}).Build())
		return
	}

	builder.With("Items", result.Items).WithPagination(PaginationData{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: result.Total,
		Shown:      len(result.Items),
		BasePath:   templatesBasePath,
	})
	h.renderPage(w, r, builder.Build())
}

// TemplateView renders one template with its rendered note.
// GET /templates/custom/{id}.
func (h *UIHandlers) TemplateView(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}
	detail, err := h.Templates.Get(r.Context(), GetCurrentUserFromContext(r.Context()), id)
	if err != nil {
		h.handleTemplateError(w, r, err)
		return
	}
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: detail.Template.Title + " - Dockhand", PageTitle: detail.Template.Title, CurrentPage: PageTemplate},
		Fetch: func(_ context.Context, data map[string]any) error {
			data["Detail"] = detail
			return nil
		},
	})
}

func formMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit Template - Dockhand", PageTitle: "Edit Template", CurrentPage: PageTemplateForm}
	}
	return PageMeta{Title: "New Template - Dockhand", PageTitle: "New Template", CurrentPage: PageTemplateForm}
}

func formData(mode FormMode, id int64, form templateForm) map[string]any {
	action := templatesBasePath
	if mode == FormModeEdit {
		action = templateURL(id)
	}
	return map[string]any{
		"Mode":       string(mode),
		"TemplateID": id,
		"Action":     action,
		"Form":       form,
		"Errors":     map[string]string{},
		"TypeOptions": []struct{ Value, Label string }{
			{strconv.Itoa(int(model.StackTypeDockerSwarm)), "Swarm"},
			{strconv.Itoa(int(model.StackTypeDockerCompose)), "Standalone"},
			{strconv.Itoa(int(model.StackTypeKubernetes)), "Kubernetes"},
		},
	}
}

func (h *UIHandlers) renderForm(w http.ResponseWriter, r *http.Request, mode FormMode, data map[string]any) {
	b := h.newTemplateData(r, formMeta(mode))
	for k, v := range data {
		b.With(k, v)
	}
	h.renderPage(w, r, b.Build())
}

// TemplateNew renders an empty create form.
// GET /templates/custom/new.
func (h *UIHandlers) TemplateNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, FormModeCreate, formData(FormModeCreate, 0, templateForm{Type: "2"}))
}

// TemplateEdit renders the edit form. Users who may not edit get 403.
// GET /templates/custom/{id}/edit.
func (h *UIHandlers) TemplateEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}
	detail, err := h.Templates.Get(r.Context(), GetCurrentUserFromContext(r.Context()), id)
	if err != nil {
		h.handleTemplateError(w, r, err)
		return
	}
	if !detail.Item.Actions.ShowEdit {
		showAccessDenied(w, r)
		return
	}
	h.renderForm(w, r, FormModeEdit, formData(FormModeEdit, id, templateFormFrom(detail.Template)))
}

// TemplateCreate handles the create form.
// POST /templates/custom.
func (h *UIHandlers) TemplateCreate(w http.ResponseWriter, r *http.Request) {
	form, req, fieldErrs := parseTemplateForm(r)
	if fieldErrs != nil {
		h.RenderError(w, r, ErrorOpts{
			FieldErrors: fieldErrs,
			PageMeta:    formMeta(FormModeCreate),
			Data:        formData(FormModeCreate, 0, form),
			StatusCode:  formErrorStatus(r),
		})
		return
	}

	tmpl, err := h.Templates.Create(r.Context(), GetCurrentUserFromContext(r.Context()), req)
	if err != nil {
		h.RenderError(w, r, ErrorOpts{
			Err:      err,
			PageMeta: formMeta(FormModeCreate),
			Data:     formData(FormModeCreate, 0, form),
		})
		return
	}

	triggerToast(w, fmt.Sprintf("Template %q created.", tmpl.Title), "success")
	redirectAfterAction(w, r, templateURL(tmpl.ID))
}

// TemplateUpdate handles the edit form.
// POST /templates/custom/{id}.
func (h *UIHandlers) TemplateUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}
	form, req, fieldErrs := parseTemplateForm(r)
	if fieldErrs != nil {
		h.RenderError(w, r, ErrorOpts{
			FieldErrors: fieldErrs,
			PageMeta:    formMeta(FormModeEdit),
			Data:        formData(FormModeEdit, id, form),
			StatusCode:  formErrorStatus(r),
		})
		return
	}

	tmpl, err := h.Templates.Update(r.Context(), GetCurrentUserFromContext(r.Context()), id, model.UpdateCustomTemplateRequest(req))
	if err != nil {
		if apperrors.IsForbidden(err) || apperrors.IsNotFound(err) {
			h.handleTemplateError(w, r, err)
			return
		}
		h.RenderError(w, r, ErrorOpts{
			Err:      err,
			PageMeta: formMeta(FormModeEdit),
			Data:     formData(FormModeEdit, id, form),
		})
		return
	}

	triggerToast(w, fmt.Sprintf("Template %q updated.", tmpl.Title), "success")
	redirectAfterAction(w, r, templateURL(tmpl.ID))
}

// TemplateDelete removes a template and returns to the list.
// POST /templates/custom/{id}/delete.
func (h *UIHandlers) TemplateDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}
	h.deleteTemplate(w, r, id)
}

func (h *UIHandlers) deleteTemplate(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.Templates.Delete(r.Context(), GetCurrentUserFromContext(r.Context()), id); err != nil {
		status, _ := errorStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger().ErrorContext(r.Context(), "template delete failed", "template_id", id, "error", err)
		}
		triggerToast(w, processError(err, nil), "error")
		w.WriteHeader(status)
		return
	}
	triggerToast(w, "Template deleted.", "success")
	redirectAfterAction(w, r, templatesBasePath)
}

// TemplateAction routes a list-item interaction to exactly one of select,
// edit or delete. Edit and delete are refused when the item hides them.
// POST /templates/custom/{id}/action (form field "target").
func (h *UIHandlers) TemplateAction(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		h.NotFound(w, r)
		return
	}
	target, err := templates.ParseTarget(r.PostFormValue("target"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	detail, err := h.Templates.Get(r.Context(), GetCurrentUserFromContext(r.Context()), id)
	if err != nil {
		h.handleTemplateError(w, r, err)
		return
	}

	handled := templates.Dispatch(templates.Event{Target: target, ItemID: id}, detail.Item, templates.Handlers{
		OnSelect: func(id int64) {
			redirectAfterAction(w, r, templatesBasePath+"?"+url.Values{"selected": {strconv.FormatInt(id, 10)}}.Encode())
		},
		OnEdit: func(id int64) {
			dest := detail.Item.EditURL
			if dest == "" {
				dest = templateEditURL(id)
			}
			redirectAfterAction(w, r, dest)
		},
		OnDelete: func(id int64) {
			h.deleteTemplate(w, r, id)
		},
	})
	if !handled {
		showAccessDenied(w, r)
	}
}

// handleTemplateError renders the right page for lookup and permission failures.
func (h *UIHandlers) handleTemplateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperrors.IsNotFound(err):
		h.NotFound(w, r)
	case apperrors.IsForbidden(err):
		showAccessDenied(w, r)
	default:
		h.logger().ErrorContext(r.Context(), "template request failed", "path", r.URL.Path, "error", err)
		status, _ := errorStatus(err)
		http.Error(w, strings.TrimSuffix(processError(err, nil), "."), status)
	}
}

func formErrorStatus(r *http.Request) int {
	if IsHTMX(r) {
		return 0
	}
	return http.StatusUnprocessableEntity
}
