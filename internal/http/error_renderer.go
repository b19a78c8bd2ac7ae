package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode"

	apperrors "github.com/dockhand/dockhand-ui/internal/errors"
)

// ErrorOpts contains the options for rendering a page with errors.
type ErrorOpts struct {
	Err error
	// FieldErrors maps a form field name to its message.
	FieldErrors map[string]string
	PageMeta    PageMeta
	// Data carries extra template data, e.g. the submitted form values.
	Data map[string]any
	// StatusCode defaults to DetermineErrorStatus(Err), then 200 so htmx swaps the body.
	StatusCode int
	// ShowToast sends a showToast trigger with the general message.
	ShowToast bool
}

// DetermineErrorStatus picks the status for an error re-rendered into a page.
// Zero means the caller's default.
func DetermineErrorStatus(err error) int {
	err = apperrors.MapDBError(err)
	switch {
	case err == nil:
		return 0
	case apperrors.IsForbidden(err):
		return http.StatusForbidden
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsForeignKey(err), apperrors.IsConflict(err):
		return http.StatusConflict
	case apperrors.IsValidation(err):
		return http.StatusUnprocessableEntity
	default:
		return 0
	}
}

// RenderError re-renders a page with a general message and field errors.
// Database and application errors are mapped to user-facing messages.
func (h *UIHandlers) RenderError(w http.ResponseWriter, r *http.Request, opts ErrorOpts) {
	builder := h.newTemplateData(r, opts.PageMeta)
	for k, v := range opts.Data {
		builder.With(k, v)
	}

	general := processError(opts.Err, &opts.FieldErrors)
	if len(opts.FieldErrors) > 0 {
		builder.WithFieldErrors(opts.FieldErrors)
	}
	switch {
	case general != "":
		builder.WithError(general)
	case len(opts.FieldErrors) > 0:
		builder.WithError(errMsgFixBelow)
	}

	if opts.ShowToast && general != "" {
		triggerToast(w, general, "error")
	}

	status := opts.StatusCode
	if status == 0 {
		status = DetermineErrorStatus(opts.Err)
	}
	// htmx ignores non-2xx bodies by default; those requests keep 200 for
	// validation so the form swaps in.
	if status == http.StatusUnprocessableEntity && IsHTMX(r) {
		status = 0
	}
	if status != 0 {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	h.renderPage(w, r, builder.Build())
}

// processError returns the general message for err and records a field
// error when err names one. Returns "" if err is nil.
func processError(err error, fieldErrors *map[string]string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) || apperrors.IsTimeout(err) {
		return "Request timed out. Please try again."
	}
	if errors.Is(err, context.Canceled) || apperrors.IsCanceled(err) {
		return "Request was canceled."
	}

	var appErr *apperrors.AppError
	if !errors.As(apperrors.MapDBError(err), &appErr) {
		return "An error occurred. Please try again."
	}

	switch appErr.Code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeConflict:
		if appErr.Field != "" && fieldErrors != nil {
			if *fieldErrors == nil {
				*fieldErrors = make(map[string]string)
			}
			(*fieldErrors)[appErr.Field] = sentence(appErr.Message)
			return errMsgFixBelow
		}
		return sentence(appErr.Message)
	case apperrors.ErrCodeInternal:
		return "An error occurred. Please try again."
	default:
		return sentence(appErr.Message)
	}
}

// sentence capitalizes msg and ends it with a period.
func sentence(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return msg
	}
	r := []rune(msg)
	r[0] = unicode.ToUpper(r[0])
	out := string(r)
	if !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}
