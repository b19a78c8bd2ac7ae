package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/dockhand/dockhand-ui/internal/errors"
)

const maxJSONBody = 1 << 20

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteServiceError maps a service error onto a status code and JSON error body.
// AppErrors keep their code and message; anything else becomes a 500 with a
// generic message so internals are not leaked.
func WriteServiceError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	msg := err
	if status == http.StatusInternalServerError {
		msg = errors.New("internal server error")
	} else {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Message != "" {
			msg = errors.New(appErr.Message)
		}
	}
	WriteError(w, ErrorParams{Code: status, ErrCode: code, Err: msg})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded), apperrors.IsTimeout(err):
		return http.StatusGatewayTimeout, string(apperrors.ErrCodeTimeout)
	case errors.Is(err, context.Canceled), apperrors.IsCanceled(err):
		// 499 is nginx's "client closed request"; nothing better exists in net/http.
		return 499, string(apperrors.ErrCodeCanceled)
	case apperrors.IsForbidden(err):
		return http.StatusForbidden, string(apperrors.ErrCodeForbidden)
	case apperrors.IsNotFound(err):
		return http.StatusNotFound, string(apperrors.ErrCodeNotFound)
	case apperrors.IsValidation(err):
		return http.StatusBadRequest, string(apperrors.ErrCodeValidation)
	case apperrors.IsConflict(err):
		return http.StatusConflict, string(apperrors.ErrCodeConflict)
	case apperrors.IsForeignKey(err):
		return http.StatusConflict, string(apperrors.ErrCodeForeignKey)
	default:
		return http.StatusInternalServerError, string(apperrors.ErrCodeInternal)
	}
}
