package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMX_RequestDetection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.False(t, IsHTMX(r))
	assert.False(t, WantsPartial(r))

	r.Header.Set("Hx-Request", "TRUE")
	r.Header.Set("Hx-Target", "main-content")
	assert.True(t, IsHTMX(r))
	assert.True(t, WantsPartial(r))
	assert.Equal(t, "main-content", HXTarget(r))
}

func TestHTMX_HistoryRestoreWantsFullPage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("Hx-Request", "true")
	r.Header.Set("Hx-History-Restore-Request", "true")

	assert.True(t, IsHistoryRestore(r))
	assert.False(t, WantsPartial(r))
}

func TestHTMX_ResponseHeaderSetters(t *testing.T) {
	rr := httptest.NewRecorder()
	SetHXRedirect(rr, "/auth/login")
	SetHXPushURL(rr, "/templates/custom")
	SetHXTrigger(rr, "saved", map[string]any{"id": "123"})

	assert.Equal(t, "/auth/login", rr.Header().Get("Hx-Redirect"))
	assert.Equal(t, "/templates/custom", rr.Header().Get("Hx-Push-Url"))

	var payload map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(rr.Header().Get("Hx-Trigger")), &payload))
	assert.Equal(t, "123", payload["saved"]["id"])
}

func TestHTMX_TriggerWithoutPayload(t *testing.T) {
	rr := httptest.NewRecorder()
	SetHXTrigger(rr, "refresh", nil)
	assert.JSONEq(t, `{"refresh":true}`, rr.Header().Get("Hx-Trigger"))
}

func TestHTMX_FluentRedirect(t *testing.T) {
	rr := httptest.NewRecorder()
	HTMX(rr).Trigger("showToast", map[string]string{"message": "ok"}).Redirect("/settings")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "/settings", rr.Header().Get("Hx-Redirect"))
	assert.Contains(t, rr.Header().Get("Hx-Trigger"), "showToast")
}

func TestRedirectAfterAction(t *testing.T) {
	t.Run("htmx", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/templates/custom", nil)
		r.Header.Set("Hx-Request", "true")
		rr := httptest.NewRecorder()

		redirectAfterAction(rr, r, "/templates/custom/7")

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "/templates/custom/7", rr.Header().Get("Hx-Redirect"))
	})

	t.Run("plain form post", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/templates/custom", nil)
		rr := httptest.NewRecorder()

		redirectAfterAction(rr, r, "/templates/custom/7")

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/templates/custom/7", rr.Header().Get("Location"))
	})
}

func TestTriggerToast(t *testing.T) {
	rr := httptest.NewRecorder()
	triggerToast(rr, "   ", "info")
	assert.Empty(t, rr.Header().Get("Hx-Trigger"), "blank messages are dropped")

	triggerToast(rr, "Template deleted.", " success ")
	var payload map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(rr.Header().Get("Hx-Trigger")), &payload))
	assert.Equal(t, map[string]string{"message": "Template deleted.", "type": "success"}, payload["showToast"])
}
