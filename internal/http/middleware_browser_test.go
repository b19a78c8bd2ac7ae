package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func browserReq(path, accept string, htmx bool) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		r.Header.Set("Accept", accept)
	}
	if htmx {
		r.Header.Set("Hx-Request", "true")
	}
	return r
}

func TestBrowserDetection_StoresDecision(t *testing.T) {
	const htmlAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	cases := map[string]struct {
		req  *http.Request
		want bool
	}{
		"api json":             {browserReq("/api/sidebar", "application/json", false), false},
		"api asking for html":  {browserReq("/api/custom_templates", "text/html", false), false},
		"api via htmx":         {browserReq("/api/custom_templates/3", "", true), false},
		"static asset":         {browserReq("/static/css/app.css", "text/css", false), false},
		"metrics scrape":       {browserReq("/metrics", htmlAccept, false), false},
		"page navigation":      {browserReq("/users", htmlAccept, false), true},
		"htmx swap":            {browserReq("/templates/custom", "*/*", true), true},
		"no accept header":     {browserReq("/settings", "", false), true},
		"json on a page route": {browserReq("/settings", "application/json", false), false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var got, seen bool
			BrowserDetection()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got, seen = r.Context().Value(browserRequestKey{}).(bool)
			})).ServeHTTP(httptest.NewRecorder(), tc.req)

			assert.True(t, seen, "decision must be stored on the context")
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, IsBrowserRequest(tc.req), "direct detection agrees")
		})
	}
}

func TestIsBrowserRequest_ContextWins(t *testing.T) {
	req := browserReq("/api/sidebar", "application/json", false)
	forced := req.WithContext(context.WithValue(req.Context(), browserRequestKey{}, true))
	assert.True(t, IsBrowserRequest(forced))

	page := browserReq("/users", "text/html", false)
	forced = page.WithContext(context.WithValue(page.Context(), browserRequestKey{}, false))
	assert.False(t, IsBrowserRequest(forced))

	// A value of the wrong type is ignored.
	odd := page.WithContext(context.WithValue(page.Context(), browserRequestKey{}, "yes"))
	assert.True(t, IsBrowserRequest(odd))
}
