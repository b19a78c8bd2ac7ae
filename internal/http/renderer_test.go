package httpx

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplateRenderer_RequiresFS(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.Error(t, err)
}

func TestTemplateRenderer_LoadsEveryContentTemplate(t *testing.T) {
	tr := requireRenderer(t)
	for page, name := range ContentTemplateMap() {
		assert.NotNil(t, tr.current().Lookup(name), "page %q", page)
	}
	for _, name := range []string{"layout", "content", "sidebar", "sidebar-oob", "error-layout", "signed-out-page"} {
		assert.NotNil(t, tr.current().Lookup(name), name)
	}
}

func minimalTemplates(body string) fstest.MapFS {
	return fstest.MapFS{
		"layout.tmpl":         {Data: []byte(`{{ define "layout" }}` + body + `{{ end }}`)},
		"pages/empty.tmpl":    {Data: []byte(`{{ define "empty" }}{{ end }}`)},
		"partials/empty.tmpl": {Data: []byte(`{{ define "partial" }}{{ end }}`)},
	}
}

func TestTemplateRenderer_DevModeReloads(t *testing.T) {
	fsys := minimalTemplates("v1")
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys, DevMode: true})
	require.NoError(t, err)

	fsys["layout.tmpl"] = &fstest.MapFile{Data: []byte(`{{ define "layout" }}v2{{ end }}`)}
	rec := httptest.NewRecorder()
	require.NoError(t, tr.RenderFull(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil))
	assert.Equal(t, "v2", rec.Body.String())

	fsys["layout.tmpl"] = &fstest.MapFile{Data: []byte(`{{ define "layout" }}{{ broken`)}
	rec = httptest.NewRecorder()
	require.NoError(t, tr.RenderFull(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil))
	assert.Equal(t, "v2", rec.Body.String(), "a failed reload keeps the last good set")
}

func TestTemplateRenderer_ProdModeDoesNotReload(t *testing.T) {
	fsys := minimalTemplates("v1")
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys})
	require.NoError(t, err)

	fsys["layout.tmpl"] = &fstest.MapFile{Data: []byte(`{{ define "layout" }}v2{{ end }}`)}
	var buf bytes.Buffer
	require.NoError(t, tr.Execute(&buf, "layout", nil))
	assert.Equal(t, "v1", buf.String())
}

func TestTemplateRenderer_FailedRenderWritesNothing(t *testing.T) {
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: minimalTemplates(`{{ .Missing.Field }}`)})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = tr.RenderFull(rec, httptest.NewRequest(http.MethodGet, "/", nil), map[string]any{"Missing": 42})
	require.Error(t, err)
	assert.Zero(t, rec.Body.Len())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}
