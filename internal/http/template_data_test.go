package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/dockhand/dockhand-ui/internal/domain/auth"
	"github.com/dockhand/dockhand-ui/internal/http/ui/viewmodel"
	"github.com/dockhand/dockhand-ui/internal/testutil"
)

func TestNewTemplateData_Anonymous(t *testing.T) {
	h := &UIHandlers{}
	r := httptest.NewRequest(http.MethodGet, "/templates/custom", nil)
	data := h.newTemplateData(r, PageMeta{Title: "Custom Templates - Dockhand", PageTitle: "Custom Templates", CurrentPage: PageTemplates}).Build()

	assert.Equal(t, "Custom Templates - Dockhand", data["Title"])
	assert.Equal(t, "Custom Templates", data["PageTitle"])
	assert.Equal(t, PageTemplates, data["CurrentPage"])
	assert.Equal(t, false, data["IsAuthenticated"])
	assert.NotContains(t, data, "User")
	assert.NotContains(t, data, "CSRFToken")

	layout, ok := data["Layout"].(*viewmodel.Layout)
	require.True(t, ok)
	assert.Empty(t, layout.Sidebar)
}

func TestNewTemplateData_SignedInResolvesSidebar(t *testing.T) {
	settings := &stubSettings{}
	h := &UIHandlers{Nav: newTestNav(t, settings, "lead-1")}
	sess := testutil.NewSession("lead-1", domainauth.RoleUser)
	r := withSession(httptest.NewRequest(http.MethodGet, "/users", nil), sess)

	data := h.newTemplateData(r, PageMeta{CurrentPage: PageSettings}).Build()

	assert.Equal(t, true, data["IsAuthenticated"])
	assert.Equal(t, "dockhand.users", data["CurrentRoute"])
	user, ok := data["User"].(*viewmodel.User)
	require.True(t, ok)
	assert.True(t, user.IsTeamLeader)
	assert.False(t, user.IsAdmin)

	layout := extractLayoutInfo(data)
	node, found := sectionForRoute(layout.Sidebar, "dockhand.users")
	require.True(t, found, "team leader sees Users while team sync is unknown")
	assert.True(t, node.Active)
}

func TestTemplateDataBuilder_WithPagination(t *testing.T) {
	h := &UIHandlers{}

	t.Run("middle page", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/templates/custom?q=web&page=2&hx-request=1", nil)
		data := h.newTemplateData(r, PageMeta{}).WithPagination(PaginationData{
			Page: 2, PageSize: 20, TotalCount: 65, Shown: 20, BasePath: "/templates/custom",
		}).Build()

		assert.Equal(t, true, data["HasPrev"])
		assert.Equal(t, true, data["HasNext"])
		assert.Equal(t, 21, data["StartIndex"])
		assert.Equal(t, 40, data["EndIndex"])

		prev, err := url.Parse(data["PrevURL"].(string))
		require.NoError(t, err)
		assert.Equal(t, "/templates/custom", prev.Path)
		assert.Equal(t, "1", prev.Query().Get("page"))
		assert.Equal(t, "web", prev.Query().Get("q"))
		assert.NotContains(t, prev.Query(), "hx-request")

		next, err := url.Parse(data["NextURL"].(string))
		require.NoError(t, err)
		assert.Equal(t, "3", next.Query().Get("page"))
	})

	t.Run("first page", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/templates/custom", nil)
		data := h.newTemplateData(r, PageMeta{}).WithPagination(PaginationData{
			Page: 1, PageSize: 20, TotalCount: 5, Shown: 5, BasePath: "/templates/custom",
		}).Build()

		assert.Equal(t, false, data["HasPrev"])
		assert.Equal(t, false, data["HasNext"])
		assert.NotContains(t, data, "PrevURL")
		assert.NotContains(t, data, "NextURL")
		assert.Equal(t, 1, data["StartIndex"])
		assert.Equal(t, 5, data["EndIndex"])
	})

	t.Run("empty page", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/templates/custom", nil)
		data := h.newTemplateData(r, PageMeta{}).WithPagination(PaginationData{Page: 1, PageSize: 20, BasePath: "/templates/custom"}).Build()
		assert.NotContains(t, data, "StartIndex")
	})
}

func TestTemplateDataBuilder_Errors(t *testing.T) {
	h := &UIHandlers{}
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	data := h.newTemplateData(r, PageMeta{}).
		WithFieldErrors(nil).
		WithError("Something broke.").
		With("Items", []string{"a"}).
		Build()
	assert.NotContains(t, data, "Errors")
	assert.Equal(t, true, data["Error"])
	assert.Equal(t, "Something broke.", data["ErrorMessage"])
	assert.Equal(t, []string{"a"}, data["Items"])

	data = h.newTemplateData(r, PageMeta{}).WithFieldErrors(map[string]string{"title": "Required."}).Build()
	assert.Equal(t, map[string]string{"title": "Required."}, data["Errors"])
}

func TestPageParams(t *testing.T) {
	page, size := getPageParams(url.Values{"page": {"3"}, "page_size": {"50"}})
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, size)

	page, size = getPageParams(url.Values{"page": {"-1"}, "page_size": {"1000"}})
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageLimit, size)

	limit, offset := pageOpts{Page: 3, PageSize: 25}.LimitAndOffset()
	assert.Equal(t, 25, limit)
	assert.Equal(t, 50, offset)
}
