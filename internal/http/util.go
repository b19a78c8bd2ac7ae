package httpx

import (
	"net/http"
	"strconv"
	"strings"
)

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// ParseLimitOffset parses common pagination params and clamps to sane bounds.
// Values above maxLimit are clamped to maxLimit.
func ParseLimitOffset(r *http.Request, defLimit, maxLimit int) (int, int) {
	if maxLimit < 1 {
		maxLimit = 1
	}

	lim := parseIntQuery(r, "limit", defLimit)
	off := parseIntQuery(r, "offset", 0)
	if lim < 1 {
		lim = 1
	}
	if lim > maxLimit {
		lim = maxLimit
	}
	if off < 0 {
		off = 0
	}
	return lim, off
}

// ParseSortParam reads sort and dir query params. Unknown sort fields fall
// back to the first allowed field; dir is "asc" or "desc" (default "desc").
func ParseSortParam(r *http.Request, allowed ...string) (string, string) {
	sort := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort")))
	field := ""
	for _, a := range allowed {
		if a == sort {
			field = a
			break
		}
	}
	if field == "" && len(allowed) > 0 {
		field = allowed[0]
	}

	dir := "desc"
	if strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("dir")), "asc") {
		dir = "asc"
	}
	return field, dir
}

// parseID parses a positive int64 path value.
func parseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// optionalString returns nil for blank input so filters stay unset.
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
