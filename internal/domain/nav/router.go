package nav

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ErrUnknownRoute is returned for route names missing from the registry.
var ErrUnknownRoute = errors.New("unknown route")

// Router resolves route names to paths. It is immutable after construction
// and safe for concurrent use.
type Router struct {
	routes map[string][]string
	names  []string
}

// NewRouter builds a router from route name to path template, where
// template segments of the form {name} are parameters.
func NewRouter(routes map[string]string) *Router {
	r := &Router{routes: make(map[string][]string, len(routes))}
	for name, tmpl := range routes {
		r.routes[name] = splitPath(tmpl)
		r.names = append(r.names, name)
	}
	// Static routes first so "/templates/custom/new" beats "/templates/custom/{id}".
	sort.Slice(r.names, func(i, j int) bool {
		pi, pj := paramCount(r.routes[r.names[i]]), paramCount(r.routes[r.names[j]])
		if pi != pj {
			return pi < pj
		}
		return r.names[i] < r.names[j]
	})
	return r
}

// URL renders the path for name, substituting params.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	segs, ok := r.routes[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		if p, isParam := paramName(s); isParam {
			v, found := params[p]
			if !found || v == "" {
				return "", fmt.Errorf("route %s: missing param %q", name, p)
			}
			parts = append(parts, url.PathEscape(v))
			continue
		}
		parts = append(parts, s)
	}
	return "/" + strings.Join(parts, "/"), nil
}

// IsActive reports whether current is name, nested under name, or nested
// under one of the include paths. Ignore paths take precedence.
func (r *Router) IsActive(current, name string, opts PathOptions) bool {
	for _, ig := range opts.IgnorePaths {
		if under(current, ig) {
			return false
		}
	}
	if under(current, name) {
		return true
	}
	for _, inc := range opts.IncludePaths {
		if under(current, inc) {
			return true
		}
	}
	return false
}

// Match maps a request path to a route name and its params.
func (r *Router) Match(path string) (string, map[string]string, bool) {
	reqSegs := splitPath(path)
	for _, name := range r.names {
		if params, ok := matchSegments(r.routes[name], reqSegs); ok {
			return name, params, true
		}
	}
	return "", nil, false
}

func under(current, name string) bool {
	if current == "" || name == "" {
		return false
	}
	return current == name || strings.HasPrefix(current, name+".")
}

func matchSegments(tmpl, req []string) (map[string]string, bool) {
	if len(tmpl) != len(req) {
		return nil, false
	}
	var params map[string]string
	for i, s := range tmpl {
		if p, isParam := paramName(s); isParam {
			v, err := url.PathUnescape(req[i])
			if err != nil || v == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[p] = v
			continue
		}
		if s != req[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func paramName(seg string) (string, bool) {
	if len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}

func paramCount(segs []string) int {
	n := 0
	for _, s := range segs {
		if _, ok := paramName(s); ok {
			n++
		}
	}
	return n
}
