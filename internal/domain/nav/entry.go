package nav

import "fmt"

// Kind tags a sidebar entry.
type Kind uint8

const (
	KindSection Kind = iota
	KindParent
	KindItem
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindSection:
		return "section"
	case KindParent:
		return "parent"
	case KindItem:
		return "item"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for _, c := range []Kind{KindSection, KindParent, KindItem, KindLink} {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown sidebar kind %q", text)
}

// PathOptions widens or narrows the routes under which an entry is active.
type PathOptions struct {
	IncludePaths []string
	IgnorePaths  []string
}

// Predicate decides an entry's visibility from the computed table.
type Predicate func(Visibility) bool

// Always is the predicate for entries without their own gate.
func Always(Visibility) bool { return true }

// Entry is one node of the static sidebar definition.
type Entry struct {
	Key     string
	Kind    Kind
	Label   string
	Route   string
	Href    string
	Icon    string
	DataCy  string
	Paths   PathOptions
	Visible Predicate
	// Children are evaluated only when the entry itself is visible.
	Children []Entry
}

// Node is a resolved, visible entry ready for rendering.
type Node struct {
	Key      string `json:"key"                yaml:"key"`
	Kind     Kind   `json:"kind"               yaml:"kind"`
	Label    string `json:"label"              yaml:"label"`
	Route    string `json:"route,omitempty"    yaml:"route,omitempty"`
	URL      string `json:"url,omitempty"      yaml:"url,omitempty"`
	Icon     string `json:"icon,omitempty"     yaml:"icon,omitempty"`
	DataCy   string `json:"data_cy,omitempty"  yaml:"data_cy,omitempty"`
	External bool   `json:"external,omitempty" yaml:"external,omitempty"`
	Active   bool   `json:"active"             yaml:"active"`
	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// RouteResolver turns route names into links and answers active-route queries.
type RouteResolver interface {
	URL(name string, params map[string]string) (string, error)
	IsActive(current, name string, opts PathOptions) bool
}

// ResolveOptions carries the routing context for Resolve.
type ResolveOptions struct {
	Router       RouteResolver
	CurrentRoute string
}

// Resolve evaluates the tree top-down against v and returns only visible
// nodes. A hidden entry hides its subtree, and sections left without
// children are dropped.
func Resolve(tree []Entry, v Visibility, opts ResolveOptions) []Node {
	out := make([]Node, 0, len(tree))
	for _, e := range tree {
		n, ok := resolveEntry(e, v, opts)
		if ok {
			out = append(out, n)
		}
	}
	return out
}

func resolveEntry(e Entry, v Visibility, opts ResolveOptions) (Node, bool) {
	pred := e.Visible
	if pred == nil {
		pred = Always
	}
	if !pred(v) {
		return Node{}, false
	}

	n := Node{
		Key:    e.Key,
		Kind:   e.Kind,
		Label:  e.Label,
		Route:  e.Route,
		Icon:   e.Icon,
		DataCy: e.DataCy,
	}

	switch e.Kind {
	case KindLink:
		n.URL = e.Href
		n.External = true
	default:
		if e.Route != "" {
			n.URL = routeURL(opts.Router, e.Route)
			if opts.Router != nil && opts.CurrentRoute != "" {
				n.Active = opts.Router.IsActive(opts.CurrentRoute, e.Route, e.Paths)
			}
		}
	}

	if len(e.Children) > 0 {
		n.Children = Resolve(e.Children, v, opts)
		for _, c := range n.Children {
			if c.Active {
				n.Active = true
				break
			}
		}
	}

	if e.Kind == KindSection && len(n.Children) == 0 {
		return Node{}, false
	}
	return n, true
}

func routeURL(r RouteResolver, name string) string {
	if r == nil {
		return ""
	}
	u, err := r.URL(name, nil)
	if err != nil {
		return "#"
	}
	return u
}

// Walk visits every node depth-first.
func Walk(nodes []Node, fn func(Node)) {
	for _, n := range nodes {
		fn(n)
		Walk(n.Children, fn)
	}
}

// Find returns the first node with key.
func Find(nodes []Node, key string) (Node, bool) {
	var (
		found Node
		ok    bool
	)
	Walk(nodes, func(n Node) {
		if !ok && n.Key == key {
			found, ok = n, true
		}
	})
	return found, ok
}
