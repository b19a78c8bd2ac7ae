package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/dockhand/dockhand-ui/internal/domain/templates"
	"github.com/dockhand/dockhand-ui/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":    deps.ContentTemplateFor,
		"friendlyTime":   friendlyTime,
		"relativeTime":   relativeTime,
		"timeTag":        timeTag,
		"add":            func(a, b int) int { return a + b },
		"sub":            func(a, b int) int { return a - b },
		"formatNumber":   FormatNumber,
		"typeBadgeClass": TypeBadgeClass,
		"truncateText":   uiutil.TruncateWithEllipsis,
		"safeHTML":       trustedHTML,
	}

	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - output of our own html/template execution, already escaped.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return funcs
}

func asTime(ts any) time.Time {
	switch v := ts.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	}
	return time.Time{}
}

func friendlyTime(ts any) string {
	return uiutil.FormatFriendlyDateTime(asTime(ts))
}

func relativeTime(ts any) string {
	t := asTime(ts)
	if t.IsZero() {
		return ""
	}
	return uiutil.FriendlyRelativeTime(t)
}

func timeTag(ts any) template.HTML {
	t := asTime(ts)
	if t.IsZero() {
		return ""
	}
	// #nosec G203 - built from escaped values only
	return template.HTML(fmt.Sprintf(
		`<time datetime="%s" title="%s">%s</time>`,
		t.UTC().Format(time.RFC3339),
		template.HTMLEscapeString(t.Local().Format(time.RFC1123)),
		template.HTMLEscapeString(uiutil.FriendlyRelativeTime(t)),
	))
}

// trustedHTML marks sanitizer output as safe. Only pass HTML that has been
// through the markdown sanitizer.
func trustedHTML(s string) template.HTML {
	// #nosec G203 - callers pass bluemonday-sanitized HTML
	return template.HTML(s)
}

// FormatNumber formats an integer with comma separators for thousands.
func FormatNumber(n int) string {
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3+1)
	if neg {
		out = append(out, '-')
	}
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// TypeBadgeClass picks the badge style for a template type label.
func TypeBadgeClass(label string) string {
	switch label {
	case templates.LabelSwarm:
		return "badge-info"
	case templates.LabelManifest:
		return "badge-warning"
	default:
		return "badge-secondary"
	}
}
