// Package database builds parameterised list queries with sanitized identifiers.
package database

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal    ConditionType = "="
	NotEqual ConditionType = "!="
	ILike    ConditionType = "ILIKE"
	In       ConditionType = "IN"

	unset = -1
)

// Condition is one AND-ed predicate of a WHERE clause.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	o := &ListQueryOptions{Table: table, Limit: unset, Offset: unset}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithOrderBy sets the ordering column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit sets the limit. Accepts 0; negative values are ignored.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0; negative values are ignored.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly turns the query into SELECT COUNT(*), dropping order and paging.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) { o.CountOnly = true }
}

func sanitize(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// BuildListQuery renders options into SQL and positional args.
func BuildListQuery(o *ListQueryOptions) (string, []any) {
	if o == nil {
		return "", nil
	}

	var b strings.Builder
	switch {
	case o.CountOnly:
		b.WriteString("SELECT COUNT(*)")
	case len(o.Columns) == 0:
		b.WriteString("SELECT *")
	default:
		cols := make([]string, len(o.Columns))
		for i, c := range o.Columns {
			cols[i] = sanitize(c)
		}
		b.WriteString("SELECT " + strings.Join(cols, ", "))
	}
	b.WriteString(" FROM " + sanitize(o.Table))

	var args []any
	where := make([]string, 0, len(o.Conditions))
	for _, c := range o.Conditions {
		clause, cargs := renderCondition(c, len(args)+1)
		if clause == "" {
			continue
		}
		where = append(where, clause)
		args = append(args, cargs...)
	}
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	if o.CountOnly {
		return b.String(), args
	}

	if o.OrderBy != "" {
		b.WriteString(" ORDER BY " + sanitize(o.OrderBy))
		if dir := strings.ToUpper(o.OrderDir); dir == "ASC" || dir == "DESC" {
			b.WriteString(" " + dir)
		}
	}
	if o.Limit != unset {
		args = append(args, o.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if o.Offset != unset {
		args = append(args, o.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

func renderCondition(c Condition, next int) (string, []any) {
	if c.Field == "" {
		return "", nil
	}
	field := sanitize(c.Field)
	switch c.Type {
	case Equal, NotEqual, ILike:
		return fmt.Sprintf("%s %s $%d", field, c.Type, next), []any{c.Value}
	case In:
		vals, ok := c.Value.([]any)
		if !ok || len(vals) == 0 {
			return "", nil
		}
		ph := make([]string, len(vals))
		for i := range vals {
			ph[i] = fmt.Sprintf("$%d", next+i)
		}
		return fmt.Sprintf("%s IN (%s)", field, strings.Join(ph, ", ")), vals
	default:
		return "", nil
	}
}
