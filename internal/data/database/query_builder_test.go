package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name  string
		opts  *ListQueryOptions
		query string
		args  []any
	}{
		{
			name:  "basic select",
			opts:  NewListQueryOptions("custom_templates"),
			query: `SELECT * FROM "custom_templates"`,
		},
		{
			name:  "qualified columns",
			opts:  NewListQueryOptions("custom_templates", WithColumns("custom_templates.id", "title")),
			query: `SELECT "custom_templates"."id", "title" FROM "custom_templates"`,
		},
		{
			name: "count only ignores paging",
			opts: NewListQueryOptions("custom_templates",
				WithCountOnly(),
				WithCondition(WhereCond("type", Equal, 2)),
				WithLimit(10),
				WithOrderBy("title", "asc"),
			),
			query: `SELECT COUNT(*) FROM "custom_templates" WHERE "type" = $1`,
			args:  []any{2},
		},
		{
			name: "filters order and paging",
			opts: NewListQueryOptions("custom_templates",
				WithColumns("id"),
				WithCondition(WhereCond("title", ILike, "%nginx%")),
				WithCondition(WhereCond("type", In, []any{1, 3})),
				WithOrderBy("created_at", "desc"),
				WithLimit(20),
				WithOffset(0),
			),
			query: `SELECT "id" FROM "custom_templates" WHERE "title" ILIKE $1 AND "type" IN ($2, $3)` +
				` ORDER BY "created_at" DESC LIMIT $4 OFFSET $5`,
			args: []any{"%nginx%", 1, 3, 20, 0},
		},
		{
			name: "empty IN and bad direction are dropped",
			opts: NewListQueryOptions("teams",
				WithCondition(WhereCond("id", In, []any{})),
				WithOrderBy("name", "sideways"),
				WithLimit(-5),
			),
			query: `SELECT * FROM "teams" ORDER BY "name"`,
		},
		{
			name: "identifiers are quoted",
			opts: NewListQueryOptions(`x"; DROP TABLE teams; --`,
				WithCondition(WhereCond(`name"`, Equal, "a")),
			),
			query: `SELECT * FROM "x""; DROP TABLE teams; --" WHERE "name""" = $1`,
			args:  []any{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := BuildListQuery(tt.opts)
			assert.Equal(t, tt.query, q)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestBuildListQuery_Nil(t *testing.T) {
	q, args := BuildListQuery(nil)
	assert.Empty(t, q)
	assert.Nil(t, args)
}
