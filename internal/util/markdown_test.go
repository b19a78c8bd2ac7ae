package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		contains []string
		excludes []string
	}{
		{name: "empty", in: ""},
		{
			name:     "emphasis and code",
			in:       "**bold** and `docker compose up`",
			contains: []string{"<strong>bold</strong>", "<code>docker compose up</code>"},
		},
		{
			name:     "script is stripped",
			in:       "hello <script>alert(1)</script>",
			contains: []string{"hello"},
			excludes: []string{"<script"},
		},
		{
			name:     "external links open safely",
			in:       "[docs](https://docs.example.com)",
			contains: []string{`href="https://docs.example.com"`, `target="_blank"`, "noreferrer"},
		},
		{
			name:     "javascript links dropped",
			in:       "[x](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
		{
			name:     "task list",
			in:       "- [x] pulled image\n- [ ] deploy",
			contains: []string{"<li>", "pulled image"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RenderMarkdown(tt.in)
			require.NoError(t, err)
			if tt.in == "" {
				assert.Empty(t, out)
			}
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRandomString(t *testing.T) {
	s, err := RandomString(32)
	require.NoError(t, err)
	assert.Len(t, s, 32)

	other, err := RandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)

	empty, err := RandomString(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
