//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// Air - Live reload for cmd/dockhand with DEV=true (templates and static files are read from disk)
//   Install: go install github.com/air-verse/air@v1.63.0
//   Version: v1.63.0 (pinned 2025-01-01)
//   Docs: https://github.com/air-verse/air
//
// Mockgen runs through `go run` from internal/mocks/generate.go and is pinned by
// the go.uber.org/mock requirement in go.mod.
