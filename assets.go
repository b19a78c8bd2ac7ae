// Package dockhand provides embedded assets for production builds.
package dockhand

import "embed"

// In dev mode assets are read from disk instead so edits apply without a rebuild.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
