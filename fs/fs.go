// Package appfs exposes the embedded static application files:
// database migrations and email templates.
package appfs

import "embed"

//go:embed migrations all:assets
var FS embed.FS
