// migrations/embed.go

// Package migrations embeds the schema migration files so binaries can
// run them without a copy of the source tree on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
