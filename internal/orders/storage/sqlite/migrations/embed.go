package migrations

import "embed"

// FS contains embedded SQLite migrations for orders storage.
//
//go:embed *.sql
var FS embed.FS
