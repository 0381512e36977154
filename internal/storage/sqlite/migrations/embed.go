package migrations

import "embed"

// FS contains embedded SQLite migrations for the question deck store.
//
//go:embed *.sql
var FS embed.FS
