// Package migrations embeds the goose SQL migrations for the shared schema.
// Per-task item and event tables are created at ingestion time, not here.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
