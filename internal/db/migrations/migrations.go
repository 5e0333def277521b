// Package migrations embeds the schema used for local development and tests.
// Production tables are owned by the ingestion pipeline.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
