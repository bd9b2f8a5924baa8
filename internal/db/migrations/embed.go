// filepath: internal/db/migrations/embed.go
package migrations

import "embed"

// FS embeds the SQL migration files in this directory for goose.
//
//go:embed *.sql
var FS embed.FS
