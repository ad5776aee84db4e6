package migrations

import "embed"

// FS SQL миграции схемы, применяются через pkg/migrator
//
//go:embed *.sql
var FS embed.FS
