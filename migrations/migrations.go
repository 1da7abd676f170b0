package migrations

import "embed"

// FS SQL миграции схемы, применяются goose при старте
//
//go:embed *.sql
var FS embed.FS
