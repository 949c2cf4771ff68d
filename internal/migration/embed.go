package migration

import "embed"

// MigrationsFS holds the SQL migrations compiled into the binary
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
