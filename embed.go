package gratax

import "embed"

// MigrationsFS holds the SQL migrations for the postgres storage driver.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
