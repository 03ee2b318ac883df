package migration

import "embed"

const migrationsDir = "migrations"

// Only up migrations ship in the binary; down files are for operators.
//
//go:embed migrations/*.up.sql
var embeddedMigrations embed.FS
