package postgres

import (
	"embed"

	"github.com/Moktur/N-LanguagesAI/internal/platform/migrate"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrations returns the embedded PostgreSQL schema migrations.
func Migrations() migrate.Source {
	return migrate.Source{
		FS:      migrationFS,
		Dir:     "migrations",
		Dialect: GooseDialect,
	}
}
