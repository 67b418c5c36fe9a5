package postgres

import (
	"github.com/Moktur/N-LanguagesAI/internal/platform/sqlstore"
	"github.com/jmoiron/sqlx"
)

// GooseDialect is the goose dialect name for PostgreSQL.
const GooseDialect = "postgres"

// Dialect returns the sqlstore dialect for PostgreSQL. Read-modify-write
// queries lock their rows with FOR UPDATE.
func Dialect() sqlstore.Dialect {
	return sqlstore.Dialect{
		Name:      "postgres",
		BindType:  sqlx.DOLLAR,
		ForUpdate: " FOR UPDATE",
		MapError:  MapError,
	}
}
