package sqlite

import (
	"github.com/Moktur/N-LanguagesAI/internal/platform/sqlstore"
	"github.com/jmoiron/sqlx"
)

// GooseDialect is the goose dialect name for SQLite.
const GooseDialect = "sqlite3"

// Dialect returns the sqlstore dialect for SQLite. SQLite has no row locks;
// transactions opened through Open take the write lock at BEGIN instead.
func Dialect() sqlstore.Dialect {
	return sqlstore.Dialect{
		Name:      "sqlite",
		BindType:  sqlx.QUESTION,
		ForUpdate: "",
		MapError:  MapError,
	}
}
