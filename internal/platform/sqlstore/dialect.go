package sqlstore

import (
	"github.com/jmoiron/sqlx"
)

// Dialect captures what differs between the supported databases.
type Dialect struct {
	// Name identifies the dialect in logs, e.g. "postgres".
	Name string

	// BindType is the sqlx placeholder style (sqlx.DOLLAR, sqlx.QUESTION).
	BindType int

	// ForUpdate is appended to SELECTs that must lock their rows until the
	// transaction ends. Empty for databases that lock at BEGIN instead.
	ForUpdate string

	// MapError translates driver errors into store sentinels.
	MapError func(error) error
}

// Rebind converts a query written with ? placeholders to the dialect's style.
func (d Dialect) Rebind(query string) string {
	return sqlx.Rebind(d.BindType, query)
}

func (d Dialect) mapErr(err error) error {
	if err == nil || d.MapError == nil {
		return err
	}
	return d.MapError(err)
}
