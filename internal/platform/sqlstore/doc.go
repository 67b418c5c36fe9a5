// Package sqlstore implements the store interfaces on database/sql.
//
// The queries are written once with ? placeholders and rebound to the
// dialect's bindvar style with sqlx. A Dialect supplies the driver specifics:
// placeholder style, the row locking clause and error mapping. The postgres
// and sqlite packages provide the two supported dialects.
package sqlstore
