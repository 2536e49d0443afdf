package sqlstore

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// dialect hides the SQL differences between sqlite and postgres. Queries are
// written with "?" placeholders and DDL uses {{pk}} / {{timestamp}} markers.
type dialect interface {
	driver() Driver
	rebind(query string) string
	ddl(stmt string) string
	columns(ctx context.Context, db *sql.DB, table string) (map[string]struct{}, error)
}

type sqliteDialect struct{}

var sqliteTypes = strings.NewReplacer(
	"{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
	"{{timestamp}}", "DATETIME",
)

func (sqliteDialect) driver() Driver { return DriverSQLite }

func (sqliteDialect) rebind(query string) string { return query }

func (sqliteDialect) ddl(stmt string) string { return sqliteTypes.Replace(stmt) }

func (sqliteDialect) columns(ctx context.Context, db *sql.DB, table string) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, `PRAGMA table_info(`+table+`)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := map[string]struct{}{}
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		columns[name] = struct{}{}
	}
	return columns, rows.Err()
}

type postgresDialect struct{}

var postgresTypes = strings.NewReplacer(
	"{{pk}}", "BIGSERIAL PRIMARY KEY",
	"{{timestamp}}", "TIMESTAMPTZ",
)

func (postgresDialect) driver() Driver { return DriverPostgres }

// rebind turns "?" placeholders into $1, $2, ...
func (postgresDialect) rebind(query string) string {
	var (
		b strings.Builder
		n int
	)
	b.Grow(len(query) + 8)
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

func (postgresDialect) ddl(stmt string) string { return postgresTypes.Replace(stmt) }

func (postgresDialect) columns(ctx context.Context, db *sql.DB, table string) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, `
SELECT column_name
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := map[string]struct{}{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns[name] = struct{}{}
	}
	return columns, rows.Err()
}
