package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DB bundles a connection pool with the dialect it was opened with.
type DB struct {
	*sql.DB
	dialect dialect
}

// Open opens a database for the given driver ("sqlite" or "postgres").
// For sqlite the dsn is a file path (or ":memory:") and missing directories are created.
func Open(driver, dsn string) (*DB, error) {
	switch Driver(strings.ToLower(strings.TrimSpace(driver))) {
	case "", DriverSQLite:
		return openSQLite(dsn)
	case DriverPostgres:
		return openPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func openSQLite(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		`PRAGMA foreign_keys = ON;`,
		`PRAGMA busy_timeout = 5000;`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	return &DB{DB: db, dialect: sqliteDialect{}}, nil
}

func openPostgres(dsn string) (*DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &DB{DB: db, dialect: postgresDialect{}}, nil
}

// Driver reports which backend the pool talks to.
func (db *DB) Driver() Driver {
	return db.dialect.driver()
}

func (db *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.ExecContext(ctx, db.dialect.rebind(query), args...)
}

func (db *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.QueryContext(ctx, db.dialect.rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.QueryRowContext(ctx, db.dialect.rebind(query), args...)
}

// createTable runs the DDL statements for a table after expanding dialect types.
func (db *DB) createTable(ctx context.Context, statements ...string) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, db.dialect.ddl(stmt)); err != nil {
			return err
		}
	}
	return nil
}

type column struct {
	name string
	ddl  string
}

// ensureColumns adds any of the given columns missing from table.
func (db *DB) ensureColumns(ctx context.Context, table string, columns ...column) error {
	existing, err := db.dialect.columns(ctx, db.DB, table)
	if err != nil {
		return fmt.Errorf("describe %s table: %w", table, err)
	}

	for _, col := range columns {
		if _, ok := existing[col.name]; ok {
			continue
		}
		stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, col.name, db.dialect.ddl(col.ddl))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add column %s.%s: %w", table, col.name, err)
		}
	}
	return nil
}

// ErrSnapshotUnsupported is returned by Snapshot on drivers without an
// in-process copy facility.
var ErrSnapshotUnsupported = errors.New("snapshot not supported for this driver")

// Snapshot writes a consistent copy of a sqlite database to path.
func (db *DB) Snapshot(ctx context.Context, path string) error {
	if db.Driver() != DriverSQLite {
		return ErrSnapshotUnsupported
	}
	if _, err := db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return fmt.Errorf("vacuum into %s: %w", path, err)
	}
	return nil
}
