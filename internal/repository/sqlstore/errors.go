package sqlstore

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"keyed-api/internal/repository"
)

// classifyWriteErr tags unique and not-null violations with repository.ErrConstraint.
func classifyWriteErr(op string, err error) error {
	if isConstraintErr(err) {
		return fmt.Errorf("%s: %w: %w", op, repository.ErrConstraint, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isConstraintErr(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		// low byte is the primary code whether or not extended codes are on
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// unique_violation, not_null_violation
		return pgErr.Code == "23505" || pgErr.Code == "23502"
	}
	return false
}
