package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// PostgreSQL error codes
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
)

// mapWriteError translates driver-level constraint violations into the
// store error taxonomy. Unknown errors pass through unchanged.
func mapWriteError(err error, entity string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolationCode:
			return fmt.Errorf("%w: %s", store.ErrDuplicate, entity)
		case pgForeignKeyViolationCode:
			return fmt.Errorf("%w: %s references a missing row", store.ErrInvalidEntity, entity)
		}
	}
	return err
}
