package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lusolearn/lusolearn-api/internal/store"
)

// PostgreSQL error codes
const (
	notNullViolationCode      = "23502"
	checkViolationCode        = "23514"
	invalidTextRepresentation = "22P02"
	invalidJSONTextCode       = "22032"

	// connectionExceptionClass covers every SQLSTATE starting with 08.
	connectionExceptionClass = "08"
)

// MapError maps a database error to a store error, wrapping the original so
// that the cause stays available to errors.As.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == notNullViolationCode:
			return fmt.Errorf("%w: not null violation (%s): %w", store.ErrInvalidRecord, pgErr.ColumnName, err)
		case pgErr.Code == checkViolationCode:
			return fmt.Errorf("%w: check constraint violation (%s): %w", store.ErrInvalidRecord, pgErr.ConstraintName, err)
		case pgErr.Code == invalidTextRepresentation, pgErr.Code == invalidJSONTextCode:
			return fmt.Errorf("%w: value is not valid JSON: %w", store.ErrInvalidRecord, err)
		case strings.HasPrefix(pgErr.Code, connectionExceptionClass):
			return fmt.Errorf("%w: connection lost: %w", store.ErrTransactionFailed, err)
		}
	}

	return err
}

// IsNotFoundError reports whether err is or wraps a missing-row condition.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, store.ErrNotFound)
}
