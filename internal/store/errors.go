// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"folio/internal/apperr"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// pgSerializationFailure is the SQLSTATE for serialization_failure.
const pgSerializationFailure = "40001"

// isSerializationFailure reports whether err is PostgreSQL aborting a
// serializable transaction that conflicted with a concurrent one.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgSerializationFailure
}

// isUniqueViolation reports whether err is a unique-constraint failure from
// either supported driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// writeErr wraps a failed write. Unique-constraint failures become Conflict
// so a race lost at commit time is reported like a failed pre-check.
func writeErr(op, what string, err error) error {
	if isUniqueViolation(err) {
		return apperr.Conflictf("%s already exists", what).WithCause(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
