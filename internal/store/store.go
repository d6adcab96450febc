// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all Folio entities.
// Each store struct wraps a *sql.DB and exposes typed query methods. Queries
// use $n placeholders and portable SQL so they run unchanged on PostgreSQL
// (pgx) and SQLite (modernc).
//
// Lookups return (nil, nil) when no row matches.
package store

import (
	"context"
	"database/sql"
	"time"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// now returns the current time in UTC, truncated to microseconds so values
// round-trip identically through both drivers.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
