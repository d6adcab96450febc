// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package database opens the PostgreSQL or SQLite connection pool and runs
// the embedded goose migrations for the selected dialect.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var embedMigrations embed.FS

// Dialect selects the SQL backend.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect validates a DB_DRIVER value.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(s)) {
	case Postgres:
		return Postgres, nil
	case SQLite:
		return SQLite, nil
	default:
		return "", fmt.Errorf("unknown database driver %q (want postgres or sqlite)", s)
	}
}

// goose keeps its base FS and dialect in package state.
var migrateMu sync.Mutex

// Connect opens a connection pool for dialect and verifies it with a ping.
// For SQLite, dsn is a file path or ":memory:"; foreign keys are enabled on
// every connection.
func Connect(dialect Dialect, dsn string) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch dialect {
	case Postgres:
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("database open: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	case SQLite:
		db, err = sql.Open("sqlite", SQLiteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("database open: %w", err)
		}
		// A single connection serializes writers and keeps an in-memory
		// database alive for the pool's lifetime.
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("database open: unknown dialect %q", dialect)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected", "dialect", dialect)
	return db, nil
}

// SQLiteDSN turns a path into a modernc DSN with the pragmas the schema
// relies on.
func SQLiteDSN(path string) string {
	if path == ":memory:" {
		path = "file::memory:"
	} else if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Migrate runs all pending goose migrations for dialect from the embedded
// SQL files.
func Migrate(db *sql.DB, dialect Dialect) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	defer goose.SetBaseFS(nil)

	gooseDialect := "postgres"
	if dialect == SQLite {
		gooseDialect = "sqlite3"
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations/"+string(dialect)); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied", "dialect", dialect)
	return nil
}
