// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"folio/internal/auth"
	"folio/internal/models"
)

// defaultRoles are inserted on first start. The "user" role is the default
// for new accounts.
var defaultRoles = []struct {
	name      string
	isDefault bool
}{
	{models.RoleAdmin, false},
	{models.RoleModerator, false},
	{models.RoleUser, true},
}

// SeedRoles inserts the admin, moderator and user roles if no roles exist.
func SeedRoles(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM roles").Scan(&count); err != nil {
		return fmt.Errorf("seed check roles: %w", err)
	}
	if count > 0 {
		slog.Info("roles already seeded, skipping")
		return nil
	}

	now := time.Now().UTC()
	for _, r := range defaultRoles {
		_, err := db.ExecContext(ctx, `
			INSERT INTO roles (id, name, is_default, created_at)
			VALUES ($1, $2, $3, $4)
		`, uuid.New(), r.name, r.isDefault, now)
		if err != nil {
			return fmt.Errorf("seed insert role %s: %w", r.name, err)
		}
	}

	slog.Info("default roles seeded", "count", len(defaultRoles))
	return nil
}

// SeedAdmin creates a development admin account if no users exist. The
// admin role must already be present.
func SeedAdmin(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("database already has users, skipping admin seed")
		return nil
	}

	var roleID uuid.UUID
	err := db.QueryRowContext(ctx, "SELECT id FROM roles WHERE name = $1", models.RoleAdmin).Scan(&roleID)
	if err != nil {
		return fmt.Errorf("seed find admin role: %w", err)
	}

	hash, err := auth.HashPassword("admin")
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	now := time.Now().UTC()
	_, err = db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, role_id, totp_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.New(), "admin", "admin@folio.local", hash, roleID, false, now, now)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with development admin user",
		"email", "admin@folio.local",
		"password", "admin",
	)
	return nil
}
