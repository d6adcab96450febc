// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"folio/internal/models"
)

// RoleStore handles role persistence.
type RoleStore struct {
	db *sql.DB
}

// NewRoleStore creates a new RoleStore with the given database connection.
func NewRoleStore(db *sql.DB) *RoleStore {
	return &RoleStore{db: db}
}

const roleColumns = `id, name, is_default, created_at`

func scanRole(row scanner) (*models.Role, error) {
	var r models.Role
	if err := row.Scan(&r.ID, &r.Name, &r.Default, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RoleStore) findOne(ctx context.Context, op, where string, arg any) (*models.Role, error) {
	r, err := scanRole(s.db.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM roles WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// FindByID retrieves a role by UUID. Returns nil if not found.
func (s *RoleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	return s.findOne(ctx, "find role by id", "id = $1", id)
}

// FindByName retrieves a role by its unique name. Returns nil if not found.
func (s *RoleStore) FindByName(ctx context.Context, name string) (*models.Role, error) {
	return s.findOne(ctx, "find role by name", "name = $1", name)
}

// FindDefault returns the default role, or nil if none is flagged.
func (s *RoleStore) FindDefault(ctx context.Context) (*models.Role, error) {
	return s.findOne(ctx, "find default role", "is_default = $1", true)
}

// List returns all roles in creation order.
func (s *RoleStore) List(ctx context.Context) ([]models.Role, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, *r)
	}
	return roles, rows.Err()
}

// Create inserts a role. When r.Default is set, the flag is cleared on
// every other role in the same transaction.
func (s *RoleStore) Create(ctx context.Context, r *models.Role) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = now()

	return s.withDefault(ctx, r, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO roles (id, name, is_default, created_at)
			VALUES ($1, $2, $3, $4)
		`, r.ID, r.Name, r.Default, r.CreatedAt)
		return err
	}, "create role")
}

// Update saves the name and default flag of r.
func (s *RoleStore) Update(ctx context.Context, r *models.Role) error {
	return s.withDefault(ctx, r, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE roles SET name = $1, is_default = $2 WHERE id = $3
		`, r.Name, r.Default, r.ID)
		return err
	}, "update role")
}

// withDefault runs write inside a transaction, first clearing the default
// flag on other roles when r is to become the default.
func (s *RoleStore) withDefault(ctx context.Context, r *models.Role, write func(*sql.Tx) error, op string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	if r.Default {
		if err := clearDefault(ctx, tx, r.ID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := write(tx); err != nil {
		return writeErr(op, fmt.Sprintf("role %q", r.Name), err)
	}
	if err := tx.Commit(); err != nil {
		return writeErr(op, fmt.Sprintf("role %q", r.Name), err)
	}
	return nil
}

func clearDefault(ctx context.Context, db execer, except uuid.UUID) error {
	_, err := db.ExecContext(ctx, `UPDATE roles SET is_default = $1 WHERE id <> $2 AND is_default = $3`, false, except, true)
	if err != nil {
		return fmt.Errorf("clear default role: %w", err)
	}
	return nil
}

// Delete removes a role. Users holding it are left without a role.
func (s *RoleStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}
