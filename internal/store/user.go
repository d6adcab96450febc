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

// UserStore handles all user-related database operations. Users are loaded
// together with their role.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userSelect = `
	SELECT u.id, u.username, u.email, u.password_hash, u.role_id, u.totp_secret,
	       u.totp_enabled, u.created_at, u.updated_at,
	       r.id, r.name, r.is_default, r.created_at
	FROM users u
	LEFT JOIN roles r ON r.id = u.role_id`

func scanUser(row scanner) (*models.User, error) {
	var (
		u         models.User
		roleID    *uuid.UUID
		roleName  sql.NullString
		roleDef   sql.NullBool
		roleSince sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.RoleID, &u.TOTPSecret,
		&u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
		&roleID, &roleName, &roleDef, &roleSince,
	)
	if err != nil {
		return nil, err
	}
	if roleID != nil {
		u.Role = &models.Role{ID: *roleID, Name: roleName.String, Default: roleDef.Bool, CreatedAt: roleSince.Time}
	}
	return &u, nil
}

func (s *UserStore) findOne(ctx context.Context, op, where string, arg any) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, userSelect+` WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findOne(ctx, "find user by id", "u.id = $1", id)
}

// FindByUsername retrieves a user by username. Returns nil if not found.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, "find user by username", "u.username = $1", username)
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "find user by email", "u.email = $1", email)
}

// List returns all users ordered by creation date.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, userSelect+` ORDER BY u.created_at, u.username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Usernames returns every username ordered by creation date.
func (s *UserStore) Usernames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username FROM users ORDER BY created_at, username`)
	if err != nil {
		return nil, fmt.Errorf("list usernames: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan username: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Create inserts a user. PasswordHash must already be set.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, role_id, totp_secret, totp_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.RoleID, u.TOTPSecret, u.TOTPEnabled, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return writeErr("create user", "a user with this username or email", err)
	}
	return nil
}

// Update saves the username, email, password hash and role of u.
func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = now()
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET username = $1, email = $2, password_hash = $3, role_id = $4, updated_at = $5
		WHERE id = $6
	`, u.Username, u.Email, u.PasswordHash, u.RoleID, u.UpdatedAt, u.ID)
	if err != nil {
		return writeErr("update user", "a user with this username or email", err)
	}
	return nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(ctx context.Context, userID uuid.UUID, secret string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = $1, updated_at = $2 WHERE id = $3
	`, secret, now(), userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_enabled = $1, updated_at = $2 WHERE id = $3
	`, true, now(), userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// ResetTOTP clears the TOTP secret and disables 2FA for a user.
func (s *UserStore) ResetTOTP(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = NULL, totp_enabled = $1, updated_at = $2 WHERE id = $3
	`, false, now(), userID)
	if err != nil {
		return fmt.Errorf("reset totp: %w", err)
	}
	return nil
}

// Delete removes a user by ID. Their posts are removed with them.
func (s *UserStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
