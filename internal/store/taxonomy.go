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

// PermissionStore handles permission persistence.
type PermissionStore struct {
	db *sql.DB
}

// NewPermissionStore creates a new PermissionStore.
func NewPermissionStore(db *sql.DB) *PermissionStore {
	return &PermissionStore{db: db}
}

// FindByName retrieves a permission by name. Returns nil if not found.
func (s *PermissionStore) FindByName(ctx context.Context, name string) (*models.Permission, error) {
	var p models.Permission
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM permissions WHERE name = $1`, name).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return &p, nil
}

// List returns all permissions ordered by name.
func (s *PermissionStore) List(ctx context.Context) ([]models.Permission, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM permissions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	var items []models.Permission
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// Create inserts a permission.
func (s *PermissionStore) Create(ctx context.Context, p *models.Permission) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO permissions (id, name) VALUES ($1, $2)`, p.ID, p.Name); err != nil {
		return writeErr("create permission", fmt.Sprintf("permission %q", p.Name), err)
	}
	return nil
}

// Delete removes a permission by ID.
func (s *PermissionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM permissions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	return nil
}

// TagStore handles tag persistence.
type TagStore struct {
	db *sql.DB
}

// NewTagStore creates a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// FindByName retrieves a tag by name. Returns nil if not found.
func (s *TagStore) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM tags WHERE name = $1`, name).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag: %w", err)
	}
	return &t, nil
}

// List returns all tags ordered by name.
func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// Create inserts a tag.
func (s *TagStore) Create(ctx context.Context, t *models.Tag) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO tags (id, name) VALUES ($1, $2)`, t.ID, t.Name); err != nil {
		return writeErr("create tag", fmt.Sprintf("tag %q", t.Name), err)
	}
	return nil
}

// Delete removes a tag by ID.
func (s *TagStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
