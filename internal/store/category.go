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

// CategoryStore manages categories and the category_tree edge table.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, priority, display_name, custom_template, custom_template_url, created_at`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Priority, &c.DisplayName, &c.CustomTemplate, &c.CustomTemplateURL, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryStore) findOne(ctx context.Context, op, where string, arg any) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// FindByID retrieves a category by UUID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.findOne(ctx, "find category by id", "id = $1", id)
}

// FindByDisplayName retrieves a category by display name. Returns nil if not found.
func (s *CategoryStore) FindByDisplayName(ctx context.Context, name string) (*models.Category, error) {
	return s.findOne(ctx, "find category by display name", "display_name = $1", name)
}

// List returns all categories in creation order.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	return listCategories(ctx, s.db)
}

func listCategories(ctx context.Context, q querier) ([]models.Category, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Edges returns every parent→child edge in insertion order.
func (s *CategoryStore) Edges(ctx context.Context) ([]models.CategoryEdge, error) {
	return listEdges(ctx, s.db)
}

func listEdges(ctx context.Context, q querier) ([]models.CategoryEdge, error) {
	rows, err := q.QueryContext(ctx, `SELECT parent_id, children_id FROM category_tree ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list category edges: %w", err)
	}
	defer rows.Close()

	var edges []models.CategoryEdge
	for rows.Next() {
		var e models.CategoryEdge
		if err := rows.Scan(&e.ParentID, &e.ChildID); err != nil {
			return nil, fmt.Errorf("scan category edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Create inserts a category.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, priority, display_name, custom_template, custom_template_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Priority, c.DisplayName, c.CustomTemplate, c.CustomTemplateURL, c.CreatedAt)
	if err != nil {
		return writeErr("create category", fmt.Sprintf("category %q", c.DisplayName), err)
	}
	return nil
}

// Update saves every editable column of c.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE categories SET priority = $1, display_name = $2, custom_template = $3, custom_template_url = $4
		WHERE id = $5
	`, c.Priority, c.DisplayName, c.CustomTemplate, c.CustomTemplateURL, c.ID)
	if err != nil {
		return writeErr("update category", fmt.Sprintf("category %q", c.DisplayName), err)
	}
	return nil
}

// Delete removes a category and, through the foreign keys, its edges.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func addEdge(ctx context.Context, e execer, parent, child uuid.UUID) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO category_tree (parent_id, children_id) VALUES ($1, $2)
		ON CONFLICT (parent_id, children_id) DO NOTHING
	`, parent, child)
	if err != nil {
		return fmt.Errorf("add category edge: %w", err)
	}
	return nil
}

func removeEdge(ctx context.Context, e execer, parent, child uuid.UUID) error {
	_, err := e.ExecContext(ctx, `
		DELETE FROM category_tree WHERE parent_id = $1 AND children_id = $2
	`, parent, child)
	if err != nil {
		return fmt.Errorf("remove category edge: %w", err)
	}
	return nil
}

// maxTreeAttempts bounds UpdateTree retries after serialization failures.
const maxTreeAttempts = 5

// Tree is a transaction-scoped view of the category hierarchy. It is only
// valid inside the function passed to UpdateTree.
type Tree struct {
	tx *sql.Tx
}

// Categories returns every category in creation order.
func (t *Tree) Categories(ctx context.Context) ([]models.Category, error) {
	return listCategories(ctx, t.tx)
}

// Edges returns every parent→child edge in insertion order.
func (t *Tree) Edges(ctx context.Context) ([]models.CategoryEdge, error) {
	return listEdges(ctx, t.tx)
}

// AddEdge inserts parent→child. Existing edges are left alone.
func (t *Tree) AddEdge(ctx context.Context, parent, child uuid.UUID) error {
	return addEdge(ctx, t.tx, parent, child)
}

// RemoveEdge deletes parent→child if present.
func (t *Tree) RemoveEdge(ctx context.Context, parent, child uuid.UUID) error {
	return removeEdge(ctx, t.tx, parent, child)
}

// UpdateTree runs fn in a serializable transaction so a check made on the
// hierarchy still holds when fn's writes commit. fn runs again, up to
// maxTreeAttempts times, when PostgreSQL aborts the transaction with a
// serialization failure; it must not touch the database outside t.
func (s *CategoryStore) UpdateTree(ctx context.Context, fn func(t *Tree) error) error {
	var err error
	for attempt := 1; attempt <= maxTreeAttempts; attempt++ {
		err = s.updateTree(ctx, fn)
		if !isSerializationFailure(err) {
			return err
		}
	}
	return fmt.Errorf("update category tree: %w", err)
}

func (s *CategoryStore) updateTree(ctx context.Context, fn func(t *Tree) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin tree transaction: %w", err)
	}
	if err := fn(&Tree{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tree transaction: %w", err)
	}
	return nil
}
