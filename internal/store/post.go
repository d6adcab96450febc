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

// PostStore handles post persistence. Posts are loaded with their author's
// ID and username.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postSelect = `
	SELECT p.id, p.title, p.slug, p.body, p.author_id, p.moderator, p.image,
	       p.created_at, p.date_modified, u.username
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func scanPost(row scanner) (*models.Post, error) {
	var (
		p        models.Post
		username string
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.AuthorID, &p.Moderator, &p.Image,
		&p.CreatedAt, &p.DateModified, &username,
	)
	if err != nil {
		return nil, err
	}
	p.Author = &models.User{ID: p.AuthorID, Username: username}
	return &p, nil
}

func (s *PostStore) findOne(ctx context.Context, op, where string, arg any) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, postSelect+` WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// FindByID retrieves a post by UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.findOne(ctx, "find post by id", "p.id = $1", id)
}

// FindBySlug retrieves a post by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.findOne(ctx, "find post by slug", "p.slug = $1", slug)
}

// FindByTitle retrieves a post by title. Returns nil if not found.
func (s *PostStore) FindByTitle(ctx context.Context, title string) (*models.Post, error) {
	return s.findOne(ctx, "find post by title", "p.title = $1", title)
}

// List returns all posts, newest first.
func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	return s.list(ctx, "list posts", postSelect+` ORDER BY p.created_at DESC, p.title`)
}

// ListByAuthor returns the posts written by authorID, newest first.
func (s *PostStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	return s.list(ctx, "list posts by author", postSelect+` WHERE p.author_id = $1 ORDER BY p.created_at DESC, p.title`, authorID)
}

func (s *PostStore) list(ctx context.Context, op, query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// Create inserts a post. CreatedAt is set if the caller left it nil.
func (s *PostStore) Create(ctx context.Context, p *models.Post) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt == nil {
		t := now()
		p.CreatedAt = &t
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, title, slug, body, author_id, moderator, image, created_at, date_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.Title, p.Slug, p.Body, p.AuthorID, p.Moderator, p.Image, p.CreatedAt, p.DateModified)
	if err != nil {
		return writeErr("create post", "a post with this title", err)
	}
	return nil
}

// Update saves every editable column of p.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE posts SET title = $1, slug = $2, body = $3, moderator = $4, image = $5, date_modified = $6
		WHERE id = $7
	`, p.Title, p.Slug, p.Body, p.Moderator, p.Image, p.DateModified, p.ID)
	if err != nil {
		return writeErr("update post", "a post with this title", err)
	}
	return nil
}

// Delete removes a post by ID.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
