// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/models"
	"folio/internal/slug"
)

// PostInput is the payload for creating or editing a post. The slug is
// always derived from Title.
type PostInput struct {
	Title string  `json:"title" validate:"required,max=255"`
	Body  string  `json:"body" validate:"required"`
	Image *string `json:"image" validate:"omitempty,max=2048"`
}

// CreatePost publishes a post by author. Title and the derived slug must
// both be unused.
func (s *Service) CreatePost(ctx context.Context, author *models.User, in PostInput) (*models.Post, error) {
	if author == nil {
		return nil, apperr.Unauthorized("authentication required")
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	postSlug, err := deriveSlug(in.Title)
	if err != nil {
		return nil, err
	}
	if err := s.checkPostUnique(ctx, uuid.Nil, in.Title, postSlug); err != nil {
		return nil, err
	}

	p := &models.Post{
		Title:    in.Title,
		Slug:     postSlug,
		Body:     in.Body,
		AuthorID: author.ID,
		Image:    in.Image,
		Author:   &models.User{ID: author.ID, Username: author.Username},
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	s.indexPost(p)
	slog.Info("post created", "slug", p.Slug, "author", author.Username)
	return p, nil
}

// EditPost rewrites the post at postSlug. The editor is recorded as the
// moderator and the modification time is set to now. Image is left
// unchanged when in.Image is nil.
func (s *Service) EditPost(ctx context.Context, editor *models.User, postSlug string, in PostInput) (*models.Post, error) {
	if editor == nil {
		return nil, apperr.Unauthorized("authentication required")
	}
	p, err := s.GetPost(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	newSlug, err := deriveSlug(in.Title)
	if err != nil {
		return nil, err
	}
	if err := s.checkPostUnique(ctx, p.ID, in.Title, newSlug); err != nil {
		return nil, err
	}

	modified := now()
	moderator := editor.Username
	p.Title, p.Slug, p.Body = in.Title, newSlug, in.Body
	p.Moderator = &moderator
	p.DateModified = &modified
	if in.Image != nil {
		p.Image = in.Image
	}

	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	s.pages.InvalidatePost(ctx, postSlug)
	s.indexPost(p)
	slog.Info("post updated", "slug", p.Slug, "moderator", moderator)
	return p, nil
}

// DeletePost removes the post at postSlug.
func (s *Service) DeletePost(ctx context.Context, postSlug string) error {
	p, err := s.GetPost(ctx, postSlug)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, p.ID); err != nil {
		return err
	}
	s.forgetPost(ctx, p)
	slog.Info("post deleted", "slug", p.Slug)
	return nil
}

// GetPost returns the post with the given slug.
func (s *Service) GetPost(ctx context.Context, postSlug string) (*models.Post, error) {
	if postSlug == "" {
		return nil, apperr.MissingArgument("slug")
	}
	p, err := s.posts.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("post %q not found", postSlug)
	}
	return p, nil
}

// ListPosts returns every post, newest first.
func (s *Service) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// SearchPosts runs a full-text query and returns the matching posts in
// relevance order. Without a search index it returns no posts.
func (s *Service) SearchPosts(ctx context.Context, q string, limit int) ([]models.Post, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperr.MissingArgument("q")
	}
	hits, err := s.index.Search(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}

	posts := make([]models.Post, 0, len(hits))
	for _, h := range hits {
		id, err := uuid.Parse(h.ID)
		if err != nil {
			continue
		}
		p, err := s.posts.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			// Stale index entry.
			continue
		}
		posts = append(posts, *p)
	}
	return posts, nil
}

// ReindexPosts rebuilds the search index from the database.
func (s *Service) ReindexPosts(ctx context.Context) (int, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.index.IndexPosts(posts); err != nil {
		return 0, err
	}
	return len(posts), nil
}

// SetPostImage uploads an image and attaches its URL to the post. The editor
// is recorded as moderator like any other edit.
func (s *Service) SetPostImage(ctx context.Context, editor *models.User, postSlug, filename, contentType string, body io.Reader, size int64) (*models.Post, error) {
	if s.images == nil {
		return nil, apperr.Validation("image storage is not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperr.Validation("file must be an image")
	}
	p, err := s.GetPost(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("posts/%s/%s%s", p.ID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := s.images.UploadImage(ctx, key, contentType, body, size)
	if err != nil {
		return nil, fmt.Errorf("upload post image: %w", err)
	}

	previous := p.Image
	modified := now()
	moderator := editor.Username
	p.Image = &url
	p.Moderator = &moderator
	p.DateModified = &modified
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	s.pages.InvalidatePost(ctx, p.Slug)
	if previous != nil && *previous != "" {
		if err := s.images.DeleteImage(ctx, *previous); err != nil {
			slog.Warn("failed to delete replaced post image", "url", *previous, "error", err)
		}
	}
	slog.Info("post image set", "slug", p.Slug, "key", key)
	return p, nil
}

func deriveSlug(title string) (string, error) {
	postSlug := slug.Generate(title)
	if postSlug == "" {
		return "", apperr.Validation("title must contain at least one letter or digit")
	}
	return postSlug, nil
}

func (s *Service) checkPostUnique(ctx context.Context, self uuid.UUID, title, postSlug string) error {
	other, err := s.posts.FindByTitle(ctx, title)
	if err != nil {
		return err
	}
	if other != nil && other.ID != self {
		return apperr.Conflictf("a post titled %q already exists", title)
	}
	other, err = s.posts.FindBySlug(ctx, postSlug)
	if err != nil {
		return err
	}
	if other != nil && other.ID != self {
		return apperr.Conflictf("a post with slug %q already exists", postSlug)
	}
	return nil
}

// indexPost updates the search index. Failures are only logged.
func (s *Service) indexPost(p *models.Post) {
	if err := s.index.IndexPost(p); err != nil {
		slog.Warn("failed to index post", "slug", p.Slug, "error", err)
	}
}

func (s *Service) forgetPost(ctx context.Context, p *models.Post) {
	if err := s.index.DeletePost(p.ID.String()); err != nil {
		slog.Warn("failed to remove post from index", "slug", p.Slug, "error", err)
	}
	s.pages.InvalidatePost(ctx, p.Slug)
}
