// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service implements Folio's use cases on top of the stores. Every
// create and edit follows the same protocol: validate the input, check each
// unique field against every record except the one being edited, derive
// computed fields, persist, and return the saved record. A unique-constraint
// failure at commit time surfaces as the same Conflict error as a failed
// pre-check.
package service

import (
	"context"
	"database/sql"
	"io"
	"time"

	"folio/internal/cache"
	"folio/internal/search"
	"folio/internal/store"
	"folio/internal/validation"
)

// ImageStore uploads post images and returns their public URL.
type ImageStore interface {
	UploadImage(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	DeleteImage(ctx context.Context, url string) error
}

// Options carries the optional collaborators. Any of them may be nil.
type Options struct {
	Index  *search.PostIndex
	Nav    *cache.NavCache
	Pages  *cache.PageCache
	Images ImageStore
}

// Service is the application layer shared by the JSON API, the auth pages
// and the CLI.
type Service struct {
	users       *store.UserStore
	roles       *store.RoleStore
	posts       *store.PostStore
	categories  *store.CategoryStore
	permissions *store.PermissionStore
	tags        *store.TagStore

	validate *validation.Validator
	index    *search.PostIndex
	nav      *cache.NavCache
	pages    *cache.PageCache
	images   ImageStore
}

// New wires a Service over db.
func New(db *sql.DB, opts Options) *Service {
	return &Service{
		users:       store.NewUserStore(db),
		roles:       store.NewRoleStore(db),
		posts:       store.NewPostStore(db),
		categories:  store.NewCategoryStore(db),
		permissions: store.NewPermissionStore(db),
		tags:        store.NewTagStore(db),
		validate:    validation.New(),
		index:       opts.Index,
		nav:         opts.Nav,
		pages:       opts.Pages,
		images:      opts.Images,
	}
}

// now matches the precision the stores persist.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
