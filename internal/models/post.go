// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry. Slug is always derived from Title.
type Post struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Body         string     `json:"body"`
	AuthorID     uuid.UUID  `json:"author_id"`
	Moderator    *string    `json:"moderator"`
	Image        *string    `json:"image"`
	CreatedAt    *time.Time `json:"timestamp"`
	DateModified *time.Time `json:"date_modified"`

	// Virtual field populated by store methods (ID and Username only).
	Author *User `json:"-"`
}

// AuthorName returns the author's username if the author was loaded.
func (p *Post) AuthorName() (string, bool) {
	if p.Author == nil {
		return "", false
	}
	return p.Author.Username, true
}
