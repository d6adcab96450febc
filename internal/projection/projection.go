// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package projection turns records into the flat JSON shapes the API
// returns. Projections never include secrets, never recurse through the
// category graph, and are pure: the same record always yields the same view.
package projection

import (
	"time"

	"folio/internal/models"
)

// TimeFormat is the layout used for timestamps in projections.
const TimeFormat = time.RFC3339

// User is the public view of a user. Role holds a Role view, or "" when the
// user has no role. Categories is always "".
type User struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       any    `json:"role"`
	Posts      []Post `json:"posts"`
	Categories string `json:"categories"`
}

// Role is the public view of a role.
type Role struct {
	Name       string `json:"name"`
	Categories string `json:"categories"`
}

// Post is the public view of a post. Every nullable field except Author is
// rendered as "" when unset; Author is null when the author was not loaded.
type Post struct {
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	Body         string  `json:"body"`
	Timestamp    string  `json:"timestamp"`
	Image        string  `json:"image"`
	Author       *string `json:"author"`
	DateModified string  `json:"date_modified"`
	Moderator    string  `json:"moderator"`
}

// Category is the public view of a category. Children and Parents are
// display names only, never nil.
type Category struct {
	Priority          int      `json:"priority"`
	DisplayName       string   `json:"display_name"`
	CustomTemplate    bool     `json:"custom_template"`
	CustomTemplateURL string   `json:"custom_template_url"`
	Children          []string `json:"children"`
	Parents           []string `json:"parents"`
}

// Named is the public view of permissions and tags.
type Named struct {
	Name string `json:"name"`
}

// FromUser projects a user. Posts without a loaded author are attributed
// to u.
func FromUser(u *models.User) User {
	v := User{
		Username: u.Username,
		Email:    u.Email,
		Role:     "",
		Posts:    make([]Post, 0, len(u.Posts)),
	}
	if u.Role != nil {
		v.Role = FromRole(u.Role)
	}
	for i := range u.Posts {
		p := u.Posts[i]
		if p.Author == nil {
			p.Author = u
		}
		v.Posts = append(v.Posts, FromPost(&p))
	}
	return v
}

// FromRole projects a role.
func FromRole(r *models.Role) Role {
	return Role{Name: r.Name}
}

// FromPost projects a post.
func FromPost(p *models.Post) Post {
	v := Post{
		Title:        p.Title,
		Slug:         p.Slug,
		Body:         p.Body,
		Timestamp:    formatTime(p.CreatedAt),
		Image:        deref(p.Image),
		DateModified: formatTime(p.DateModified),
		Moderator:    deref(p.Moderator),
	}
	if name, ok := p.AuthorName(); ok {
		v.Author = &name
	}
	return v
}

// FromCategory projects a category using its linked Children and Parents.
func FromCategory(c *models.Category) Category {
	return Category{
		Priority:          c.Priority,
		DisplayName:       c.DisplayName,
		CustomTemplate:    c.CustomTemplate,
		CustomTemplateURL: c.CustomTemplateURL,
		Children:          displayNames(c.Children),
		Parents:           displayNames(c.Parents),
	}
}

// FromPermission projects a permission.
func FromPermission(p *models.Permission) Named {
	return Named{Name: p.Name}
}

// FromTag projects a tag.
func FromTag(t *models.Tag) Named {
	return Named{Name: t.Name}
}

// List projects every element of items. The result is never nil, so empty
// lists encode as [].
func List[T, V any](items []T, project func(*T) V) []V {
	out := make([]V, 0, len(items))
	for i := range items {
		out = append(out, project(&items[i]))
	}
	return out
}

// Categories projects a slice of category pointers as returned by the
// hierarchy graph.
func Categories(cs []*models.Category) []Category {
	out := make([]Category, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromCategory(c))
	}
	return out
}

func displayNames(cs []*models.Category) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.DisplayName)
	}
	return out
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(TimeFormat)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
