// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPriority is assigned to categories created without a priority.
// Lower values sort first in the navbar.
const DefaultPriority = 100

// Category is a node in the category graph. A category may have any number
// of parents and children; the edges live in the category_tree table.
type Category struct {
	ID                uuid.UUID `json:"id"`
	Priority          int       `json:"priority"`
	DisplayName       string    `json:"display_name"`
	CustomTemplate    bool      `json:"custom_template"`
	CustomTemplateURL string    `json:"custom_template_url"`
	CreatedAt         time.Time `json:"created_at"`

	// Virtual fields populated by the hierarchy graph.
	Children []*Category `json:"-"`
	Parents  []*Category `json:"-"`
}

// CategoryEdge is one parent→child row of category_tree.
type CategoryEdge struct {
	ParentID uuid.UUID
	ChildID  uuid.UUID
}
