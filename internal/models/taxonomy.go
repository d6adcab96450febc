// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// Permission is a named capability.
type Permission struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Tag is a free-form label.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
