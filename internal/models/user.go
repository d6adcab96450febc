// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Well-known role names seeded on first start.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// Role is a named group of users. At most one role carries Default, and new
// users without an explicit role receive it.
type Role struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Default   bool      `json:"default"`
	CreatedAt time.Time `json:"created_at"`
}

// User is an account that can author posts and authenticate against the API.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize the hash
	RoleID       *uuid.UUID `json:"role_id"`
	TOTPSecret   *string    `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool       `json:"totp_enabled"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Virtual fields populated by store and service methods.
	Role  *Role  `json:"-"`
	Posts []Post `json:"-"`
}

// RoleName returns the name of the user's role, or "" when it has none.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.RoleName() == RoleAdmin
}

// HasTwoFactor returns true once the user has confirmed a TOTP secret.
func (u *User) HasTwoFactor() bool {
	return u.TOTPEnabled && u.TOTPSecret != nil
}
