// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/auth"
	"folio/internal/models"
)

// RegisterInput is the payload for creating a user. Role is optional; when
// empty the default role is assigned.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=64,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role" validate:"omitempty,max=64"`
}

// EditUserInput changes any subset of a user's fields. A Role of "" removes
// the user's role.
type EditUserInput struct {
	Username *string `json:"username" validate:"omitempty,max=64,username"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=1,max=72"`
	Role     *string `json:"role" validate:"omitempty,max=64"`
}

// RegisterUser creates a user. Username and email must both be unused.
func (s *Service) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	if err := s.checkUserUnique(ctx, uuid.Nil, in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{Username: in.Username, Email: in.Email, PasswordHash: hash}

	if in.Role != "" {
		role, err := s.roleByName(ctx, in.Role)
		if err != nil {
			return nil, err
		}
		u.RoleID, u.Role = &role.ID, role
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
	} else if err := s.createUserWithDefaultRole(ctx, u); err != nil {
		return nil, err
	}

	slog.Info("user registered", "username", u.Username, "role", u.RoleName())
	u.Posts = []models.Post{}
	return u, nil
}

// createUserWithDefaultRole looks up the default role, attaches it to u when
// one exists, and inserts u.
func (s *Service) createUserWithDefaultRole(ctx context.Context, u *models.User) error {
	role, err := s.roles.FindDefault(ctx)
	if err != nil {
		return err
	}
	if role != nil {
		u.RoleID, u.Role = &role.ID, role
	}
	return s.users.Create(ctx, u)
}

// checkUserUnique fails with Conflict when another user already holds
// username or email. self is excluded so edits can keep their own values.
func (s *Service) checkUserUnique(ctx context.Context, self uuid.UUID, username, email string) error {
	if username != "" {
		other, err := s.users.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if other != nil && other.ID != self {
			return apperr.Conflictf("username %q is already taken", username)
		}
	}
	if email != "" {
		other, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if other != nil && other.ID != self {
			return apperr.Conflictf("email %q is already registered", email)
		}
	}
	return nil
}

// EditUser applies in to the user named username.
func (s *Service) EditUser(ctx context.Context, username string, in EditUserInput) (*models.User, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	u, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	var newName, newEmail string
	if in.Username != nil {
		newName = *in.Username
	}
	if in.Email != nil {
		newEmail = *in.Email
	}
	if err := s.checkUserUnique(ctx, u.ID, newName, newEmail); err != nil {
		return nil, err
	}

	if newName != "" {
		u.Username = newName
	}
	if newEmail != "" {
		u.Email = newEmail
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if in.Role != nil {
		if *in.Role == "" {
			u.RoleID, u.Role = nil, nil
		} else {
			role, err := s.roleByName(ctx, *in.Role)
			if err != nil {
				return nil, err
			}
			u.RoleID, u.Role = &role.ID, role
		}
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	slog.Info("user updated", "id", u.ID, "username", u.Username)
	return s.withPosts(ctx, u)
}

// DeleteUser removes a user and their posts. Admin users cannot be deleted.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	u, err := s.userByUsername(ctx, username)
	if err != nil {
		return err
	}
	if u.IsAdmin() {
		return apperr.Forbidden("admin users cannot be deleted")
	}

	posts, err := s.posts.ListByAuthor(ctx, u.ID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		return err
	}
	for i := range posts {
		s.forgetPost(ctx, &posts[i])
	}
	slog.Info("user deleted", "username", u.Username, "posts", len(posts))
	return nil
}

// GetUser returns the user named username with their posts.
func (s *Service) GetUser(ctx context.Context, username string) (*models.User, error) {
	u, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.withPosts(ctx, u)
}

// UserByID returns the user with the given id, without posts.
func (s *Service) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFoundf("user %s not found", id)
	}
	return u, nil
}

// ListUsers returns every user with their posts.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	byAuthor := make(map[uuid.UUID][]models.Post)
	for _, p := range posts {
		byAuthor[p.AuthorID] = append(byAuthor[p.AuthorID], p)
	}
	for i := range users {
		users[i].Posts = byAuthor[users[i].ID]
		if users[i].Posts == nil {
			users[i].Posts = []models.Post{}
		}
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Usernames returns every username.
func (s *Service) Usernames(ctx context.Context) ([]string, error) {
	return s.users.Usernames(ctx)
}

// Authenticate checks an email and password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	return u, nil
}

// BeginTOTP generates and stores a new TOTP secret for the user. 2FA stays
// disabled until ConfirmTOTP succeeds.
func (s *Service) BeginTOTP(ctx context.Context, userID uuid.UUID) (*auth.TOTPEnrollment, error) {
	u, err := s.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.TOTPSecret != nil && !u.TOTPEnabled {
		return auth.TOTPFromSecret(u.Email, *u.TOTPSecret)
	}
	enrollment, err := auth.NewTOTP(u.Email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetTOTPSecret(ctx, u.ID, enrollment.Secret); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// ConfirmTOTP enables 2FA once the user proves they hold the secret.
func (s *Service) ConfirmTOTP(ctx context.Context, userID uuid.UUID, code string) error {
	if err := s.VerifyTOTP(ctx, userID, code); err != nil {
		return err
	}
	if err := s.users.EnableTOTP(ctx, userID); err != nil {
		return err
	}
	slog.Info("2fa enabled", "user_id", userID)
	return nil
}

// VerifyTOTP checks code against the user's stored secret.
func (s *Service) VerifyTOTP(ctx context.Context, userID uuid.UUID, code string) error {
	u, err := s.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.TOTPSecret == nil {
		return apperr.Validation("two-factor authentication is not set up")
	}
	if !auth.ValidateTOTP(code, *u.TOTPSecret) {
		return apperr.Unauthorized("invalid two-factor code")
	}
	return nil
}

// ResetTOTP disables 2FA for the user.
func (s *Service) ResetTOTP(ctx context.Context, userID uuid.UUID) error {
	return s.users.ResetTOTP(ctx, userID)
}

func (s *Service) userByUsername(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, apperr.MissingArgument("username")
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFoundf("user %q not found", username)
	}
	return u, nil
}

func (s *Service) withPosts(ctx context.Context, u *models.User) (*models.User, error) {
	posts, err := s.posts.ListByAuthor(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load posts of %s: %w", u.Username, err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	u.Posts = posts
	return u, nil
}
