// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/models"
)

// RoleInput is the payload for creating or editing a role. Setting Default
// clears the flag on every other role.
type RoleInput struct {
	Name    string `json:"name" validate:"required,max=64"`
	Default bool   `json:"default"`
}

// CreateRole adds a role with a unique name.
func (s *Service) CreateRole(ctx context.Context, in RoleInput) (*models.Role, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	if err := s.checkRoleUnique(ctx, uuid.Nil, in.Name); err != nil {
		return nil, err
	}

	r := &models.Role{Name: in.Name, Default: in.Default}
	if err := s.roles.Create(ctx, r); err != nil {
		return nil, err
	}
	slog.Info("role created", "name", r.Name, "default", r.Default)
	return r, nil
}

// EditRole renames a role or changes its default flag. The admin role keeps
// its name so the delete guard cannot be sidestepped.
func (s *Service) EditRole(ctx context.Context, name string, in RoleInput) (*models.Role, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	r, err := s.roleByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if r.Name == models.RoleAdmin && in.Name != models.RoleAdmin {
		return nil, apperr.Forbidden("the admin role cannot be renamed")
	}
	if err := s.checkRoleUnique(ctx, r.ID, in.Name); err != nil {
		return nil, err
	}

	r.Name, r.Default = in.Name, in.Default
	if err := s.roles.Update(ctx, r); err != nil {
		return nil, err
	}
	slog.Info("role updated", "id", r.ID, "name", r.Name)
	return r, nil
}

// DeleteRole removes a role. Users holding it are left without a role. The
// admin role cannot be deleted.
func (s *Service) DeleteRole(ctx context.Context, name string) error {
	if name == models.RoleAdmin {
		return apperr.Forbidden("the admin role cannot be deleted")
	}
	r, err := s.roleByName(ctx, name)
	if err != nil {
		return err
	}
	if err := s.roles.Delete(ctx, r.ID); err != nil {
		return err
	}
	slog.Info("role deleted", "name", r.Name)
	return nil
}

// GetRole returns the role with the given name.
func (s *Service) GetRole(ctx context.Context, name string) (*models.Role, error) {
	return s.roleByName(ctx, name)
}

// ListRoles returns every role in creation order.
func (s *Service) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []models.Role{}
	}
	return roles, nil
}

func (s *Service) checkRoleUnique(ctx context.Context, self uuid.UUID, name string) error {
	other, err := s.roles.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if other != nil && other.ID != self {
		return apperr.Conflictf("role %q already exists", name)
	}
	return nil
}

func (s *Service) roleByName(ctx context.Context, name string) (*models.Role, error) {
	if name == "" {
		return nil, apperr.MissingArgument("role")
	}
	r, err := s.roles.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFoundf("role %q not found", name)
	}
	return r, nil
}
