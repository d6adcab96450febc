// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"

	"folio/internal/apperr"
	"folio/internal/models"
)

// NameInput is the payload for permissions and tags.
type NameInput struct {
	Name string `json:"name" validate:"required,max=64"`
}

// CreatePermission adds a permission with a unique name.
func (s *Service) CreatePermission(ctx context.Context, in NameInput) (*models.Permission, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	existing, err := s.permissions.FindByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflictf("permission %q already exists", in.Name)
	}
	p := &models.Permission{Name: in.Name}
	if err := s.permissions.Create(ctx, p); err != nil {
		return nil, err
	}
	slog.Info("permission created", "name", p.Name)
	return p, nil
}

// ListPermissions returns every permission ordered by name.
func (s *Service) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	perms, err := s.permissions.List(ctx)
	if err != nil {
		return nil, err
	}
	if perms == nil {
		perms = []models.Permission{}
	}
	return perms, nil
}

// DeletePermission removes the permission with the given name.
func (s *Service) DeletePermission(ctx context.Context, name string) error {
	p, err := s.permissions.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.NotFoundf("permission %q not found", name)
	}
	return s.permissions.Delete(ctx, p.ID)
}

// CreateTag adds a tag with a unique name.
func (s *Service) CreateTag(ctx context.Context, in NameInput) (*models.Tag, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	existing, err := s.tags.FindByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflictf("tag %q already exists", in.Name)
	}
	t := &models.Tag{Name: in.Name}
	if err := s.tags.Create(ctx, t); err != nil {
		return nil, err
	}
	slog.Info("tag created", "name", t.Name)
	return t, nil
}

// ListTags returns every tag ordered by name.
func (s *Service) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return tags, nil
}

// DeleteTag removes the tag with the given name.
func (s *Service) DeleteTag(ctx context.Context, name string) error {
	t, err := s.tags.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if t == nil {
		return apperr.NotFoundf("tag %q not found", name)
	}
	return s.tags.Delete(ctx, t.ID)
}
