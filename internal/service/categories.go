// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/hierarchy"
	"folio/internal/models"
	"folio/internal/projection"
	"folio/internal/store"
)

// CategoryInput is the payload for creating or editing a category. A nil
// Priority means DefaultPriority on create and "unchanged" on edit.
type CategoryInput struct {
	DisplayName       string `json:"display_name" validate:"required,max=128"`
	Priority          *int   `json:"priority"`
	CustomTemplate    bool   `json:"custom_template"`
	CustomTemplateURL string `json:"custom_template_url" validate:"max=2048"`
}

// CreateCategory adds a category with a unique display name.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	if err := s.checkCategoryUnique(ctx, uuid.Nil, in.DisplayName); err != nil {
		return nil, err
	}

	c := &models.Category{
		Priority:          models.DefaultPriority,
		DisplayName:       in.DisplayName,
		CustomTemplate:    in.CustomTemplate,
		CustomTemplateURL: in.CustomTemplateURL,
		Children:          []*models.Category{},
		Parents:           []*models.Category{},
	}
	if in.Priority != nil {
		c.Priority = *in.Priority
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	s.nav.Invalidate(ctx)
	slog.Info("category created", "display_name", c.DisplayName, "priority", c.Priority)
	return c, nil
}

// EditCategory updates the category with the given id.
func (s *Service) EditCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFoundf("category %s not found", id)
	}
	if err := s.checkCategoryUnique(ctx, c.ID, in.DisplayName); err != nil {
		return nil, err
	}

	c.DisplayName = in.DisplayName
	c.CustomTemplate = in.CustomTemplate
	c.CustomTemplateURL = in.CustomTemplateURL
	if in.Priority != nil {
		c.Priority = *in.Priority
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	s.nav.Invalidate(ctx)
	slog.Info("category updated", "id", c.ID, "display_name", c.DisplayName)
	return s.GetCategory(ctx, c.ID)
}

// DeleteCategory removes a category and every edge that touches it.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.NotFoundf("category %s not found", id)
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.nav.Invalidate(ctx)
	slog.Info("category deleted", "display_name", c.DisplayName)
	return nil
}

// CategoryByName returns the category with the given display name.
func (s *Service) CategoryByName(ctx context.Context, name string) (*models.Category, error) {
	c, err := s.categories.FindByDisplayName(ctx, name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFoundf("category %q not found", name)
	}
	return s.GetCategory(ctx, c.ID)
}

// GetCategory returns a category with its children and parents linked.
func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	g, err := s.graph(ctx)
	if err != nil {
		return nil, err
	}
	c, ok := g.Get(id)
	if !ok {
		return nil, apperr.NotFoundf("category %s not found", id)
	}
	return c, nil
}

// AddChild records parent→child and returns the linked parent. Adding an
// existing edge is a no-op. Self-edges and edges that would create a cycle
// are rejected with a Validation error. The check and the insert share one
// serializable transaction, so concurrent calls cannot close a cycle.
func (s *Service) AddChild(ctx context.Context, parent, child uuid.UUID) (*models.Category, error) {
	var (
		linked *models.Category
		added  bool
	)
	err := s.categories.UpdateTree(ctx, func(t *store.Tree) error {
		g, err := treeGraph(ctx, t)
		if err != nil {
			return err
		}
		if added, err = g.AddChild(parent, child); err != nil {
			return err
		}
		if added {
			if err := t.AddEdge(ctx, parent, child); err != nil {
				return err
			}
		}
		g.Link()
		linked, _ = g.Get(parent)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if added {
		s.nav.Invalidate(ctx)
		slog.Info("category edge added", "parent", parent, "child", child)
	}
	return linked, nil
}

// RemoveChild deletes parent→child and returns the linked parent. Removing
// a missing edge is a no-op.
func (s *Service) RemoveChild(ctx context.Context, parent, child uuid.UUID) (*models.Category, error) {
	var (
		linked  *models.Category
		removed bool
	)
	err := s.categories.UpdateTree(ctx, func(t *store.Tree) error {
		g, err := treeGraph(ctx, t)
		if err != nil {
			return err
		}
		if removed, err = g.RemoveChild(parent, child); err != nil {
			return err
		}
		if removed {
			if err := t.RemoveEdge(ctx, parent, child); err != nil {
				return err
			}
		}
		g.Link()
		linked, _ = g.Get(parent)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if removed {
		s.nav.Invalidate(ctx)
		slog.Info("category edge removed", "parent", parent, "child", child)
	}
	return linked, nil
}

// ChildrenOf returns the children of id in edge insertion order.
func (s *Service) ChildrenOf(ctx context.Context, id uuid.UUID) ([]*models.Category, error) {
	g, err := s.graph(ctx)
	if err != nil {
		return nil, err
	}
	return g.ChildrenOf(id)
}

// ParentsOf returns the parents of id in edge insertion order.
func (s *Service) ParentsOf(ctx context.Context, id uuid.UUID) ([]*models.Category, error) {
	g, err := s.graph(ctx)
	if err != nil {
		return nil, err
	}
	return g.ParentsOf(id)
}

// RootCategories returns the categories that have no parent.
func (s *Service) RootCategories(ctx context.Context) ([]*models.Category, error) {
	g, err := s.graph(ctx)
	if err != nil {
		return nil, err
	}
	return g.Roots(), nil
}

// ListCategories returns every category in creation order, or ascending by
// priority when byPriority is set.
func (s *Service) ListCategories(ctx context.Context, byPriority bool) ([]*models.Category, error) {
	g, err := s.graph(ctx)
	if err != nil {
		return nil, err
	}
	return g.List(byPriority), nil
}

// Navbar returns the JSON encoding of every category sorted by priority,
// served from the nav cache when possible.
func (s *Service) Navbar(ctx context.Context) ([]byte, error) {
	if body, ok := s.nav.Get(ctx); ok {
		return body, nil
	}
	cats, err := s.ListCategories(ctx, true)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(projection.Categories(cats))
	if err != nil {
		return nil, fmt.Errorf("encode navbar: %w", err)
	}
	s.nav.Set(ctx, body)
	return body, nil
}

// graph loads every category and edge into a linked hierarchy graph.
func (s *Service) graph(ctx context.Context) (*hierarchy.Graph, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := s.categories.Edges(ctx)
	if err != nil {
		return nil, err
	}
	g := hierarchy.Build(cats, edges)
	g.Link()
	return g, nil
}

// treeGraph builds the hierarchy from inside a tree transaction.
func treeGraph(ctx context.Context, t *store.Tree) (*hierarchy.Graph, error) {
	cats, err := t.Categories(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := t.Edges(ctx)
	if err != nil {
		return nil, err
	}
	return hierarchy.Build(cats, edges), nil
}

func (s *Service) checkCategoryUnique(ctx context.Context, self uuid.UUID, name string) error {
	other, err := s.categories.FindByDisplayName(ctx, name)
	if err != nil {
		return err
	}
	if other != nil && other.ID != self {
		return apperr.Conflictf("category %q already exists", name)
	}
	return nil
}
