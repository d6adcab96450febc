// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"folio/internal/models"
	"folio/internal/projection"
	"folio/internal/response"
	"folio/internal/service"
)

// Navbar lists every category ascending by priority. The encoded list is
// served from the navigation cache when warm.
func (a *API) Navbar(w http.ResponseWriter, r *http.Request) {
	body, err := a.svc.Navbar(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Raw(w, http.StatusOK, body)
}

// GetCategory returns one category with its children and parents.
func (a *API) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := a.categoryParam(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.FromCategory(c))
}

// CreateCategory adds a category.
func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}

	c, err := a.svc.CreateCategory(r.Context(), in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, projection.FromCategory(c))
}

// EditCategory rewrites a category's fields.
func (a *API) EditCategory(w http.ResponseWriter, r *http.Request) {
	current, err := a.categoryParam(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var in service.CategoryInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}

	c, err := a.svc.EditCategory(r.Context(), current.ID, in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.FromCategory(c))
}

// DeleteCategory removes a category and every edge touching it.
func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	c, err := a.categoryParam(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if err := a.svc.DeleteCategory(r.Context(), c.ID); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}

// AddChild links a child under a category and returns the parent.
func (a *API) AddChild(w http.ResponseWriter, r *http.Request) {
	a.changeEdge(w, r, a.svc.AddChild)
}

// RemoveChild unlinks a child from a category and returns the parent.
func (a *API) RemoveChild(w http.ResponseWriter, r *http.Request) {
	a.changeEdge(w, r, a.svc.RemoveChild)
}

func (a *API) changeEdge(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, parent, child uuid.UUID) (*models.Category, error)) {
	parent, err := a.categoryParam(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	child, err := a.categoryParam(r, "child")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	c, err := apply(r.Context(), parent.ID, child.ID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.FromCategory(c))
}

// Children lists the children of a category in link order.
func (a *API) Children(w http.ResponseWriter, r *http.Request) {
	c, err := a.categoryParam(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	children, err := a.svc.ChildrenOf(r.Context(), c.ID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.Categories(children))
}

// Parents lists the parents of a category in link order.
func (a *API) Parents(w http.ResponseWriter, r *http.Request) {
	c, err := a.categoryParam(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}
	parents, err := a.svc.ParentsOf(r.Context(), c.ID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.Categories(parents))
}

// Roots lists the categories that have no parent.
func (a *API) Roots(w http.ResponseWriter, r *http.Request) {
	roots, err := a.svc.RootCategories(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.Categories(roots))
}
