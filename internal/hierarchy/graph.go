// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchy holds the category graph: categories as nodes keyed by
// ID, with parent→child edges kept in insertion order in both directions.
//
// A Graph is built from the store for each operation and is not safe for
// concurrent use.
package hierarchy

import (
	"slices"
	"sort"

	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/models"
)

// Graph is an arena of categories with forward and reverse adjacency lists.
type Graph struct {
	nodes    map[uuid.UUID]*models.Category
	order    []uuid.UUID // creation order
	children map[uuid.UUID][]uuid.UUID
	parents  map[uuid.UUID][]uuid.UUID
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[uuid.UUID]*models.Category),
		children: make(map[uuid.UUID][]uuid.UUID),
		parents:  make(map[uuid.UUID][]uuid.UUID),
	}
}

// Build creates a graph from categories in creation order and edges in
// insertion order. Edges that reference unknown categories are skipped.
// Stored edges are trusted, so no cycle check is made here.
func Build(categories []models.Category, edges []models.CategoryEdge) *Graph {
	g := New()
	for i := range categories {
		g.Add(&categories[i])
	}
	for _, e := range edges {
		if g.Has(e.ParentID) && g.Has(e.ChildID) {
			g.link(e.ParentID, e.ChildID)
		}
	}
	return g
}

// Add inserts a category, or replaces the data of an existing node while
// keeping its edges and position.
func (g *Graph) Add(c *models.Category) {
	if _, ok := g.nodes[c.ID]; !ok {
		g.order = append(g.order, c.ID)
	}
	g.nodes[c.ID] = c
}

// Remove deletes a category and every edge that touches it.
func (g *Graph) Remove(id uuid.UUID) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for _, child := range g.children[id] {
		g.parents[child] = without(g.parents[child], id)
	}
	for _, parent := range g.parents[id] {
		g.children[parent] = without(g.children[parent], id)
	}
	delete(g.children, id)
	delete(g.parents, id)
	delete(g.nodes, id)
	g.order = without(g.order, id)
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id uuid.UUID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Get returns the category with the given id.
func (g *Graph) Get(id uuid.UUID) (*models.Category, bool) {
	c, ok := g.nodes[id]
	return c, ok
}

// Len returns the number of categories.
func (g *Graph) Len() int {
	return len(g.order)
}

// CheckEdge validates a prospective parent→child edge without adding it.
// Both ends must exist; self-edges and edges that would close a cycle are
// rejected.
func (g *Graph) CheckEdge(parent, child uuid.UUID) error {
	if !g.Has(parent) {
		return apperr.NotFoundf("category %s not found", parent)
	}
	if !g.Has(child) {
		return apperr.NotFoundf("category %s not found", child)
	}
	if parent == child {
		return apperr.Validation("a category cannot be its own child")
	}
	if g.Reachable(child, parent) {
		return apperr.Validation("edge would create a cycle in the category hierarchy")
	}
	return nil
}

// AddChild inserts the edge parent→child. It returns false without error
// when the edge already exists.
func (g *Graph) AddChild(parent, child uuid.UUID) (bool, error) {
	if err := g.CheckEdge(parent, child); err != nil {
		return false, err
	}
	if slices.Contains(g.children[parent], child) {
		return false, nil
	}
	g.link(parent, child)
	return true, nil
}

// RemoveChild deletes the edge parent→child. It returns false without error
// when no such edge exists.
func (g *Graph) RemoveChild(parent, child uuid.UUID) (bool, error) {
	if !g.Has(parent) {
		return false, apperr.NotFoundf("category %s not found", parent)
	}
	if !g.Has(child) {
		return false, apperr.NotFoundf("category %s not found", child)
	}
	if !slices.Contains(g.children[parent], child) {
		return false, nil
	}
	g.children[parent] = without(g.children[parent], child)
	g.parents[child] = without(g.parents[child], parent)
	return true, nil
}

// ChildrenOf returns the children of id in edge insertion order.
func (g *Graph) ChildrenOf(id uuid.UUID) ([]*models.Category, error) {
	if !g.Has(id) {
		return nil, apperr.NotFoundf("category %s not found", id)
	}
	return g.resolve(g.children[id]), nil
}

// ParentsOf returns the parents of id in edge insertion order.
func (g *Graph) ParentsOf(id uuid.UUID) ([]*models.Category, error) {
	if !g.Has(id) {
		return nil, apperr.NotFoundf("category %s not found", id)
	}
	return g.resolve(g.parents[id]), nil
}

// Roots returns the categories without parents, in creation order.
func (g *Graph) Roots() []*models.Category {
	roots := make([]*models.Category, 0)
	for _, id := range g.order {
		if len(g.parents[id]) == 0 {
			roots = append(roots, g.nodes[id])
		}
	}
	return roots
}

// List returns every category in creation order, or ascending by priority
// when byPriority is set. Ties keep creation order.
func (g *Graph) List(byPriority bool) []*models.Category {
	all := g.resolve(g.order)
	if byPriority {
		sort.SliceStable(all, func(i, j int) bool {
			return all[i].Priority < all[j].Priority
		})
	}
	return all
}

// Reachable reports whether to can be reached from from by following
// parent→child edges. A node reaches itself.
func (g *Graph) Reachable(from, to uuid.UUID) bool {
	seen := make(map[uuid.UUID]bool)
	stack := []uuid.UUID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == to {
			return true
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		stack = append(stack, g.children[id]...)
	}
	return false
}

// Link fills the Children and Parents fields of every node from the
// adjacency lists, so callers can project categories without the graph.
func (g *Graph) Link() {
	for _, id := range g.order {
		c := g.nodes[id]
		c.Children = g.resolve(g.children[id])
		c.Parents = g.resolve(g.parents[id])
	}
}

func (g *Graph) link(parent, child uuid.UUID) {
	g.children[parent] = append(g.children[parent], child)
	g.parents[child] = append(g.parents[child], parent)
}

// resolve maps ids to nodes. The result is never nil.
func (g *Graph) resolve(ids []uuid.UUID) []*models.Category {
	out := make([]*models.Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.nodes[id])
	}
	return out
}

func without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	return slices.DeleteFunc(slices.Clone(ids), func(v uuid.UUID) bool { return v == id })
}
