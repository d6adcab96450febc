// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fixtures loads permissions, tags and a category tree from YAML
// and creates them through the service layer, so fixtures obey the same
// validation and uniqueness rules as API writes. Records that already
// exist are reused, which makes loading idempotent.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"folio/internal/apperr"
	"folio/internal/models"
	"folio/internal/service"
)

// File is the fixture document.
type File struct {
	Permissions []string   `yaml:"permissions"`
	Tags        []string   `yaml:"tags"`
	Categories  []Category `yaml:"categories"`
}

// Category is one node of the category tree. A name listed under several
// parents becomes a single category with several parents.
type Category struct {
	Name              string     `yaml:"name"`
	Priority          *int       `yaml:"priority"`
	CustomTemplateURL string     `yaml:"custom_template_url"`
	Children          []Category `yaml:"children"`
}

// Target is the subset of the service the loader writes through.
type Target interface {
	CreatePermission(ctx context.Context, in service.NameInput) (*models.Permission, error)
	CreateTag(ctx context.Context, in service.NameInput) (*models.Tag, error)
	CreateCategory(ctx context.Context, in service.CategoryInput) (*models.Category, error)
	CategoryByName(ctx context.Context, name string) (*models.Category, error)
	AddChild(ctx context.Context, parent, child uuid.UUID) (*models.Category, error)
}

// Result counts what a load created. Existing records are not counted.
type Result struct {
	Permissions int
	Tags        int
	Categories  int
	Edges       int
}

// Parse decodes a fixture document. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// LoadFile parses the fixture file at path and applies it to t.
func LoadFile(ctx context.Context, t Target, path string) (Result, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open fixtures: %w", err)
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return Result{}, err
	}
	return Apply(ctx, t, f)
}

// Apply creates every record in f that does not exist yet.
func Apply(ctx context.Context, t Target, f *File) (Result, error) {
	var res Result

	for _, name := range f.Permissions {
		_, err := t.CreatePermission(ctx, service.NameInput{Name: name})
		if created, err := skipConflict(err); err != nil {
			return res, fmt.Errorf("permission %q: %w", name, err)
		} else if created {
			res.Permissions++
		}
	}

	for _, name := range f.Tags {
		_, err := t.CreateTag(ctx, service.NameInput{Name: name})
		if created, err := skipConflict(err); err != nil {
			return res, fmt.Errorf("tag %q: %w", name, err)
		} else if created {
			res.Tags++
		}
	}

	for _, c := range f.Categories {
		if _, err := applyCategory(ctx, t, c, &res); err != nil {
			return res, err
		}
	}

	slog.Info("fixtures loaded",
		"permissions", res.Permissions,
		"tags", res.Tags,
		"categories", res.Categories,
		"edges", res.Edges,
	)
	return res, nil
}

// applyCategory ensures c and its subtree exist and returns c's id.
func applyCategory(ctx context.Context, t Target, c Category, res *Result) (uuid.UUID, error) {
	cat, err := t.CreateCategory(ctx, service.CategoryInput{
		DisplayName:       c.Name,
		Priority:          c.Priority,
		CustomTemplate:    c.CustomTemplateURL != "",
		CustomTemplateURL: c.CustomTemplateURL,
	})
	switch {
	case err == nil:
		res.Categories++
	case apperr.KindOf(err) == apperr.KindConflict:
		if cat, err = t.CategoryByName(ctx, c.Name); err != nil {
			return uuid.Nil, fmt.Errorf("category %q: %w", c.Name, err)
		}
	default:
		return uuid.Nil, fmt.Errorf("category %q: %w", c.Name, err)
	}

	for _, child := range c.Children {
		childID, err := applyCategory(ctx, t, child, res)
		if err != nil {
			return uuid.Nil, err
		}
		before := len(cat.Children)
		parent, err := t.AddChild(ctx, cat.ID, childID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("category %q child %q: %w", c.Name, child.Name, err)
		}
		if len(parent.Children) > before {
			res.Edges++
		}
		cat = parent
	}
	return cat.ID, nil
}

func skipConflict(err error) (created bool, _ error) {
	if err == nil {
		return true, nil
	}
	if apperr.KindOf(err) == apperr.KindConflict {
		return false, nil
	}
	return false, err
}
