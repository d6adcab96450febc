// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements Folio's HTTP handlers: the JSON API under
// /api, the server-rendered account pages under /auth and the public post
// pages.
package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/auth"
	"folio/internal/models"
	"folio/internal/service"
)

// API groups the JSON API handlers.
type API struct {
	svc    *service.Service
	tokens *auth.TokenService
}

// NewAPI creates the API handler group.
func NewAPI(svc *service.Service, tokens *auth.TokenService) *API {
	return &API{svc: svc, tokens: tokens}
}

// pathParam returns a URL parameter decoded. chi matches on the escaped
// path when the request has one, so "%2F" and friends reach handlers
// still encoded.
func pathParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(raw)
		if err != nil {
			return "", apperr.Validation("malformed " + name)
		}
		raw = decoded
	}
	if raw == "" {
		return "", apperr.MissingArgument(name)
	}
	return raw, nil
}

// categoryParam resolves a category URL parameter given either as a UUID or
// as a display name.
func (a *API) categoryParam(r *http.Request, name string) (*models.Category, error) {
	raw, err := pathParam(r, name)
	if err != nil {
		return nil, err
	}
	if id, err := uuid.Parse(raw); err == nil {
		return a.svc.GetCategory(r.Context(), id)
	}
	return a.svc.CategoryByName(r.Context(), raw)
}
