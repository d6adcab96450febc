// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"folio/internal/projection"
	"folio/internal/response"
	"folio/internal/service"
)

// ListPermissions lists every permission.
func (a *API) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := a.svc.ListPermissions(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.List(perms, projection.FromPermission))
}

// CreatePermission adds a permission.
func (a *API) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var in service.NameInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}
	perm, err := a.svc.CreatePermission(r.Context(), in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, projection.FromPermission(perm))
}

// DeletePermission removes a permission by name.
func (a *API) DeletePermission(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := a.svc.DeletePermission(r.Context(), name); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}

// ListTags lists every tag.
func (a *API) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := a.svc.ListTags(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.List(tags, projection.FromTag))
}

// CreateTag adds a tag.
func (a *API) CreateTag(w http.ResponseWriter, r *http.Request) {
	var in service.NameInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}
	tag, err := a.svc.CreateTag(r.Context(), in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, projection.FromTag(tag))
}

// DeleteTag removes a tag by name.
func (a *API) DeleteTag(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := a.svc.DeleteTag(r.Context(), name); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}
