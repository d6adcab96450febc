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

// ListRoles lists every role.
func (a *API) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := a.svc.ListRoles(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.List(roles, projection.FromRole))
}

// CreateRole adds a role. Marking it default clears the flag elsewhere.
func (a *API) CreateRole(w http.ResponseWriter, r *http.Request) {
	var in service.RoleInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}

	role, err := a.svc.CreateRole(r.Context(), in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, projection.FromRole(role))
}

// EditRole renames a role or changes its default flag.
func (a *API) EditRole(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var in service.RoleInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}

	role, err := a.svc.EditRole(r.Context(), name, in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.FromRole(role))
}

// DeleteRole removes a role. The admin role cannot be deleted.
func (a *API) DeleteRole(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := a.svc.DeleteRole(r.Context(), name); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}
