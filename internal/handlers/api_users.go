// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"folio/internal/apperr"
	"folio/internal/middleware"
	"folio/internal/projection"
	"folio/internal/response"
	"folio/internal/service"
)

// Register creates a user from a JSON body and returns its projection.
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}

	user, err := a.svc.RegisterUser(r.Context(), in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, projection.FromUser(user))
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueToken returns a bearer token for the authenticated caller.
func (a *API) IssueToken(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if a.tokens == nil {
		response.Error(w, r, apperr.Forbidden("token issuing is disabled"))
		return
	}

	token, expires, err := a.tokens.Generate(user)
	if err != nil {
		response.Error(w, r, fmt.Errorf("issue token: %w", err))
		return
	}
	response.Created(w, tokenResponse{Token: token, ExpiresAt: expires.UTC()})
}

// LoadUser returns the projection of one user. The username comes from the
// query string or, as the original clients send it, a JSON body.
func (a *API) LoadUser(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" && r.Body != nil && r.ContentLength != 0 {
		var body struct {
			Username string `json:"username"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			username = strings.TrimSpace(body.Username)
		}
	}

	user, err := a.svc.GetUser(r.Context(), username)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.FromUser(user))
}

// Greet answers authenticated callers by name.
func (a *API) Greet(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	response.OK(w, map[string]string{"data": "Hello, " + user.Username})
}

// Usernames lists every username.
func (a *API) Usernames(w http.ResponseWriter, r *http.Request) {
	names, err := a.svc.Usernames(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	response.OK(w, names)
}

// ListUsers lists every user with their posts.
func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.svc.ListUsers(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.List(users, projection.FromUser))
}

// EditUser changes a user's username, email, password or role.
func (a *API) EditUser(w http.ResponseWriter, r *http.Request) {
	username, err := pathParam(r, "username")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var in service.EditUserInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}

	user, err := a.svc.EditUser(r.Context(), username, in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.FromUser(user))
}

// DeleteUser removes a user. Administrators cannot be deleted.
func (a *API) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username, err := pathParam(r, "username")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := a.svc.DeleteUser(r.Context(), username); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}
