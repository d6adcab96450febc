// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"folio/internal/apperr"
	"folio/internal/middleware"
	"folio/internal/projection"
	"folio/internal/response"
	"folio/internal/search"
	"folio/internal/service"
)

// maxImageSize limits post image uploads.
const maxImageSize = 10 << 20

// ListPosts lists every post, newest first.
func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.svc.ListPosts(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.List(posts, projection.FromPost))
}

// GetPost returns one post by slug.
func (a *API) GetPost(w http.ResponseWriter, r *http.Request) {
	postSlug, err := pathParam(r, "slug")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	post, err := a.svc.GetPost(r.Context(), postSlug)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.FromPost(post))
}

// CreatePost publishes a post authored by the caller.
func (a *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in service.PostInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}

	post, err := a.svc.CreatePost(r.Context(), middleware.UserFromCtx(r.Context()), in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, projection.FromPost(post))
}

// EditPost rewrites a post and records the caller as its moderator.
func (a *API) EditPost(w http.ResponseWriter, r *http.Request) {
	postSlug, err := pathParam(r, "slug")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var in service.PostInput
	if err := response.Decode(r, &in); err != nil {
		response.Error(w, r, err)
		return
	}

	post, err := a.svc.EditPost(r.Context(), middleware.UserFromCtx(r.Context()), postSlug, in)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.FromPost(post))
}

// DeletePost removes a post.
func (a *API) DeletePost(w http.ResponseWriter, r *http.Request) {
	postSlug, err := pathParam(r, "slug")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := a.svc.DeletePost(r.Context(), postSlug); err != nil {
		response.Error(w, r, err)
		return
	}
	response.NoContent(w)
}

// SearchPosts runs a full-text query over titles, bodies and slugs.
func (a *API) SearchPosts(w http.ResponseWriter, r *http.Request) {
	limit := search.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Error(w, r, apperr.Validation("limit must be a positive integer"))
			return
		}
		limit = n
	}

	posts, err := a.svc.SearchPosts(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.List(posts, projection.FromPost))
}

// UploadPostImage stores a multipart "image" file and attaches it to the
// post.
func (a *API) UploadPostImage(w http.ResponseWriter, r *http.Request) {
	postSlug, err := pathParam(r, "slug")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+(1<<20))
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		response.Error(w, r, apperr.Validation("invalid multipart upload").WithCause(err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, r, apperr.MissingArgument("image"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	post, err := a.svc.SetPostImage(r.Context(), middleware.UserFromCtx(r.Context()),
		postSlug, header.Filename, contentType, file, header.Size)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, projection.FromPost(post))
}
