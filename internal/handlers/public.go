// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"folio/internal/apperr"
	"folio/internal/cache"
	"folio/internal/markdown"
	"folio/internal/render"
	"folio/internal/service"
)

// Public groups the handlers for the public site. Rendered post bodies are
// kept in the Valkey page cache; the surrounding layout is rendered per
// request because it carries the visitor's session.
type Public struct {
	renderer  *render.Renderer
	svc       *service.Service
	pageCache *cache.PageCache
}

// NewPublic creates a new Public handler group. pageCache may be nil.
func NewPublic(renderer *render.Renderer, svc *service.Service, pageCache *cache.PageCache) *Public {
	return &Public{renderer: renderer, svc: svc, pageCache: pageCache}
}

// Home lists every post, newest first.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := p.svc.ListPosts(r.Context())
	if err != nil {
		slog.Error("list posts failed", "error", err)
		p.renderer.Error(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	p.renderer.Page(w, r, "home", &render.PageData{
		Title: "Posts",
		Data:  map[string]any{"Posts": posts},
	})
}

// Post renders one post with its Markdown body converted to HTML.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	post, err := p.svc.GetPost(ctx, slugParam)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			p.renderer.Error(w, r, http.StatusNotFound, "This post does not exist.")
			return
		}
		slog.Error("find post failed", "error", err, "slug", slugParam)
		p.renderer.Error(w, r, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	body, ok := p.pageCache.Get(ctx, post.Slug)
	if !ok {
		html, err := markdown.ToHTML(post.Body)
		if err != nil {
			slog.Error("render post body failed", "error", err, "slug", post.Slug)
			p.renderer.Error(w, r, http.StatusInternalServerError, "This post could not be rendered.")
			return
		}
		body = []byte(html)
		p.pageCache.Set(ctx, post.Slug, body)
	}

	author, _ := post.AuthorName()
	p.renderer.Page(w, r, "post", &render.PageData{
		Title: post.Title,
		Data: map[string]any{
			"Post":   post,
			"Author": author,
			// The Markdown renderer drops raw HTML from the source.
			"Body": template.HTML(body),
		},
	})
}
