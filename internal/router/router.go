// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for Folio.
// It organizes routes into the JSON API, the session-backed account pages
// and the public post pages, each with its own middleware stack.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"folio/internal/auth"
	"folio/internal/handlers"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/session"
	"folio/web"
)

// Config carries the collaborators shared by the route groups. Sessions,
// Auth and Public may be nil; the groups that need them are then not
// mounted.
type Config struct {
	Sessions      *session.Store
	Tokens        *auth.TokenService
	Principals    middleware.Principals
	CORSOrigins   []string
	SecureCookies bool
	// Limiter throttles credential endpoints when set.
	Limiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(cfg Config, api *handlers.API, authH *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(cfg.Sessions))

	limit := func(next http.Handler) http.Handler { return next }
	if cfg.Limiter != nil {
		limit = cfg.Limiter.Middleware
	}

	r.Get("/health", healthHandler)

	if static, err := fs.Sub(web.StaticFS, "static"); err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.TOTPHeaderName},
			ExposedHeaders:   []string{"Retry-After"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		r.Use(middleware.APIAuth(cfg.Principals, cfg.Tokens))

		r.With(limit).Post("/register/", api.Register)
		r.Get("/load_user/", api.LoadUser)
		r.Post("/load_user/", api.LoadUser)

		r.Get("/posts/search", api.SearchPosts)
		r.Get("/posts/{slug}", api.GetPost)

		r.Get("/categories/", api.Navbar)
		r.Get("/categories/roots", api.Roots)
		r.Get("/categories/{id}", api.GetCategory)
		r.Get("/categories/{id}/children", api.Children)
		r.Get("/categories/{id}/parents", api.Parents)

		r.Get("/permissions/", api.ListPermissions)
		r.Get("/tags/", api.ListTags)

		// Any authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.With(limit).Post("/tokens/", api.IssueToken)
			r.Get("/test", api.Greet)
			r.Get("/usernames/", api.Usernames)
		})

		// Administrators only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Get("/posts/", api.ListPosts)
			r.Post("/new_post/", api.CreatePost)
			r.Post("/edit_post/{slug}", api.EditPost)
			r.Put("/posts/{slug}/image", api.UploadPostImage)
			r.Delete("/posts/{slug}", api.DeletePost)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", api.ListUsers)
				r.Put("/{username}", api.EditUser)
				r.Delete("/{username}", api.DeleteUser)
			})

			r.Route("/roles", func(r chi.Router) {
				r.Get("/", api.ListRoles)
				r.Post("/", api.CreateRole)
				r.Put("/{name}", api.EditRole)
				r.Delete("/{name}", api.DeleteRole)
			})

			r.Post("/categories/", api.CreateCategory)
			r.Put("/categories/{id}", api.EditCategory)
			r.Delete("/categories/{id}", api.DeleteCategory)
			r.Post("/categories/{id}/children/{child}", api.AddChild)
			r.Delete("/categories/{id}/children/{child}", api.RemoveChild)

			r.Post("/permissions/", api.CreatePermission)
			r.Delete("/permissions/{name}", api.DeletePermission)
			r.Post("/tags/", api.CreateTag)
			r.Delete("/tags/{name}", api.DeleteTag)
		})
	})

	// Account pages need a session store.
	if authH != nil && cfg.Sessions != nil {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.NewCSRF(cfg.SecureCookies))

			r.Get("/register", authH.RegisterPage)
			r.With(limit).Post("/register", authH.RegisterSubmit)
			r.Get("/login", authH.LoginPage)
			r.With(limit).Post("/login", authH.LoginSubmit)
			r.Post("/logout", authH.Logout)

			// 2FA verification requires auth but NOT completed 2FA.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/2fa/verify", authH.TwoFAVerifyPage)
				r.Post("/2fa/verify", authH.TwoFAVerifySubmit)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.Require2FA)
				r.Get("/account", authH.Account)
				r.Get("/2fa/setup", authH.TwoFASetupPage)
				r.Post("/2fa/setup", authH.TwoFASetupSubmit)
				r.Post("/2fa/disable", authH.TwoFADisable)
			})
		})
	}

	if public != nil {
		r.Get("/", public.Home)
		r.Get("/posts/{slug}", public.Post)
	}

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
