// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/database"
	"folio/internal/handlers"
	"folio/internal/middleware"
	"folio/internal/render"
	"folio/internal/router"
	"folio/internal/search"
	"folio/internal/service"
	"folio/internal/session"
	"folio/internal/storage"
)

// Credential endpoints accept this many attempts per client per minute.
const credentialAttemptsPerMinute = 10

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	db, _, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// Registration needs a default role, so roles are seeded on every start.
	if err := database.SeedRoles(ctx, db); err != nil {
		return err
	}
	if cfg.IsDev() {
		if err := database.SeedAdmin(ctx, db); err != nil {
			return err
		}
	}

	// Valkey backs the caches and the account page sessions. Without it the
	// JSON API and public pages still run.
	var valkeyClient *redis.Client
	if cfg.ValkeyEnabled() {
		valkeyClient, err = cache.ConnectValkey(ctx, cfg.ValkeyAddr(), cfg.ValkeyPassword)
		if err != nil {
			return err
		}
		defer valkeyClient.Close()
	} else {
		slog.Warn("valkey not configured, caches and account pages disabled")
	}

	var (
		sessions  *session.Store
		navCache  *cache.NavCache
		pageCache *cache.PageCache
	)
	secureCookies := !cfg.IsDev()
	if valkeyClient != nil {
		sessions = session.NewStore(valkeyClient, secureCookies)
		navCache = cache.NewNavCache(valkeyClient, cache.DefaultNavTTL)
		pageCache = cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
	}

	var tokens *auth.TokenService
	if cfg.TokenKey != "" {
		if tokens, err = auth.NewTokenService(cfg.TokenKey, cfg.TokenTTL); err != nil {
			return err
		}
	} else {
		slog.Warn("TOKEN_KEY not set, API tokens will not survive a restart")
		tokens = auth.NewEphemeralTokenService(cfg.TokenTTL)
	}

	var index *search.PostIndex
	if cfg.SearchEnabled {
		if index, err = search.Open(cfg.SearchPath, slog.Default()); err != nil {
			return err
		}
		defer index.Close()
	}

	// The interface stays nil unless storage is configured.
	var images service.ImageStore
	if cfg.S3Enabled() {
		client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			return fmt.Errorf("initialize s3 storage: %w", err)
		}
		if client != nil {
			images = client
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		}
	}
	if images == nil {
		slog.Warn("s3 storage not configured, post image uploads disabled")
	}

	svc := service.New(db, service.Options{Index: index, Nav: navCache, Pages: pageCache, Images: images})

	// An in-memory index starts empty.
	if index != nil && cfg.SearchPath == "" {
		n, err := svc.ReindexPosts(ctx)
		if err != nil {
			return err
		}
		slog.Info("search index built", "posts", n)
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("initialize template renderer: %w", err)
	}

	limiter := middleware.NewRateLimiter(credentialAttemptsPerMinute, time.Minute)
	defer limiter.Stop()

	var authHandlers *handlers.Auth
	if sessions != nil {
		authHandlers = handlers.NewAuth(renderer, sessions, svc)
	}

	r := router.New(router.Config{
		Sessions:      sessions,
		Tokens:        tokens,
		Principals:    svc,
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: secureCookies,
		Limiter:       limiter,
	}, handlers.NewAPI(svc, tokens), authHandlers, handlers.NewPublic(renderer, svc, pageCache))

	// Create the HTTP server with sensible timeouts. WriteTimeout leaves
	// room for image uploads to object storage.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
