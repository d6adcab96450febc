// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache for rendered post pages. The public
// post handler stores the HTML produced from a post's Markdown body so later
// requests skip the database query and rendering.
//
// A nil *PageCache is valid and never hits.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached post pages.
	pageKeyPrefix = "folio:page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages rendered post HTML in Valkey, keyed by slug.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
// A nil client yields a nil cache.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if client == nil {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves cached HTML for a slug.
func (pc *PageCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, pageKeyPrefix+slug).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "slug", slug, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "slug", slug)
	return val, true
}

// Set stores rendered HTML for a slug with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, slug string, html []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, pageKeyPrefix+slug, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "slug", slug, "error", err)
	}
}

// InvalidatePost removes the cached page of one post.
func (pc *PageCache) InvalidatePost(ctx context.Context, slug string) {
	if pc == nil {
		return
	}
	if err := pc.client.Del(ctx, pageKeyPrefix+slug).Err(); err != nil {
		slog.Warn("page cache invalidate error", "slug", slug, "error", err)
		return
	}
	slog.Debug("page cache invalidated", "slug", slug)
}

// InvalidateAll removes every cached page by scanning for the prefix.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if pc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, next, err := pc.client.Scan(ctx, cursor, pageKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("page cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("page cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}
