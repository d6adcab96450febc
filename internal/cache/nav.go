// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	navKey = "folio:nav:categories"

	// DefaultNavTTL bounds how stale the navbar can get if an invalidation
	// is lost.
	DefaultNavTTL = 10 * time.Minute
)

// NavCache holds the encoded, priority-sorted category list served to the
// navbar. Any category or edge mutation invalidates it.
//
// A nil *NavCache is valid and never hits.
type NavCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNavCache returns a navbar cache, or nil when client is nil.
func NewNavCache(client *redis.Client, ttl time.Duration) *NavCache {
	if client == nil {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultNavTTL
	}
	return &NavCache{client: client, ttl: ttl}
}

// Get returns the cached encoding of the category list.
func (nc *NavCache) Get(ctx context.Context) ([]byte, bool) {
	if nc == nil {
		return nil, false
	}
	val, err := nc.client.Get(ctx, navKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("nav cache get error", "error", err)
		return nil, false
	}
	return val, true
}

// Set stores the encoded category list.
func (nc *NavCache) Set(ctx context.Context, body []byte) {
	if nc == nil {
		return
	}
	if err := nc.client.Set(ctx, navKey, body, nc.ttl).Err(); err != nil {
		slog.Warn("nav cache set error", "error", err)
	}
}

// Invalidate drops the cached category list.
func (nc *NavCache) Invalidate(ctx context.Context) {
	if nc == nil {
		return
	}
	if err := nc.client.Del(ctx, navKey).Err(); err != nil {
		slog.Warn("nav cache invalidate error", "error", err)
		return
	}
	slog.Debug("nav cache invalidated")
}
