// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// article.go caches processed article bodies in Valkey (L2). A body is
// stored after Markdown rendering, the content pipeline and card
// hydration, so a hit skips all three. Per-visitor parts such as the
// stats block are added after the cache.
package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// articleKeyPrefix is the Valkey key prefix for cached article bodies.
	articleKeyPrefix = "article:"

	// DefaultArticleTTL is how long a processed body stays cached.
	DefaultArticleTTL = 10 * time.Minute
)

// ArticleCache manages processed article bodies in Valkey.
type ArticleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewArticleCache creates a new article cache backed by the given Valkey client.
func NewArticleCache(client *redis.Client, ttl time.Duration) *ArticleCache {
	if ttl == 0 {
		ttl = DefaultArticleTTL
	}
	return &ArticleCache{client: client, ttl: ttl}
}

// Get retrieves a cached body. Returns false on miss or error.
func (ac *ArticleCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := ac.client.Get(ctx, articleKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("article cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("article cache hit", "key", key)
	return val, true
}

// Set stores a processed body with the configured TTL.
func (ac *ArticleCache) Set(ctx context.Context, key string, body []byte) {
	if err := ac.client.Set(ctx, articleKeyPrefix+key, body, ac.ttl).Err(); err != nil {
		slog.Warn("article cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single article by key.
func (ac *ArticleCache) Invalidate(ctx context.Context, key string) {
	if err := ac.client.Del(ctx, articleKeyPrefix+key).Err(); err != nil {
		slog.Warn("article cache invalidate error", "key", key, "error", err)
		return
	}
	slog.Debug("article cache invalidated", "key", key)
}

// InvalidateAll removes all cached articles by scanning for the prefix.
// Used when rendering options change, since every body could be affected.
func (ac *ArticleCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := ac.client.Scan(ctx, cursor, articleKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("article cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := ac.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("article cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("article cache fully cleared", "deleted", deleted)
	}
}

// ArticleKey returns the cache key for an article body. The version
// changes whenever the stored source changes, so edits miss naturally.
func ArticleKey(slug string, version int) string {
	return slug + ":v" + strconv.Itoa(version)
}
