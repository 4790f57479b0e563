// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateKeyPrefix namespaces limiter counters in Valkey.
const rateKeyPrefix = "ratelimit:"

// ValkeyLimiter is a fixed-window Limiter whose counters live in Valkey,
// so every server instance enforces the same budget per client.
// When Valkey is unreachable requests are let through.
type ValkeyLimiter struct {
	client *redis.Client
	scope  string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewValkeyLimiter allows limit requests per window and client. scope
// separates the counters of different limited route groups.
func NewValkeyLimiter(client *redis.Client, scope string, limit int, window time.Duration) *ValkeyLimiter {
	return &ValkeyLimiter{
		client: client,
		scope:  scope,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Middleware is RateLimit over this limiter.
func (vl *ValkeyLimiter) Middleware(next http.Handler) http.Handler {
	return RateLimit(vl, vl.window)(next)
}

// Allow counts a hit in the current window and reports whether the count
// is still within the limit.
func (vl *ValkeyLimiter) Allow(ctx context.Context, key string) bool {
	slot := vl.now().UnixNano() / int64(vl.window)
	k := rateKeyPrefix + vl.scope + ":" + key + ":" + strconv.FormatInt(slot, 10)

	var incr *redis.IntCmd
	_, err := vl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, vl.window)
		return nil
	})
	if err != nil {
		slog.Warn("rate limit counter failed, allowing request", "key", key, "error", err)
		return true
	}
	return incr.Val() <= vl.limit
}
