// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Limiter decides whether one more request from key fits the limit.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit returns middleware that rejects requests over the limit with
// 429 and a Retry-After of one window. Clients are keyed by IP.
func RateLimit(l Limiter, window time.Duration) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(math.Ceil(window.Seconds())))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(r.Context(), clientIP(r)) {
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientWindow holds the request times of one client inside the window.
type clientWindow struct {
	mu   sync.Mutex
	hits []time.Time
}

// RateLimiter is a process-local sliding-window Limiter. It suits a single
// instance and tests; ValkeyLimiter shares counts between instances.
type RateLimiter struct {
	mu      sync.RWMutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
	stopCh  chan struct{}
}

// NewRateLimiter allows limit requests per window and client. A background
// goroutine drops idle clients until Stop is called.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
	}
	go rl.sweep(5 * time.Minute)
	return rl
}

// Middleware is RateLimit over this limiter.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return RateLimit(rl, rl.window)(next)
}

// Stop terminates the background sweep.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Allow records a hit for key unless its window is already full.
func (rl *RateLimiter) Allow(_ context.Context, key string) bool {
	cw := rl.client(key)
	now := time.Now()

	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.hits = pruneBefore(cw.hits, now.Add(-rl.window))
	if len(cw.hits) >= rl.limit {
		return false
	}
	cw.hits = append(cw.hits, now)
	return true
}

// client returns the window for key, creating it on first use.
func (rl *RateLimiter) client(key string) *clientWindow {
	rl.mu.RLock()
	cw, ok := rl.clients[key]
	rl.mu.RUnlock()
	if ok {
		return cw
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if cw, ok = rl.clients[key]; !ok {
		cw = &clientWindow{}
		rl.clients[key] = cw
	}
	return cw
}

func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup forgets clients whose hits have all left the window.
func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, cw := range rl.clients {
		cw.mu.Lock()
		cw.hits = pruneBefore(cw.hits, cutoff)
		idle := len(cw.hits) == 0
		cw.mu.Unlock()

		if idle {
			delete(rl.clients, key)
		}
	}
}

// pruneBefore drops the hits at or before cutoff. hits is in time order.
func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	// The leftmost X-Forwarded-For entry is the original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
