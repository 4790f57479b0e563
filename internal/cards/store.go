// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cards

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultTTL is how long a fetched payload stays valid.
const DefaultTTL = 24 * time.Hour

// Store keeps raw API payloads by cache key. An entry past its expiry is
// reported as absent and removed by the lookup that found it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Entry is a cached payload and the moment it stops being valid.
type Entry struct {
	Value  []byte
	Expiry time.Time
}

// Expired reports whether the entry is stale at now.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.Expiry)
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Get returns the payload for key, deleting it when expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if e.Expired(s.now()) {
		s.mu.Lock()
		// Another writer may have refreshed the entry since the read.
		if cur, ok := s.entries[key]; ok && cur.Expired(s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		slog.Debug("card cache expired", "key", key)
		return nil, false
	}
	return e.Value, true
}

// Set stores value under key until ttl elapses. Last write wins.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry{Value: value, Expiry: s.now().Add(ttl)}
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
