// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// cardKeyPrefix is the Valkey key prefix for card payloads.
	cardKeyPrefix = "card:"

	defaultCardTTL = 24 * time.Hour
)

// cardEntry is the stored form of a card payload. The expiry travels with
// the value so a lookup can reject a stale entry even if the key's own TTL
// has not fired yet.
type cardEntry struct {
	Value  json.RawMessage `json:"value"`
	Expiry int64           `json:"expiry"` // unix seconds
}

// CardStore keeps card API payloads in Valkey so every instance shares
// one copy per repository or user.
type CardStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewCardStore creates a card store backed by the given Valkey client.
func NewCardStore(client *redis.Client) *CardStore {
	return &CardStore{client: client, now: time.Now}
}

// Get returns the payload for key. An expired or unreadable entry is
// deleted and reported as a miss.
func (cs *CardStore) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := cs.client.Get(ctx, cardKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("card cache get error", "key", key, "error", err)
		return nil, false
	}

	var e cardEntry
	if err := json.Unmarshal(raw, &e); err != nil || cs.now().Unix() > e.Expiry {
		if err != nil {
			slog.Warn("card cache entry unreadable", "key", key, "error", err)
		}
		cs.delete(ctx, key)
		return nil, false
	}
	return e.Value, true
}

// Set stores value under key until ttl elapses.
func (cs *CardStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCardTTL
	}
	raw, err := json.Marshal(cardEntry{
		Value:  json.RawMessage(value),
		Expiry: cs.now().Add(ttl).Unix(),
	})
	if err != nil {
		slog.Warn("card cache encode error", "key", key, "error", err)
		return
	}
	if err := cs.client.Set(ctx, cardKeyPrefix+key, raw, ttl).Err(); err != nil {
		slog.Warn("card cache set error", "key", key, "error", err)
	}
}

func (cs *CardStore) delete(ctx context.Context, key string) {
	if err := cs.client.Del(ctx, cardKeyPrefix+key).Err(); err != nil {
		slog.Warn("card cache delete error", "key", key, "error", err)
	}
}
