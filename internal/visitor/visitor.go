// Package visitor tracks anonymous readers. A visitor is identified by a
// random cookie; the posts they viewed and liked are kept as Valkey sets
// with a sliding TTL so counters move at most once per visitor.
package visitor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the visitor cookie sent to the browser.
	CookieName = "tx_visitor"

	// DefaultTTL is how long a visitor and their marks are remembered.
	DefaultTTL = 30 * 24 * time.Hour

	// keyPrefix namespaces visitor keys in Valkey to avoid collisions.
	keyPrefix = "visitor:"

	// idLength is the byte length of the random visitor ID (16 bytes = 32 hex chars).
	idLength = 16
)

// Store manages visitor marks in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a visitor store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
	}
}

// Identify returns the visitor ID from the request cookie. When the
// cookie is missing or malformed a new ID is generated and set on w.
func (s *Store) Identify(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && validID(cookie.Value) {
		return cookie.Value, nil
	}

	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("visitor identify: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return id, nil
}

// MarkViewed records that the visitor viewed postID. It returns true
// only the first time, so the caller knows to bump the view counter.
func (s *Store) MarkViewed(ctx context.Context, visitorID, postID string) (bool, error) {
	return s.mark(ctx, visitorID, "viewed", postID)
}

// MarkLiked records that the visitor liked postID. It returns true only
// the first time.
func (s *Store) MarkLiked(ctx context.Context, visitorID, postID string) (bool, error) {
	return s.mark(ctx, visitorID, "liked", postID)
}

// HasLiked reports whether the visitor already liked postID. Errors count
// as "not liked".
func (s *Store) HasLiked(ctx context.Context, visitorID, postID string) bool {
	ok, err := s.client.SIsMember(ctx, setKey(visitorID, "liked"), postID).Result()
	if err != nil && err != redis.Nil {
		return false
	}
	return ok
}

func (s *Store) mark(ctx context.Context, visitorID, set, postID string) (bool, error) {
	key := setKey(visitorID, set)

	var added *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		added = pipe.SAdd(ctx, key, postID)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("visitor mark %s: %w", set, err)
	}
	return added.Val() == 1, nil
}

func setKey(visitorID, set string) string {
	return keyPrefix + visitorID + ":" + set
}

// validID reports whether v looks like an ID produced by generateID.
func validID(v string) bool {
	if len(v) != idLength*2 {
		return false
	}
	_, err := hex.DecodeString(v)
	return err == nil
}

// generateID creates a cryptographically random visitor identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
