// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// hydrate.go resolves markers found in an HTML document. Each marker is
// an independent task: a cache hit renders without network, a miss
// fetches once per key however many markers are waiting on it. A failed
// fetch is logged and leaves its marker as it was. Cards are spliced into
// the document at the markers' byte offsets.
package cards

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultConcurrency is the number of markers resolved at once per document.
const DefaultConcurrency = 8

// Fetcher retrieves the raw payload for a marker.
type Fetcher interface {
	Fetch(ctx context.Context, m Marker) ([]byte, error)
}

// Hydrator renders markers into cards.
type Hydrator struct {
	fetcher     Fetcher
	store       Store
	ttl         time.Duration
	concurrency int
	inflight    singleflight.Group
}

// HydratorOption configures a Hydrator.
type HydratorOption func(*Hydrator)

// WithTTL sets how long fetched payloads are cached.
func WithTTL(ttl time.Duration) HydratorOption {
	return func(h *Hydrator) {
		if ttl > 0 {
			h.ttl = ttl
		}
	}
}

// WithConcurrency bounds the markers resolved in parallel for one document.
func WithConcurrency(n int) HydratorOption {
	return func(h *Hydrator) {
		if n > 0 {
			h.concurrency = n
		}
	}
}

// NewHydrator creates a Hydrator. A nil store gets a process-local one.
func NewHydrator(fetcher Fetcher, store Store, opts ...HydratorOption) *Hydrator {
	if store == nil {
		store = NewMemoryStore()
	}
	h := &Hydrator{
		fetcher:     fetcher,
		store:       store,
		ttl:         DefaultTTL,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Card resolves a single marker url to card markup.
func (h *Hydrator) Card(ctx context.Context, rawURL string) (string, error) {
	m, err := ParseMarker(rawURL)
	if err != nil {
		return "", err
	}
	return h.resolve(ctx, m)
}

// resolve renders m from the cache, fetching on a miss.
func (h *Hydrator) resolve(ctx context.Context, m Marker) (string, error) {
	key := m.CacheKey()
	if payload, ok := h.store.Get(ctx, key); ok {
		if card, err := Render(m, payload); err == nil {
			slog.Debug("card cache hit", "key", key)
			return card, nil
		}
	}

	v, err, shared := h.inflight.Do(key, func() (any, error) {
		// A fetch that finished between the lookup above and Do has
		// already filled the cache.
		if payload, ok := h.store.Get(ctx, key); ok {
			if card, err := Render(m, payload); err == nil {
				return card, nil
			}
		}

		payload, err := h.fetcher.Fetch(ctx, m)
		if err != nil {
			return "", err
		}
		card, err := Render(m, payload)
		if err != nil {
			return "", err
		}
		h.store.Set(ctx, key, payload, h.ttl)
		return card, nil
	})
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", key, err)
	}
	if shared {
		slog.Debug("card fetch shared", "key", key)
	}
	return v.(string), nil
}

// markerTask is one marker element and the content it will receive.
// doc[start:end] is the region replaced by open+content+close; for a
// marker with an end tag that is just its current children.
type markerTask struct {
	url         string
	start, end  int
	open, close string
	content     string
	ok          bool
}

// Hydrate fills every marker element of doc with its card. Only the
// markers' contents change; every other byte of doc is kept as written.
// Documents without markers are returned as is.
func (h *Hydrator) Hydrate(ctx context.Context, doc string) (string, error) {
	if !strings.Contains(doc, "<"+MarkerElement) {
		return doc, nil
	}

	tasks, err := findMarkers(doc)
	if err != nil {
		return "", err
	}
	if len(tasks) == 0 {
		return doc, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)
	for _, t := range tasks {
		g.Go(func() error {
			h.hydrateMarker(gctx, t)
			return nil
		})
	}
	// Tasks never fail; a failed marker is left untouched.
	_ = g.Wait()

	var b strings.Builder
	b.Grow(len(doc))
	last := 0
	for _, t := range tasks {
		if !t.ok {
			continue
		}
		b.WriteString(doc[last:t.start])
		b.WriteString(t.open)
		b.WriteString(t.content)
		b.WriteString(t.close)
		last = t.end
	}
	b.WriteString(doc[last:])
	return b.String(), nil
}

// findMarkers tokenizes doc and returns its marker elements in document
// order with their byte ranges. Markers nested in a marker, and a marker
// left unclosed at the end of the document, are ignored. A self-closing
// marker is rewritten as an element with an end tag.
func findMarkers(doc string) ([]*markerTask, error) {
	z := html.NewTokenizer(strings.NewReader(doc))
	var (
		tasks  []*markerTask
		open   *markerTask
		offset int
	)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("scan document: %w", err)
			}
			return tasks, nil
		}
		size := len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != MarkerElement || open != nil {
				break
			}
			url := strings.TrimSpace(tokenAttr(tok, "url"))
			if tt == html.SelfClosingTagToken {
				tasks = append(tasks, &markerTask{
					url:   url,
					start: offset,
					end:   offset + size,
					open:  `<` + MarkerElement + ` url="` + html.EscapeString(url) + `">`,
					close: `</` + MarkerElement + `>`,
				})
				break
			}
			open = &markerTask{url: url, start: offset + size}
		case html.EndTagToken:
			name, _ := z.TagName()
			if open != nil && string(name) == MarkerElement {
				open.end = offset
				tasks = append(tasks, open)
				open = nil
			}
		}
		offset += size
	}
}

// hydrateMarker decides what a single marker should contain.
func (h *Hydrator) hydrateMarker(ctx context.Context, t *markerTask) {
	if t.url == "" {
		t.content, t.ok = "", true
		return
	}

	m, err := ParseMarker(t.url)
	switch {
	case errors.Is(err, ErrInvalidURL):
		t.content, t.ok = html.EscapeString(InvalidURLMessage), true
		return
	case err != nil:
		slog.Debug("card marker skipped", "url", t.url, "error", err)
		return
	}

	card, err := h.resolve(ctx, m)
	if err != nil {
		slog.Warn("card fetch failed", "url", t.url, "error", err)
		return
	}
	t.content, t.ok = card, true
}

func tokenAttr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}
