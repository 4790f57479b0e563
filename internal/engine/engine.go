// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine turns stored posts into final article HTML. A body goes
// through the Markdown renderer (when authored in Markdown), the content
// pipeline and card hydration, and the result is cached in two levels:
// an in-memory L1 keyed by post ID+version and an optional Valkey L2.
// The per-visitor stats block is appended after the caches.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"textend/internal/cache"
	"textend/internal/content"
	"textend/internal/markdown"
	"textend/internal/models"
)

// excerptRunes is the length of an excerpt derived from the body when a
// post has none.
const excerptRunes = 200

// Hydrator replaces card markers in rendered HTML.
type Hydrator interface {
	Hydrate(ctx context.Context, doc string) (string, error)
}

// BodyCache is a shared store of processed bodies (L2).
type BodyCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
}

// Engine renders post bodies. It is safe for concurrent use.
type Engine struct {
	pipeline *content.Pipeline
	hydrator Hydrator
	shared   BodyCache
	cache    *bodyCache
}

// Option configures an Engine.
type Option func(*Engine)

// WithHydrator enables card hydration for single article views.
func WithHydrator(h Hydrator) Option {
	return func(e *Engine) {
		e.hydrator = h
	}
}

// WithBodyCache adds a shared L2 cache of processed bodies.
func WithBodyCache(c BodyCache) Option {
	return func(e *Engine) {
		e.shared = c
	}
}

// New creates an engine around the given pipeline with an empty L1 cache.
// A nil pipeline uses the default content options.
func New(pipeline *content.Pipeline, opts ...Option) *Engine {
	if pipeline == nil {
		pipeline = content.New()
	}
	e := &Engine{
		pipeline: pipeline,
		cache:    newBodyCache(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process renders a body without touching the caches. Markdown is
// converted first; card markers are hydrated only for single views and
// only when a hydrator is configured.
func (e *Engine) Process(ctx context.Context, body string, format models.BodyFormat, isSingleArticleView bool) string {
	if format == models.BodyFormatMarkdown {
		rendered, err := markdown.ToHTML(body)
		if err != nil {
			slog.Warn("markdown conversion failed, using raw body", "error", err)
		} else {
			body = rendered
		}
	}

	out := e.pipeline.Transform(body, isSingleArticleView)

	if isSingleArticleView && e.hydrator != nil {
		hydrated, err := e.hydrator.Hydrate(ctx, out)
		if err != nil {
			slog.Warn("card hydration failed, serving markers", "error", err)
		} else {
			out = hydrated
		}
	}
	return out
}

// ArticleBody returns the processed body of a post, consulting L1 then
// L2 before processing it.
func (e *Engine) ArticleBody(ctx context.Context, post *models.Post) string {
	id := post.ID.String()
	if body, ok := e.cache.get(id, post.Version); ok {
		return body
	}

	key := cache.ArticleKey(post.Slug, post.Version)
	if e.shared != nil {
		if body, ok := e.shared.Get(ctx, key); ok {
			e.cache.put(id, post.Version, string(body))
			return string(body)
		}
	}

	body := e.Process(ctx, post.Body, post.BodyFormat, true)

	e.cache.put(id, post.Version, body)
	if e.shared != nil {
		e.shared.Set(ctx, key, []byte(body))
	}
	return body
}

// RenderArticle returns the body for a single article view with the
// stats block appended when the pipeline has stats enabled.
func (e *Engine) RenderArticle(ctx context.Context, post *models.Post, stats content.Stats) string {
	body := e.ArticleBody(ctx, post)
	if !e.pipeline.StatsEnabled() {
		return body
	}
	if stats.ContentID == "" {
		stats.ContentID = post.ID.String()
	}
	return content.AppendStats(body, stats)
}

// Excerpt returns list-view HTML for a post: its excerpt when set,
// otherwise the opening of the body. Shortcodes and video links are
// expanded as a list view, so no stats and no card hydration.
func (e *Engine) Excerpt(post *models.Post) string {
	if post.Excerpt != nil && strings.TrimSpace(*post.Excerpt) != "" {
		return e.Process(context.Background(), *post.Excerpt, models.BodyFormatMarkdown, false)
	}

	// Cut at a paragraph boundary so markup is not split mid-block.
	src := post.Body
	if i := strings.Index(src, "\n\n"); i > 0 {
		src = src[:i]
	}
	if post.IsMarkdown() && utf8.RuneCountInString(src) > excerptRunes {
		src = string([]rune(src)[:excerptRunes]) + "…"
	}
	return e.Process(context.Background(), src, post.BodyFormat, false)
}
