// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content post-processes rendered article HTML. It expands media
// shortcodes, turns repository links into card markers, embeds video links
// and normalizes layout fences, all without touching <pre>/<code> regions.
//
// Every pass is a pure string function; Pipeline composes them in a fixed
// order:
//
//	Shield -> x-player -> x-bilibili -> repo markers -> video links
//	       -> grid -> masonry -> Unshield -> stats (single view only)
//
// The order is part of the contract: x-player output is a bare URL that the
// video passes embed, and fences are normalized while code is still
// shielded so their paragraph stripping never reaches code.
package content

// Pipeline is an immutable set of rendering options. A single Pipeline may
// be shared by concurrent requests.
type Pipeline struct {
	playerEndpoint string
	attachStats    bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPlayerEndpoint sets the proxy player address used for non-Bilibili
// video embeds.
func WithPlayerEndpoint(endpoint string) Option {
	return func(p *Pipeline) {
		if endpoint != "" {
			p.playerEndpoint = endpoint
		}
	}
}

// WithStats enables appending the stats block on single article views.
func WithStats(enabled bool) Option {
	return func(p *Pipeline) {
		p.attachStats = enabled
	}
}

// New creates a Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{playerEndpoint: DefaultPlayerEndpoint}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlayerEndpoint returns the configured proxy player address.
func (p *Pipeline) PlayerEndpoint() string {
	return p.playerEndpoint
}

// StatsEnabled reports whether single article views get the stats block.
func (p *Pipeline) StatsEnabled() bool {
	return p.attachStats
}

// Transform rewrites doc and returns the final HTML. It never fails: any
// markup a pass does not recognize is left as it was.
func (p *Pipeline) Transform(doc string, isSingleArticleView bool) string {
	return p.TransformWithStats(doc, isSingleArticleView, nil)
}

// TransformWithStats is Transform plus the stats block, appended when the
// view is a single article, stats are enabled and s is non-nil.
func (p *Pipeline) TransformWithStats(doc string, isSingleArticleView bool, s *Stats) string {
	shielded, blocks := Shield(doc)

	shielded = ExpandShortcodes(shielded)
	shielded = RewriteLinks(shielded, p.playerEndpoint)
	shielded = NormalizeFences(shielded)

	out := Unshield(shielded, blocks)

	if isSingleArticleView && p.attachStats && s != nil {
		out = AppendStats(out, *s)
	}
	return out
}

var defaultPipeline = New()

// Transform runs the default pipeline over doc.
func Transform(doc string, isSingleArticleView bool) string {
	return defaultPipeline.Transform(doc, isSingleArticleView)
}
