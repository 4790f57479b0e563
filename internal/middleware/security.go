// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// embedFrameSources are the origins article pages may frame: the local
// proxy player plus the platforms embedded directly.
var embedFrameSources = []string{
	"'self'",
	"https://player.bilibili.com",
	"https://www.youtube.com",
	"https://player.vimeo.com",
}

// framePolicy is the Content-Security-Policy set on every response. It
// only constrains framing; scripts and styles are left to the pages.
var framePolicy = "frame-ancestors 'self'; frame-src " + strings.Join(embedFrameSources, " ")

// SecureHeaders adds security-related HTTP headers to every response.
// Handlers may replace the Content-Security-Policy for their own pages.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		// Prevent the browser from MIME-sniffing the Content-Type.
		h.Set("X-Content-Type-Options", "nosniff")

		// Articles frame the player from the same origin only.
		h.Set("X-Frame-Options", "SAMEORIGIN")
		h.Set("Content-Security-Policy", framePolicy)

		// Disable the legacy XSS filter (can cause issues; CSP is preferred).
		h.Set("X-XSS-Protection", "0")

		// Embedded players need the referrer origin to authorize playback.
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Players need autoplay and fullscreen; nothing else is delegated.
		h.Set("Permissions-Policy", "interest-cohort=(), autoplay=(self), fullscreen=(self)")

		next.ServeHTTP(w, r)
	})
}
