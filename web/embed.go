// Package web provides embedded static assets (CSS, JS) for the public
// blog pages. The files are served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree: the article stylesheet
// and the script driving the like button and client-side card loading.
//
//go:embed all:static
var StaticFS embed.FS
