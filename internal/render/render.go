// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site.
// Each page template is paired with a shared base layout.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

// DefaultSiteName is shown in titles and the header when none is configured.
const DefaultSiteName = "textend"

// PageData holds all data passed to public templates.
type PageData struct {
	SiteName    string     // Shown in the header and <title>
	Title       string     // Page title for <title> tag
	Description string     // Meta description
	Article     *Article   // Set on single article pages
	Posts       []PostItem // Set on the post list
	Message     string     // Set on error pages
	Year        int
}

// Article is a single rendered article.
type Article struct {
	ID          string
	Title       string
	Slug        string
	PublishedAt string
	Body        template.HTML // Processed body, stats included
}

// PostItem represents a single post in a listing.
type PostItem struct {
	Title       string
	Slug        string
	PublishedAt string
	Excerpt     template.HTML
}

// Renderer handles template parsing and execution for public pages.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
	siteName  string
}

// New creates a Renderer by parsing all page templates from the embedded
// filesystem. An empty siteName falls back to DefaultSiteName.
func New(siteName string) (*Renderer, error) {
	if siteName == "" {
		siteName = DefaultSiteName
	}
	r := &Renderer{
		templates: make(map[string]*template.Template),
		siteName:  siteName,
		funcMap: template.FuncMap{
			// pageTitle joins a page title and the site name for <title>.
			"pageTitle": func(title, site string) string {
				if title == "" || title == site {
					return site
				}
				return title + " · " + site
			},
		},
	}

	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			templatesFS, "templates/base.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		r.templates[name[:len(name)-len(".html")]] = tmpl
	}

	return r, nil
}

// Page renders a full page with the given status code. The output is
// buffered so a template error never produces a half-written page.
func (rn *Renderer) Page(w http.ResponseWriter, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	if data.SiteName == "" {
		data.SiteName = rn.siteName
	}
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		slog.Error("template execute failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Error renders the error page with a short message.
func (rn *Renderer) Error(w http.ResponseWriter, status int, message string) {
	rn.Page(w, status, "error", &PageData{
		Title:   http.StatusText(status),
		Message: message,
	})
}
