// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"textend/internal/content"
	"textend/internal/engine"
	"textend/internal/models"
	"textend/internal/render"
	"textend/internal/slug"
)

// dateLayout formats publish dates on pages.
const dateLayout = "January 2, 2006"

// Public groups handlers for the public-facing site. Article bodies come
// from the engine, which owns the processed-body caches; per-visitor
// counters are resolved here on every request.
type Public struct {
	engine   *engine.Engine
	posts    PostStore
	visitors Visitors
	renderer *render.Renderer
}

// NewPublic creates a new Public handler group. visitors may be nil, in
// which case views are not counted and nothing shows as liked.
func NewPublic(eng *engine.Engine, posts PostStore, visitors Visitors, renderer *render.Renderer) *Public {
	return &Public{
		engine:   eng,
		posts:    posts,
		visitors: visitors,
		renderer: renderer,
	}
}

// Homepage renders the list of published posts with their excerpts.
func (p *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	posts, err := p.posts.ListPublished(0)
	if err != nil {
		slog.Error("list published posts failed", "error", err)
		p.renderer.Error(w, http.StatusInternalServerError, "The post list could not be loaded.")
		return
	}

	items := make([]render.PostItem, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		item := render.PostItem{
			Title:   post.Title,
			Slug:    post.Slug,
			Excerpt: template.HTML(p.engine.Excerpt(post)),
		}
		if post.PublishedAt != nil {
			item.PublishedAt = post.PublishedAt.Format(dateLayout)
		}
		items = append(items, item)
	}

	p.renderer.Page(w, http.StatusOK, "home", &render.PageData{
		Title: "Blog",
		Posts: items,
	})
}

// Article renders a single published post. The first view by a visitor
// bumps the view counter.
func (p *Public) Article(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	if !slug.Valid(slugParam) {
		p.renderer.Error(w, http.StatusNotFound, "The page you requested does not exist.")
		return
	}

	post, err := p.posts.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find post by slug failed", "error", err, "slug", slugParam)
		p.renderer.Error(w, http.StatusInternalServerError, "This article could not be loaded.")
		return
	}
	if post == nil {
		p.renderer.Error(w, http.StatusNotFound, "The page you requested does not exist.")
		return
	}

	stats := content.Stats{
		ContentID: post.ID.String(),
		Views:     post.ViewsNum,
		Likes:     post.LikesNum,
	}
	p.countView(w, r, post, &stats)

	data := &render.PageData{
		Title: post.Title,
		Article: &render.Article{
			ID:    post.ID.String(),
			Title: post.Title,
			Slug:  post.Slug,
			Body:  template.HTML(p.engine.RenderArticle(ctx, post, stats)),
		},
	}
	if post.Excerpt != nil {
		data.Description = *post.Excerpt
	}
	if post.PublishedAt != nil {
		data.Article.PublishedAt = post.PublishedAt.Format(dateLayout)
	}

	p.renderer.Page(w, http.StatusOK, "article", data)
}

// countView records the visit and fills the visitor-dependent stats.
// Failures are logged; the page is served with the stored counters.
func (p *Public) countView(w http.ResponseWriter, r *http.Request, post *models.Post, stats *content.Stats) {
	if p.visitors == nil {
		return
	}
	ctx := r.Context()

	visitorID, err := p.visitors.Identify(w, r)
	if err != nil {
		slog.Warn("visitor identify failed", "error", err)
		return
	}

	first, err := p.visitors.MarkViewed(ctx, visitorID, stats.ContentID)
	if err != nil {
		slog.Warn("mark viewed failed", "error", err, "post", stats.ContentID)
	} else if first {
		views, err := p.posts.IncrementViews(post.ID)
		if err != nil {
			slog.Warn("increment views failed", "error", err, "post", stats.ContentID)
		} else if views > 0 {
			stats.Views = views
		}
	}

	stats.Liked = p.visitors.HasLiked(ctx, visitorID, stats.ContentID)
}
