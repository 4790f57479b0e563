// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory collaborators for handler tests so
// the HTTP contract can be checked without PostgreSQL or Valkey.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"textend/internal/content"
	"textend/internal/engine"
	"textend/internal/models"
	"textend/internal/render"
	"textend/internal/visitor"
)

// memPosts is an in-memory PostStore.
type memPosts struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*models.Post
	err   error
}

func newMemPosts(posts ...*models.Post) *memPosts {
	m := &memPosts{posts: make(map[uuid.UUID]*models.Post)}
	for _, p := range posts {
		m.posts[p.ID] = p
	}
	return m
}

func (m *memPosts) ListPublished(limit int) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Post
	for _, p := range m.posts {
		if p.IsPublished() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPosts) FindBySlug(slug string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.posts {
		if p.Slug == slug && p.IsPublished() {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memPosts) FindByID(id uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPosts) IncrementViews(id uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return 0, nil
	}
	p.ViewsNum++
	return p.ViewsNum, nil
}

func (m *memPosts) IncrementLikes(id uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return 0, nil
	}
	p.LikesNum++
	return p.LikesNum, nil
}

// memVisitors is an in-memory Visitors implementation using the real
// cookie name.
type memVisitors struct {
	mu     sync.Mutex
	next   int
	viewed map[string]bool
	liked  map[string]bool
}

func newMemVisitors() *memVisitors {
	return &memVisitors{viewed: make(map[string]bool), liked: make(map[string]bool)}
}

func (m *memVisitors) Identify(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(visitor.CookieName); err == nil {
		return c.Value, nil
	}
	m.mu.Lock()
	m.next++
	id := fmt.Sprintf("visitor-%d", m.next)
	m.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: visitor.CookieName, Value: id, Path: "/"})
	return id, nil
}

func (m *memVisitors) MarkViewed(_ context.Context, visitorID, postID string) (bool, error) {
	return m.mark(m.viewed, visitorID+"/"+postID), nil
}

func (m *memVisitors) MarkLiked(_ context.Context, visitorID, postID string) (bool, error) {
	return m.mark(m.liked, visitorID+"/"+postID), nil
}

func (m *memVisitors) HasLiked(_ context.Context, visitorID, postID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liked[visitorID+"/"+postID]
}

func (m *memVisitors) mark(set map[string]bool, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if set[key] {
		return false
	}
	set[key] = true
	return true
}

// publishedPost returns a published markdown post with the given slug.
func publishedPost(slug, body string) *models.Post {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return &models.Post{
		ID:          uuid.New(),
		Title:       "Title of " + slug,
		Slug:        slug,
		Body:        body,
		BodyFormat:  models.BodyFormatMarkdown,
		Status:      models.PostStatusPublished,
		Version:     1,
		PublishedAt: &now,
	}
}

// testEnv holds the handler groups wired to in-memory collaborators.
type testEnv struct {
	Posts    *memPosts
	Visitors *memVisitors
	Public   *Public
	Actions  *Actions
	Router   chi.Router
}

// newTestEnv wires a small router around the given posts. Stats are
// enabled so article pages carry the counters.
func newTestEnv(t *testing.T, posts ...*models.Post) *testEnv {
	t.Helper()

	renderer, err := render.New("Test Blog")
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	mp := newMemPosts(posts...)
	mv := newMemVisitors()
	eng := engine.New(content.New(content.WithStats(true)))

	env := &testEnv{
		Posts:    mp,
		Visitors: mv,
		Public:   NewPublic(eng, mp, mv, renderer),
		Actions:  NewActions(mp, mv),
	}

	r := chi.NewRouter()
	r.Get("/", env.Public.Homepage)
	r.Get("/action/likes", env.Actions.Like)
	r.Get("/{slug}", env.Public.Article)
	env.Router = r
	return env
}

// do sends a GET through the router, optionally with a visitor cookie.
func (e *testEnv) do(target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// visitorCookie extracts the visitor cookie set on a response.
func visitorCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == visitor.CookieName {
			return c
		}
	}
	t.Fatal("response did not set the visitor cookie")
	return nil
}
