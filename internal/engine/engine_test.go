package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"textend/internal/cache"
	"textend/internal/content"
	"textend/internal/models"
)

// fakeHydrator counts calls and marks the document it saw.
type fakeHydrator struct {
	calls atomic.Int32
	err   error
}

func (f *fakeHydrator) Hydrate(_ context.Context, doc string) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return strings.ReplaceAll(doc, "<x-github", `<x-github data-hydrated="1"`), nil
}

// mapCache is an in-memory BodyCache.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (m *mapCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *mapCache) Set(_ context.Context, key string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = body
}

func testPost(body string) *models.Post {
	return &models.Post{
		ID:         uuid.New(),
		Title:      "Post",
		Slug:       "post-" + uuid.NewString()[:8],
		Body:       body,
		BodyFormat: models.BodyFormatMarkdown,
		Status:     models.PostStatusPublished,
		Version:    1,
	}
}

// --------------------------------------------------------------------------
// bodyCache
// --------------------------------------------------------------------------

func TestBodyCacheOperations(t *testing.T) {
	t.Run("new cache is empty", func(t *testing.T) {
		c := newBodyCache()
		if _, ok := c.get("some-id", 1); ok {
			t.Error("expected miss for empty cache lookup")
		}
	})

	t.Run("put and get", func(t *testing.T) {
		c := newBodyCache()
		c.put("id-1", 1, "<p>hello</p>")
		got, ok := c.get("id-1", 1)
		if !ok || got != "<p>hello</p>" {
			t.Errorf("get = %q, %v", got, ok)
		}
	})

	t.Run("version mismatch misses", func(t *testing.T) {
		c := newBodyCache()
		c.put("id-1", 1, "v1")
		if _, ok := c.get("id-1", 2); ok {
			t.Error("expected miss for version mismatch")
		}
	})

	t.Run("new version drops older ones", func(t *testing.T) {
		c := newBodyCache()
		c.put("id-1", 1, "v1")
		c.put("id-2", 1, "other")
		c.put("id-1", 2, "v2")

		if _, ok := c.get("id-1", 1); ok {
			t.Error("id-1 v1 should be dropped")
		}
		if got, _ := c.get("id-1", 2); got != "v2" {
			t.Errorf("id-1 v2 = %q", got)
		}
		if _, ok := c.get("id-2", 1); !ok {
			t.Error("id-2 should be kept")
		}
		if c.size() != 2 {
			t.Errorf("size = %d, want 2", c.size())
		}
	})
}

func TestBodyCacheConcurrency(t *testing.T) {
	c := newBodyCache()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.put(fmt.Sprintf("id-%d", id%3), j, "body")
			}
		}(i)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.get(fmt.Sprintf("id-%d", id%3), j)
			}
		}(i)
	}
	wg.Wait()

	if c.size() > 3 {
		t.Errorf("expected at most one version per id, got %d entries", c.size())
	}
}

// --------------------------------------------------------------------------
// Engine
// --------------------------------------------------------------------------

func TestProcess(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		format models.BodyFormat
		single bool
		want   []string
		absent []string
	}{
		{
			name:   "markdown shortcode becomes player embed",
			body:   `[x-player url="https://e.com/a.mp4"]`,
			format: models.BodyFormatMarkdown,
			single: true,
			want:   []string{`class="x-video-wrapper"`, "/player?url=https%3A%2F%2Fe.com%2Fa.mp4"},
		},
		{
			name:   "html body passes through pipeline only",
			body:   `<p>Intro</p><p>https://e.com/clip.webm</p>`,
			format: models.BodyFormatHTML,
			single: false,
			want:   []string{"<p>Intro</p>", "/player?url=https%3A%2F%2Fe.com%2Fclip.webm"},
		},
		{
			name:   "code blocks keep shortcodes",
			body:   "```\n[x-bilibili id=\"BV1xx\"]\n```",
			format: models.BodyFormatMarkdown,
			single: true,
			want:   []string{`[x-bilibili id=`},
			absent: []string{"player.bilibili.com"},
		},
		{
			name:   "markers hydrated on single view",
			body:   `<x-github url="https://github.com/yuin/goldmark"></x-github>`,
			format: models.BodyFormatHTML,
			single: true,
			want:   []string{`data-hydrated="1"`},
		},
		{
			name:   "markers left alone on list view",
			body:   `<x-github url="https://github.com/yuin/goldmark"></x-github>`,
			format: models.BodyFormatHTML,
			single: false,
			absent: []string{`data-hydrated`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := New(nil, WithHydrator(&fakeHydrator{}))
			got := eng.Process(context.Background(), tt.body, tt.format, tt.single)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(got, a) {
					t.Errorf("output should not contain %q:\n%s", a, got)
				}
			}
		})
	}
}

func TestProcessHydrationFailureKeepsMarkers(t *testing.T) {
	eng := New(nil, WithHydrator(&fakeHydrator{err: errors.New("boom")}))
	doc := `<x-github url="https://github.com/a/b"></x-github>`

	got := eng.Process(context.Background(), doc, models.BodyFormatHTML, true)
	if got != doc {
		t.Errorf("expected markers untouched, got %q", got)
	}
}

func TestArticleBodyUsesL1(t *testing.T) {
	h := &fakeHydrator{}
	eng := New(nil, WithHydrator(h))
	post := testPost("Hello")

	first := eng.ArticleBody(context.Background(), post)
	second := eng.ArticleBody(context.Background(), post)

	if first != second {
		t.Errorf("cached body differs:\n%s\n%s", first, second)
	}
	if n := h.calls.Load(); n != 1 {
		t.Errorf("hydrator calls = %d, want 1", n)
	}

	post.Version = 2
	eng.ArticleBody(context.Background(), post)
	if n := h.calls.Load(); n != 2 {
		t.Errorf("new version should reprocess, hydrator calls = %d", n)
	}
}

func TestArticleBodyUsesL2(t *testing.T) {
	shared := newMapCache()
	post := testPost("Hello *world*")

	h1 := &fakeHydrator{}
	New(nil, WithHydrator(h1), WithBodyCache(shared)).ArticleBody(context.Background(), post)

	key := cache.ArticleKey(post.Slug, post.Version)
	stored, ok := shared.Get(context.Background(), key)
	if !ok || !strings.Contains(string(stored), "<em>world</em>") {
		t.Fatalf("L2 entry %q = %q, %v", key, stored, ok)
	}

	// A second engine (another process) reads from L2 without processing.
	h2 := &fakeHydrator{}
	got := New(nil, WithHydrator(h2), WithBodyCache(shared)).ArticleBody(context.Background(), post)
	if got != string(stored) {
		t.Errorf("L2 hit body = %q, want %q", got, stored)
	}
	if n := h2.calls.Load(); n != 0 {
		t.Errorf("L2 hit should not hydrate, calls = %d", n)
	}
}

func TestRenderArticleStats(t *testing.T) {
	post := testPost("Body")
	post.ViewsNum = 7
	stats := content.Stats{Views: 7, Likes: 3, Liked: true}

	t.Run("stats enabled", func(t *testing.T) {
		eng := New(content.New(content.WithStats(true)))
		got := eng.RenderArticle(context.Background(), post, stats)
		if !strings.Contains(got, `class="tex-post-stats"`) {
			t.Fatalf("stats block missing:\n%s", got)
		}
		if !strings.Contains(got, `data-cid="`+post.ID.String()+`"`) {
			t.Errorf("stats block should default ContentID to the post id:\n%s", got)
		}
		if !strings.Contains(got, "tex-liked") {
			t.Errorf("liked state missing:\n%s", got)
		}

		// The cached body stays free of per-visitor stats.
		if body := eng.ArticleBody(context.Background(), post); strings.Contains(body, "tex-post-stats") {
			t.Errorf("cached body contains stats:\n%s", body)
		}
	})

	t.Run("stats disabled", func(t *testing.T) {
		eng := New(content.New())
		got := eng.RenderArticle(context.Background(), post, stats)
		if strings.Contains(got, "tex-post-stats") {
			t.Errorf("stats block should be absent:\n%s", got)
		}
	})
}

func TestExcerpt(t *testing.T) {
	eng := New(nil)

	t.Run("explicit excerpt", func(t *testing.T) {
		post := testPost("Long body")
		ex := "Short *summary*"
		post.Excerpt = &ex
		if got := eng.Excerpt(post); !strings.Contains(got, "<em>summary</em>") {
			t.Errorf("Excerpt = %q", got)
		}
	})

	t.Run("first paragraph of body", func(t *testing.T) {
		post := testPost("First paragraph.\n\nSecond paragraph.")
		got := eng.Excerpt(post)
		if !strings.Contains(got, "First paragraph.") || strings.Contains(got, "Second") {
			t.Errorf("Excerpt = %q", got)
		}
	})

	t.Run("long paragraph truncated", func(t *testing.T) {
		post := testPost(strings.Repeat("word ", 100))
		got := eng.Excerpt(post)
		if !strings.Contains(got, "…") {
			t.Errorf("expected ellipsis in %q", got)
		}
	})
}
