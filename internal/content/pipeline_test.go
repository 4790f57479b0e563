package content

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleArticle = `<h1>Notes</h1>
<p>[x-player src="https://cdn.example.com/intro.mp4" autoplay="on" /]</p>
<p><a href="https://github.com/yuin/goldmark">goldmark</a></p>
<p>[x-bilibili id="BV1Nd4y1Q7yA" p="2" /]</p>
<p><a href="https://vimeo.com/76979871">vimeo</a></p>
<pre><code>[x-player src="https://x/y.mp4"]
https://x/raw.mp4
&lt;p&gt;</code></pre>
<p>inline <code>https://x/inline.webm</code></p>
<div class="fence fence-grid" data-columns="2"><div class="fence-content">
<p>cell<br>
two</p>
</div></div>
<div class="fence fence-masonry" data-columns="3"><div class="fence-content">
<p>first</p>
<p>second <code>a<br>b</code></p>
</div></div>
`

func TestTransformEmbedsExpandedPlayer(t *testing.T) {
	got := Transform(`<p>[x-player src="https://x/y.mp4"]</p>`, false)
	want := `<p><div class="x-video-wrapper"><iframe src="/player?url=https%3A%2F%2Fx%2Fy.mp4" allowfullscreen frameborder="0"></iframe></div></p>`
	if got != want {
		t.Errorf("Transform =\n%q\nwant\n%q", got, want)
	}
}

func TestTransformKeepsCodeBlocks(t *testing.T) {
	out := Transform(sampleArticle, true)

	_, before := Shield(sampleArticle)
	_, after := Shield(out)
	if len(before) == 0 {
		t.Fatal("sample has no code blocks")
	}
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("code blocks changed (-before +after):\n%s", diff)
	}
}

func TestTransformCodeInsideRemovedAnchor(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "code inside repository link",
			doc:  `<p><a href="https://github.com/yuin/goldmark"><code>goldmark</code></a> then <code>B</code> and <code>C</code></p>`,
			want: `<p><x-github url="https://github.com/yuin/goldmark"></x-github> then <code>B</code> and <code>C</code></p>`,
		},
		{
			name: "code inside video file link",
			doc:  `<p><a href="https://x.test/clip.mp4"><code>clip</code></a></p><pre>keep me</pre>`,
			want: `<p><div class="x-video-wrapper"><iframe src="/player?url=https%3A%2F%2Fx.test%2Fclip.mp4" allowfullscreen frameborder="0"></iframe></div></p><pre>keep me</pre>`,
		},
		{
			name: "code inside platform link",
			doc:  `<p><a href="https://vimeo.com/76979871"><code>v</code></a> <code>after</code></p>`,
			want: `<p><div class="x-video-wrapper"><iframe src="/player?url=https%3A%2F%2Fvimeo.com%2F76979871" allowfullscreen frameborder="0"></iframe></div> <code>after</code></p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transform(tt.doc, false); got != tt.want {
				t.Errorf("Transform =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestTransformSample(t *testing.T) {
	out := New(WithPlayerEndpoint("/embed/player")).Transform(sampleArticle, false)

	for _, want := range []string{
		`<iframe src="/embed/player?url=https%3A%2F%2Fcdn.example.com%2Fintro.mp4%3Fautoplay%3Dtrue"`,
		`<x-github url="https://github.com/yuin/goldmark"></x-github>`,
		`?bvid=BV1Nd4y1Q7yA&page=2&fjw=false`,
		`/embed/player?url=https%3A%2F%2Fvimeo.com%2F76979871`,
		"<div class=\"fence-content\">\ncelltwo</div>",
		`<div class="masonry-item"><div class="masonry-item-inner">first</div></div>`,
		`<div class="masonry-item-inner">second <code>a<br>b</code></div>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "[x-player") && !strings.Contains(out, "<code>[x-player") {
		t.Errorf("shortcode left outside code:\n%s", out)
	}
}

func TestTransformIdempotent(t *testing.T) {
	p := New()
	once := p.Transform(sampleArticle, false)
	twice := p.Transform(once, false)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second transform changed output (-once +twice):\n%s", diff)
	}
}

func TestTransformStats(t *testing.T) {
	s := &Stats{ContentID: "abc", Views: 10, Likes: 2}

	tests := []struct {
		name    string
		p       *Pipeline
		single  bool
		stats   *Stats
		wantHas bool
	}{
		{"single view enabled", New(WithStats(true)), true, s, true},
		{"listing view", New(WithStats(true)), false, s, false},
		{"disabled", New(), true, s, false},
		{"no stats", New(WithStats(true)), true, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.TransformWithStats("<p>body</p>", tt.single, tt.stats)
			if has := strings.Contains(got, "tex-post-stats"); has != tt.wantHas {
				t.Errorf("stats present = %v, want %v", has, tt.wantHas)
			}
			if !strings.HasPrefix(got, "<p>body</p>") {
				t.Errorf("body altered: %q", got)
			}
		})
	}
}

func TestTransformStatsIdempotent(t *testing.T) {
	p := New(WithStats(true))
	s := &Stats{ContentID: "abc"}
	once := p.TransformWithStats("<p>x</p>", true, s)
	if twice := p.TransformWithStats(once, true, s); twice != once {
		t.Error("stats appended twice")
	}
}

func TestWithPlayerEndpointIgnoresEmpty(t *testing.T) {
	if got := New(WithPlayerEndpoint("")).PlayerEndpoint(); got != DefaultPlayerEndpoint {
		t.Errorf("PlayerEndpoint = %q, want default", got)
	}
}
