package markdown

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPreprocessFences(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		want     string
		wantRaws []string
	}{
		{
			name: "grid with attributes",
			in:   "::: grid {columns: 2, gap: 16px}\na\n\nb\n:::",
			want: "\n<div class=\"fence fence-grid\" data-columns=\"2\" data-gap=\"16px\"><div class=\"fence-content\">\n\na\n\nb\n\n</div></div>\n",
		},
		{
			name: "callout",
			in:   "::: warning\nCareful.\n:::",
			want: "\n<div class=\"fence fence-warning\"><div class=\"fence-content\">\n\nCareful.\n\n</div></div>\n",
		},
		{
			name: "details open with title",
			in:   "::: details:open Show <more>\nhidden\n:::",
			want: "\n<details class=\"fence fence-details\" open><summary>Show &lt;more&gt;</summary><div class=\"fence-content\">\n\nhidden\n\n</div></details>\n",
		},
		{
			name:     "raw",
			in:       "::: raw\n<b>x</b>\n\n*y*\n:::",
			want:     "\n<!--textend-raw:0-->\n",
			wantRaws: []string{"<b>x</b>\n\n*y*"},
		},
		{
			name: "fence inside code block untouched",
			in:   "```\n::: grid\n:::\n```",
			want: "```\n::: grid\n:::\n```",
		},
		{
			name: "unknown fence kept",
			in:   "::: tabs\nx\n:::",
			want: "::: tabs\nx\n:::",
		},
		{
			name: "unclosed fence closed at end",
			in:   "::: tip\nx",
			want: "\n<div class=\"fence fence-tip\"><div class=\"fence-content\">\n\nx\n\n</div></div>\n",
		},
		{
			name: "nested",
			in:   "::: masonry\n::: info\nx\n:::\n:::",
			want: "\n<div class=\"fence fence-masonry\"><div class=\"fence-content\">\n\n\n<div class=\"fence fence-info\"><div class=\"fence-content\">\n\nx\n\n</div></div>\n\n\n</div></div>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, raws := PreprocessFences(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PreprocessFences mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRaws, raws); diff != "" {
				t.Errorf("raws mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDataAttrs(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Title", ""},
		{"{columns: 3}", ` data-columns="3"`},
		{`{gap: "8px", bad key: 1, on:"x<y"}`, ` data-gap="8px" data-on="x&lt;y"`},
	}
	for _, tt := range tests {
		if got := dataAttrs(tt.in); got != tt.want {
			t.Errorf("dataAttrs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRestoreRaw(t *testing.T) {
	got := RestoreRaw("<p>a</p>\n<!--textend-raw:0-->\n<!--textend-raw:7-->\n", []string{"<b>x</b>"})
	want := "<p>a</p>\n<div class=\"fence fence-raw\"><b>x</b></div>\n<!--textend-raw:7-->\n"
	if got != want {
		t.Errorf("RestoreRaw = %q, want %q", got, want)
	}
}

func TestToHTMLFences(t *testing.T) {
	src := "# Gallery\n\n::: grid {columns: 2}\nfirst\nline\n\nsecond\n:::\n\n::: raw\n*kept*\n:::\n"

	got, err := ToHTML(src)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}

	for _, want := range []string{
		`<h1 id="gallery">Gallery</h1>`,
		`<div class="fence fence-grid" data-columns="2"><div class="fence-content">`,
		"<p>first<br>\nline</p>",
		"<p>second</p>",
		`</div></div>`,
		`<div class="fence fence-raw">*kept*</div>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
}

func TestToHTMLKeepsShortcodeQuotes(t *testing.T) {
	got, err := ToHTML(`[x-player src="https://x/y.mp4" autoplay="on" /]`)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(got, `src="https://x/y.mp4" autoplay="on"`) {
		t.Errorf("shortcode quotes altered: %s", got)
	}
}

func TestUnescapeShortcodes(t *testing.T) {
	in := `<p>[x-bilibili id=&quot;BV1x&quot; p=&quot;2&quot;] and &quot;quoted&quot; text</p>`
	want := `<p>[x-bilibili id="BV1x" p="2"] and &quot;quoted&quot; text</p>`
	if got := unescapeShortcodes(in); got != want {
		t.Errorf("unescapeShortcodes = %q, want %q", got, want)
	}
}
