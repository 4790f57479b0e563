// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"title with year", "Hello, World! 2026", "hello-world-2026"},
		{"mixed case", "Rendering Shortcodes In Go", "rendering-shortcodes-in-go"},
		{"shortcode in title", "Using [x-player] tags", "using-x-player-tags"},
		{"code punctuation", "func (e *Engine) Process()", "func-e-engine-process"},
		{"version number", "goldmark v1.7 notes", "goldmark-v17-notes"},
		{"accents folded", "Café crème brûlée", "cafe-creme-brulee"},
		{"umlauts folded", "Über Jürgen", "uber-jurgen"},
		{"cjk dropped", "Bilibili 视频 embed", "bilibili-embed"},
		{"only cjk", "你好世界", ""},
		{"emoji dropped", "Ship it 🚀 today", "ship-it-today"},
		{"surrounding whitespace", "  padded title \t", "padded-title"},
		{"newlines and tabs", "line\none\ttwo", "line-one-two"},
		{"hyphen runs", "a -- b---c", "a-b-c"},
		{"leading and trailing hyphens", "--edge--", "edge"},
		{"empty", "", ""},
		{"punctuation only", "!@#$%", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if got != "" && !Valid(got) {
				t.Errorf("Generate(%q) = %q is not Valid", tt.input, got)
			}
			if again := Generate(got); again != got {
				t.Errorf("Generate is not stable: %q -> %q", got, again)
			}
		})
	}
}

func TestGenerateMaxLen(t *testing.T) {
	title := strings.Repeat("article ", 60)
	got := Generate(title)

	if len(got) > MaxLen {
		t.Fatalf("len = %d, want <= %d", len(got), MaxLen)
	}
	if strings.HasSuffix(got, "-") || !strings.HasSuffix(got, "article") {
		t.Errorf("should be cut at a word boundary, ends with %q", got[len(got)-10:])
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"hello-textend", true},
		{"2026", true},
		{"a", true},
		{"", false},
		{"Hello", false},
		{"-lead", false},
		{"trail-", false},
		{"double--hyphen", false},
		{"with space", false},
		{"favicon.ico", false},
		{"café", false},
		{strings.Repeat("a", MaxLen), true},
		{strings.Repeat("a", MaxLen+1), false},
	}

	for _, tt := range tests {
		if got := Valid(tt.slug); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}
