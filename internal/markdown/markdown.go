// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts article Markdown into HTML using goldmark.
// Unsafe HTML passes through so shortcodes, hand-written embeds and the
// ::: layout fences survive rendering for the content pipeline.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM, // tables, strikethrough, autolinks, task lists
		// Dashes and ellipses only: curly quotes would break shortcode
		// attribute values.
		extension.NewTypographer(
			extension.WithTypographicSubstitutions(extension.TypographicSubstitutions{
				extension.LeftSingleQuote:  nil,
				extension.RightSingleQuote: nil,
				extension.LeftDoubleQuote:  nil,
				extension.RightDoubleQuote: nil,
				extension.Apostrophe:       nil,
			}),
		),
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(), // soft breaks become <br>, which the fence normalizer strips
		html.WithUnsafe(),
	),
)

// ToHTML converts Markdown source into HTML. ::: fences are expanded
// first, raw fences are restored verbatim after conversion.
func ToHTML(source string) (string, error) {
	pre, raws := PreprocessFences(source)

	var buf bytes.Buffer
	if err := md.Convert([]byte(pre), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return RestoreRaw(unescapeShortcodes(buf.String()), raws), nil
}

// shortcodePattern matches a rendered [x-player ...] or [x-bilibili ...]
// token. goldmark escapes quotes in text, which the shortcode expander
// does not read.
var shortcodePattern = regexp.MustCompile(`\[x-(?:player|bilibili)\s[^\]]*\]`)

var shortcodeUnescaper = strings.NewReplacer("&quot;", `"`, "&amp;", "&")

func unescapeShortcodes(rendered string) string {
	return shortcodePattern.ReplaceAllStringFunc(rendered, shortcodeUnescaper.Replace)
}
