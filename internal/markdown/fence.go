// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	// "::: grid {columns: 2}", "::: details:open Title", "::: raw"
	fenceOpenPattern  = regexp.MustCompile(`^:::\s*([a-zA-Z]+)(:open)?(?:\s+(.*?))?\s*$`)
	fenceClosePattern = regexp.MustCompile(`^:::\s*$`)

	// Fenced code block delimiter (backticks or tildes)
	fencedCodeBlock = regexp.MustCompile("^\\s{0,3}(```|~~~)")

	attrKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

	rawPlaceholderPattern = regexp.MustCompile(`<!--textend-raw:(\d+)-->\n?`)
)

// boxFences render as a plain two-level container.
var boxFences = map[string]bool{
	"grid":    true,
	"masonry": true,
	"info":    true,
	"success": true,
	"warning": true,
	"danger":  true,
	"tip":     true,
}

// fenceFrame is an open ::: block.
type fenceFrame struct {
	name  string
	close string
	raw   *strings.Builder
}

// PreprocessFences converts ::: blocks into HTML wrappers that goldmark
// passes through, leaving the content between them to be rendered as
// Markdown. Raw blocks are cut out and returned separately; RestoreRaw
// puts them back after rendering. Lines inside code fences are copied as
// they are.
func PreprocessFences(source string) (string, []string) {
	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))

	var (
		stack  []fenceFrame
		raws   []string
		inCode bool
	)

	for _, line := range lines {
		top := len(stack) - 1

		// Raw blocks swallow everything up to their own closing line.
		if top >= 0 && stack[top].raw != nil {
			if fenceClosePattern.MatchString(line) {
				raws = append(raws, strings.TrimSuffix(stack[top].raw.String(), "\n"))
				out = append(out, "", fmt.Sprintf("<!--textend-raw:%d-->", len(raws)-1), "")
				stack = stack[:top]
				continue
			}
			stack[top].raw.WriteString(line + "\n")
			continue
		}

		if fencedCodeBlock.MatchString(line) {
			inCode = !inCode
			out = append(out, line)
			continue
		}
		if inCode {
			out = append(out, line)
			continue
		}

		if fenceClosePattern.MatchString(line) && top >= 0 {
			out = append(out, "", stack[top].close, "")
			stack = stack[:top]
			continue
		}

		m := fenceOpenPattern.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}

		name := strings.ToLower(m[1])
		open, rest := m[2] != "", strings.TrimSpace(m[3])
		switch {
		case name == "raw":
			stack = append(stack, fenceFrame{name: name, raw: &strings.Builder{}})
		case name == "details":
			openAttr := ""
			if open {
				openAttr = " open"
			}
			out = append(out, "",
				`<details class="fence fence-details"`+openAttr+`><summary>`+html.EscapeString(rest)+`</summary><div class="fence-content">`,
				"")
			stack = append(stack, fenceFrame{name: name, close: `</div></details>`})
		case boxFences[name]:
			out = append(out, "",
				`<div class="fence fence-`+name+`"`+dataAttrs(rest)+`><div class="fence-content">`,
				"")
			stack = append(stack, fenceFrame{name: name, close: `</div></div>`})
		default:
			out = append(out, line)
		}
	}

	// Unclosed fences end with the document.
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].raw != nil {
			raws = append(raws, strings.TrimSuffix(stack[i].raw.String(), "\n"))
			out = append(out, "", fmt.Sprintf("<!--textend-raw:%d-->", len(raws)-1), "")
			continue
		}
		out = append(out, "", stack[i].close, "")
	}

	return strings.Join(out, "\n"), raws
}

// dataAttrs turns "{columns: 3, gap: 16px}" into data-* attributes.
// Malformed pairs are dropped.
func dataAttrs(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") || !strings.HasSuffix(raw, "}") {
		return ""
	}
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "{"), "}")

	var b strings.Builder
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.Trim(strings.TrimSpace(v), `"'`)
		if !attrKeyPattern.MatchString(k) {
			continue
		}
		b.WriteString(` data-` + k + `="` + html.EscapeString(v) + `"`)
	}
	return b.String()
}

// RestoreRaw replaces raw block placeholders in rendered HTML with their
// verbatim content.
func RestoreRaw(rendered string, raws []string) string {
	if len(raws) == 0 {
		return rendered
	}
	return rawPlaceholderPattern.ReplaceAllStringFunc(rendered, func(m string) string {
		i, err := strconv.Atoi(rawPlaceholderPattern.FindStringSubmatch(m)[1])
		if err != nil || i >= len(raws) {
			return m
		}
		return `<div class="fence fence-raw">` + raws[i] + "</div>\n"
	})
}
