// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// fence.go normalizes the layout fences rendered from ::: blocks. The
// Markdown renderer wraps every paragraph in <p> and every soft break in
// <br>; grid and masonry layouts need their children bare.
package content

import (
	"regexp"
	"strings"
)

// FenceVariant names a layout fence.
type FenceVariant string

const (
	FenceGrid    FenceVariant = "grid"
	FenceMasonry FenceVariant = "masonry"
)

// FenceBlock is one matched fence container.
type FenceBlock struct {
	Variant FenceVariant
	Inner   string            // captured fence-content region
	Attrs   map[string]string // data-* attributes of the container
}

var (
	// Nested containers of the same variant are not supported: the inner
	// capture stops at the first closing </div>.
	gridFenceRe    = regexp.MustCompile(`(?s)<div class="fence fence-grid"([^>]*)>.*?<div class="fence-content">(.*?)</div>`)
	masonryFenceRe = regexp.MustCompile(`(?s)<div class="fence fence-masonry"([^>]*)>.*?<div class="fence-content">(.*?)</div>`)

	paragraphWrapRe = regexp.MustCompile(`</?p>\n?|<br>\n?`)
	blankLineRe     = regexp.MustCompile(`\n\s*\n`)
	emptyParagraph  = regexp.MustCompile(`<p>\s*</p>`)
	dataAttrRe      = regexp.MustCompile(`data-([a-zA-Z0-9-]+)\s*=\s*"([^"]*)"`)
)

const masonryWrapperOpen = `<div class="masonry-wrapper">`

// fenceAttrs collects the data-* attributes from a container's open tag.
func fenceAttrs(tag string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range dataAttrRe.FindAllStringSubmatch(tag, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

// replaceFences runs fn over every container matched by re and splices
// the result back in place of the captured inner region only.
func replaceFences(doc string, re *regexp.Regexp, variant FenceVariant, fn func(FenceBlock) string) string {
	locs := re.FindAllStringSubmatchIndex(doc, -1)
	if len(locs) == 0 {
		return doc
	}

	var b strings.Builder
	b.Grow(len(doc))
	last := 0
	for _, loc := range locs {
		// loc[2:4] is the open tag tail, loc[4:6] the inner region.
		blk := FenceBlock{
			Variant: variant,
			Inner:   doc[loc[4]:loc[5]],
			Attrs:   fenceAttrs(doc[loc[2]:loc[3]]),
		}
		b.WriteString(doc[last:loc[4]])
		b.WriteString(fn(blk))
		last = loc[5]
	}
	b.WriteString(doc[last:])
	return b.String()
}

// NormalizeGrid strips paragraph and line-break wrappers from grid fences.
func NormalizeGrid(doc string) string {
	return replaceFences(doc, gridFenceRe, FenceGrid, func(blk FenceBlock) string {
		return paragraphWrapRe.ReplaceAllString(blk.Inner, "")
	})
}

// NormalizeMasonry splits masonry fences on blank lines and wraps each
// non-empty item for the masonry layout script.
func NormalizeMasonry(doc string) string {
	return replaceFences(doc, masonryFenceRe, FenceMasonry, func(blk FenceBlock) string {
		if strings.HasPrefix(strings.TrimSpace(blk.Inner), masonryWrapperOpen) {
			return blk.Inner
		}
		return MasonryItems(blk.Inner)
	})
}

// MasonryItems converts the raw inner HTML of a masonry fence into the
// wrapped item list.
func MasonryItems(inner string) string {
	inner = paragraphWrapRe.ReplaceAllString(inner, "\n")

	var items []string
	for _, item := range blankLineRe.Split(inner, -1) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		items = append(items, `<div class="masonry-item"><div class="masonry-item-inner">`+item+`</div></div>`)
	}

	wrapped := strings.Join(items, "\n")
	wrapped = emptyParagraph.ReplaceAllString(wrapped, "")
	return masonryWrapperOpen + wrapped + `</div>`
}

// NormalizeFences applies the grid and then the masonry normalization.
func NormalizeFences(doc string) string {
	doc = NormalizeGrid(doc)
	doc = NormalizeMasonry(doc)
	return doc
}
