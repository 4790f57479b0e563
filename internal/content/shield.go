// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// shield.go hides <pre> and <code> regions from the rewriting passes.
// Each region is swapped for an indexed placeholder and put back by index
// once every pass has run.
package content

import (
	"fmt"
	"regexp"
	"strconv"
)

// placeholderRe matches the stand-ins Shield leaves behind. Each one is a
// <pre> element so the fence and link patterns never see a bare URL or
// shortcode inside it, and carries the index of the block it hides.
var placeholderRe = regexp.MustCompile(`<pre>__BLOCK_(\d{4,})__</pre>`)

// placeholder returns the stand-in for block i.
func placeholder(i int) string {
	return fmt.Sprintf("<pre>__BLOCK_%04d__</pre>", i)
}

// opaqueRe matches block-level and inline code regions, non-greedy,
// case-insensitive and across newlines.
var opaqueRe = regexp.MustCompile(`(?is)<pre>.*?</pre>|<code>.*?</code>`)

// OpaqueBlock is a region captured by Shield.
type OpaqueBlock struct {
	Index int    // position in first-seen order
	Text  string // original bytes, restored verbatim
}

// Shield replaces every opaque region with an indexed placeholder and
// returns the captured regions in source order.
func Shield(doc string) (string, []OpaqueBlock) {
	var blocks []OpaqueBlock
	shielded := opaqueRe.ReplaceAllStringFunc(doc, func(m string) string {
		i := len(blocks)
		blocks = append(blocks, OpaqueBlock{Index: i, Text: m})
		return placeholder(i)
	})
	return shielded, blocks
}

// Unshield puts every block back in place of its own placeholder. A pass
// that dropped a placeholder (an anchor removed with the code inside it)
// loses only that block; the others keep their positions. Placeholders
// with an unknown index are left as they are.
func Unshield(doc string, blocks []OpaqueBlock) string {
	if len(blocks) == 0 {
		return doc
	}

	byIndex := make(map[int]string, len(blocks))
	for _, blk := range blocks {
		byIndex[blk.Index] = blk.Text
	}
	return placeholderRe.ReplaceAllStringFunc(doc, func(m string) string {
		i, err := strconv.Atoi(placeholderRe.FindStringSubmatch(m)[1])
		if err != nil {
			return m
		}
		if text, ok := byIndex[i]; ok {
			return text
		}
		return m
	})
}
