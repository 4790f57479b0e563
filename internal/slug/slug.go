// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug generates and checks the URL path segments articles are
// served under.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen is the longest slug the posts table accepts.
const MaxLen = 300

var (
	// nonAlphanumeric matches what may not appear in a slug.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// validSlug is the shape Generate produces.
	validSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// fold decomposes letters and drops the combining marks, turning "é" into
// "e". Scripts without a Latin base letter pass through unchanged.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Generate turns a title into a slug: accents folded, lower case, words
// joined by single hyphens. Characters with no ASCII form are dropped, so
// the result may be empty. Long results are cut at a hyphen to fit MaxLen.
func Generate(s string) string {
	result := strings.ToLower(fold(strings.TrimSpace(s)))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.Join(strings.Fields(result), "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLen {
		result = result[:MaxLen]
		if i := strings.LastIndexByte(result, '-'); i > 0 {
			result = result[:i]
		}
	}
	return result
}

// Valid reports whether s can be used as an article slug as is. Routes
// use it to reject obviously wrong paths before touching the database.
func Valid(s string) bool {
	return len(s) <= MaxLen && validSlug.MatchString(s)
}
