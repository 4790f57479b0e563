// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// shortcode.go expands the bracketed media shortcodes left behind by the
// editor: [x-player ...] becomes a bare URL that the link passes embed
// later, [x-bilibili ...] becomes a Bilibili iframe directly.
package content

import (
	"regexp"
	"strconv"
	"strings"
)

// ShortcodeKind names a shortcode dialect.
type ShortcodeKind string

const (
	ShortcodeVideoPlayer   ShortcodeKind = "x-player"
	ShortcodeBilibiliEmbed ShortcodeKind = "x-bilibili"
)

// ShortcodeToken is one parsed shortcode occurrence.
type ShortcodeToken struct {
	Kind  ShortcodeKind
	Attrs map[string]string
}

// quoted matches a required "..." or '...' value; RE2 has no
// backreferences so each quote style gets its own group.
const (
	quoted         = `(?:"([^"']+)"|'([^"']+)')`
	optionalQuoted = `(?:"([^"'\s/]+)"|'([^"'\s/]+)'|([^"'\s/]+))`
	optionalDigits = `(?:"(\d+)"|'(\d+)'|(\d+))`
)

var (
	xPlayerRe = regexp.MustCompile(`(?i)\[x-player\s+src\s*=\s*` + quoted +
		`(?:\s+autoplay\s*=\s*` + optionalQuoted + `)?\s*/?\]`)

	xBilibiliRe = regexp.MustCompile(`(?i)\[x-bilibili\s+id\s*=\s*` + quoted +
		`(?:\s+p\s*=\s*` + optionalDigits + `)?` +
		`(?:\s+autoplay\s*=\s*` + optionalQuoted + `)?\s*/?\]`)

	bvidRe = regexp.MustCompile(`(?i)^BV[a-zA-Z0-9]+$`)
	aidRe  = regexp.MustCompile(`(?i)^av(\d+)$`)
)

// truthy is the set of autoplay values that switch autoplay on.
var truthy = map[string]bool{"true": true, "on": true, "yes": true, "1": true}

// IsTruthy reports whether v, compared case-insensitively, enables a flag.
func IsTruthy(v string) bool {
	return truthy[strings.ToLower(v)]
}

// firstGroup returns the first non-empty submatch among groups.
func firstGroup(m []string, groups ...int) string {
	for _, g := range groups {
		if g < len(m) && m[g] != "" {
			return m[g]
		}
	}
	return ""
}

// parseXPlayer turns a regex match of xPlayerRe into a token.
func parseXPlayer(m []string) ShortcodeToken {
	tok := ShortcodeToken{Kind: ShortcodeVideoPlayer, Attrs: map[string]string{
		"src": firstGroup(m, 1, 2),
	}}
	if ap := firstGroup(m, 3, 4, 5); ap != "" {
		tok.Attrs["autoplay"] = ap
	}
	return tok
}

// parseXBilibili turns a regex match of xBilibiliRe into a token.
func parseXBilibili(m []string) ShortcodeToken {
	tok := ShortcodeToken{Kind: ShortcodeBilibiliEmbed, Attrs: map[string]string{
		"id": firstGroup(m, 1, 2),
	}}
	if p := firstGroup(m, 3, 4, 5); p != "" {
		tok.Attrs["p"] = p
	}
	if ap := firstGroup(m, 6, 7, 8); ap != "" {
		tok.Attrs["autoplay"] = ap
	}
	return tok
}

// ExpandXPlayer rewrites [x-player src="URL" autoplay="on" /] into the bare
// URL, appending autoplay=true when requested.
func ExpandXPlayer(doc string) string {
	return xPlayerRe.ReplaceAllStringFunc(doc, func(match string) string {
		tok := parseXPlayer(xPlayerRe.FindStringSubmatch(match))
		u := tok.Attrs["src"]
		if IsTruthy(tok.Attrs["autoplay"]) {
			sep := "?"
			if strings.Contains(u, "?") {
				sep = "&"
			}
			u += sep + "autoplay=true"
		}
		return u
	})
}

// ExpandXBilibili rewrites [x-bilibili id="BV..." p="2" /] into a Bilibili
// iframe. Ids that are neither BV nor av identifiers are left as written.
func ExpandXBilibili(doc string) string {
	return xBilibiliRe.ReplaceAllStringFunc(doc, func(match string) string {
		tok := parseXBilibili(xBilibiliRe.FindStringSubmatch(match))
		watch, ok := bilibiliWatchURL(tok)
		if !ok {
			return match
		}
		return BilibiliIframe(watch, IsTruthy(tok.Attrs["autoplay"]))
	})
}

// bilibiliWatchURL builds the canonical watch URL for a token.
func bilibiliWatchURL(tok ShortcodeToken) (string, bool) {
	id := tok.Attrs["id"]

	var path string
	switch {
	case bvidRe.MatchString(id):
		path = id
	case aidRe.MatchString(id):
		path = "av" + aidRe.FindStringSubmatch(id)[1]
	default:
		return "", false
	}

	page := 1
	if p, err := strconv.Atoi(tok.Attrs["p"]); err == nil {
		page = p
	}

	watch := "https://www.bilibili.com/video/" + path
	if page > 1 {
		watch += "?p=" + strconv.Itoa(page)
	}
	return watch, true
}

// ExpandShortcodes applies every dialect in its fixed order.
func ExpandShortcodes(doc string) string {
	doc = ExpandXPlayer(doc)
	doc = ExpandXBilibili(doc)
	return doc
}
