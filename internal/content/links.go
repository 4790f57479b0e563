// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// links.go rewrites anchors and bare URLs. Repository links become
// <x-github> markers for the card hydrator; video links are unwrapped from
// their anchors and then embedded, either directly (Bilibili) or through
// the player endpoint.
package content

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

// DefaultPlayerEndpoint is the proxy player path used when none is configured.
const DefaultPlayerEndpoint = "/player"

// VideoExtensions lists the file extensions treated as direct video links.
var VideoExtensions = []string{"mp4", "webm", "ogg", "ogv", "mov", "m3u8"}

// videoWrapperMarkers are the wrapper classes whose presence means the
// document was already embedded; the video passes then skip it entirely.
var videoWrapperMarkers = []string{"grace-links-video-wrapper", "x-video-wrapper"}

// VideoKind tells whether a link points at a file or a platform watch page.
type VideoKind int

const (
	VideoFile VideoKind = iota
	VideoPlatform
)

// VideoReference is a bare link selected for embedding.
type VideoReference struct {
	URL  string
	Kind VideoKind
}

const (
	extPattern = `mp4|webm|ogg|ogv|mov|m3u8`

	// platformPattern covers YouTube watch pages, youtu.be short links,
	// Vimeo ids and Bilibili BV/av pages, without the scheme.
	platformPattern = `(?:www\.)?(?:youtube\.com/watch\?v=[a-zA-Z0-9_-]+|youtu\.be/[a-zA-Z0-9_-]+|vimeo\.com/\d+|bilibili\.com/video/(?:BV[a-zA-Z0-9]+|av\d+)(?:/[^\s<>'"]*)?(?:\?[^\s<>'"]*)?)`
)

var (
	repoAnchorRe = regexp.MustCompile(`(?is)<a\s+[^>]*?href\s*=\s*(?:"(https?://(?:github\.com|gitee\.com)/[^"']+)"|'(https?://(?:github\.com|gitee\.com)/[^"']+)')[^>]*>.*?</a>`)

	githubLinkRe = regexp.MustCompile(`(?i)(?:git@|https?://)github\.com/([^/]+)(?:/|:)([^/\s#?]+(?:/[^/\s#?]+)*)?`)
	giteeLinkRe  = regexp.MustCompile(`(?i)https?://gitee\.com/([^/]+)/([^/\s#?]+(?:/[^/\s#?]+)*)?`)

	fileAnchorRe = regexp.MustCompile(`(?i)<a\s+[^>]*href=["']([^"']+\.(?:` + extPattern + `))["'][^>]*>.*?</a>`)

	platformAnchorRe = regexp.MustCompile(`(?i)<a\s+[^>]*href=["']((?:https?:)?//` + platformPattern + `)["'][^>]*>.*?</a>`)

	// The path may itself hold a query ("get?file=a.mp4"). A query after
	// the extension, such as the autoplay flag the x-player shortcode
	// appends, stays attached to the URL.
	bareFileRe     = `https?://[^\s<>'"]+\.(?:` + extPattern + `)(?:\?[^\s<>'"]*)?`
	bareVideoRe    = regexp.MustCompile(`(?i)` + bareFileRe + `|https?://` + platformPattern)
	bareFileOnlyRe = regexp.MustCompile(`(?i)^` + bareFileRe + `$`)
)

// RepoMarkers replaces anchors pointing at GitHub or Gitee with an
// <x-github> marker carrying the original href. Anchors whose href has no
// owner segment are left alone.
func RepoMarkers(doc string) string {
	return repoAnchorRe.ReplaceAllStringFunc(doc, func(match string) string {
		m := repoAnchorRe.FindStringSubmatch(match)
		href := firstGroup(m, 1, 2)

		re := githubLinkRe
		if strings.Contains(strings.ToLower(href), "gitee.com") {
			re = giteeLinkRe
		}
		parts := re.FindStringSubmatch(href)
		if parts == nil || parts[1] == "" {
			return match
		}
		return `<x-github url="` + html.EscapeString(href) + `"></x-github>`
	})
}

// UnwrapVideoFileLinks replaces anchors around direct video files with the
// bare href.
func UnwrapVideoFileLinks(doc string) string {
	return fileAnchorRe.ReplaceAllString(doc, "$1")
}

// UnwrapPlatformLinks replaces anchors around platform watch pages with the
// bare href, upgrading protocol-relative links to https.
func UnwrapPlatformLinks(doc string) string {
	return platformAnchorRe.ReplaceAllStringFunc(doc, func(match string) string {
		href := platformAnchorRe.FindStringSubmatch(match)[1]
		if strings.HasPrefix(href, "//") {
			return "https:" + href
		}
		return href
	})
}

// ClassifyVideo reports the reference kind for a bare video URL.
func ClassifyVideo(raw string) VideoReference {
	if bareFileOnlyRe.MatchString(raw) {
		return VideoReference{URL: raw, Kind: VideoFile}
	}
	return VideoReference{URL: raw, Kind: VideoPlatform}
}

// EmbedBareVideoLinks converts bare video URLs into embeddable markup.
// URLs inside a tag, such as attribute values, are skipped so markup
// produced by an earlier run is never wrapped twice.
func EmbedBareVideoLinks(doc, playerEndpoint string) string {
	locs := bareVideoRe.FindAllStringIndex(doc, -1)
	if len(locs) == 0 {
		return doc
	}

	var b strings.Builder
	b.Grow(len(doc))
	last := 0
	for _, loc := range locs {
		if insideTag(doc, loc[0]) {
			continue
		}
		b.WriteString(doc[last:loc[0]])
		b.WriteString(VideoEmbed(ClassifyVideo(doc[loc[0]:loc[1]]), playerEndpoint))
		last = loc[1]
	}
	b.WriteString(doc[last:])
	return b.String()
}

// insideTag reports whether pos falls between a '<' and its closing '>'.
func insideTag(doc string, pos int) bool {
	return strings.LastIndexByte(doc[:pos], '<') > strings.LastIndexByte(doc[:pos], '>')
}

// VideoEmbed renders the iframe markup for a video reference. Bilibili
// pages get a direct player; everything else goes through the proxy
// player endpoint.
func VideoEmbed(ref VideoReference, playerEndpoint string) string {
	if strings.Contains(strings.ToLower(ref.URL), "bilibili.com") {
		return BilibiliIframe(ref.URL, false)
	}
	return `<div class="x-video-wrapper">` +
		`<iframe src="` + PlayerURL(playerEndpoint, ref.URL) + `" allowfullscreen frameborder="0"></iframe>` +
		`</div>`
}

// PlayerURL returns the proxy player address for a media URL.
func PlayerURL(endpoint, mediaURL string) string {
	if endpoint == "" {
		endpoint = DefaultPlayerEndpoint
	}
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + "url=" + url.QueryEscape(mediaURL)
}

// hasVideoWrapper reports whether doc already carries embedded videos.
func hasVideoWrapper(doc string) bool {
	for _, m := range videoWrapperMarkers {
		if strings.Contains(doc, m) {
			return true
		}
	}
	return false
}

// RewriteVideoLinks runs the three video passes in order, unless the
// document was already embedded.
func RewriteVideoLinks(doc, playerEndpoint string) string {
	if hasVideoWrapper(doc) {
		return doc
	}
	doc = UnwrapVideoFileLinks(doc)
	doc = UnwrapPlatformLinks(doc)
	doc = EmbedBareVideoLinks(doc, playerEndpoint)
	return doc
}

// RewriteLinks runs the repository marker pass followed by the video passes.
func RewriteLinks(doc, playerEndpoint string) string {
	doc = RepoMarkers(doc)
	return RewriteVideoLinks(doc, playerEndpoint)
}
