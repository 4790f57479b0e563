// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// BilibiliPlayerBase is the embeddable mobile player all Bilibili iframes
// point at.
const BilibiliPlayerBase = "https://www.bilibili.com/blackboard/html5mobileplayer.html"

var (
	bvidPathRe = regexp.MustCompile(`(?i)/video/(BV[a-zA-Z0-9]+)`)
	aidPathRe  = regexp.MustCompile(`(?i)/video/av(\d+)`)
)

// BilibiliVideo identifies a single Bilibili video page.
type BilibiliVideo struct {
	IDType string // "bvid" or "aid"
	ID     string
	Page   int
}

// ParseBilibiliURL extracts the video identifier and page number from a
// watch URL. It reports false when the path carries neither a BV nor an
// av identifier.
func ParseBilibiliURL(raw string) (BilibiliVideo, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return BilibiliVideo{}, false
	}

	v := BilibiliVideo{Page: 1}
	if m := bvidPathRe.FindStringSubmatch(u.Path); m != nil {
		v.IDType, v.ID = "bvid", m[1]
	} else if m := aidPathRe.FindStringSubmatch(u.Path); m != nil {
		v.IDType, v.ID = "aid", m[1]
	} else {
		return BilibiliVideo{}, false
	}

	if p := u.Query().Get("p"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			v.Page = n
		}
	}
	return v, true
}

// EmbedURL returns the player URL for the video.
func (v BilibiliVideo) EmbedURL(autoplay bool) string {
	return BilibiliPlayerBase + "?" + v.IDType + "=" + v.ID +
		"&page=" + strconv.Itoa(v.Page) +
		"&fjw=" + strconv.FormatBool(autoplay)
}

// BilibiliIframe renders the direct iframe card for a Bilibili watch URL.
// Input it cannot classify is returned unchanged.
func BilibiliIframe(raw string, autoplay bool) string {
	v, ok := ParseBilibiliURL(raw)
	if !ok {
		return raw
	}

	var b strings.Builder
	b.WriteString(`<div class="bilibili-player-wrapper">`)
	b.WriteString(`<iframe src="`)
	b.WriteString(v.EmbedURL(autoplay))
	b.WriteString(`" allowfullscreen allowtransparency scrolling="no" border="0" frameborder="0" framespacing="0"></iframe>`)
	b.WriteString(`</div>`)
	return b.String()
}
