// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package player builds the standalone video page that article embeds
// load in an iframe. YouTube, Vimeo and Bilibili links are re-embedded
// through their own players; anything else plays in a native <video>
// element whose MIME type is resolved from the request, a HEAD probe or
// the file extension.
package player

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"textend/internal/content"
)

// Kind is the playback strategy for a media URL.
type Kind int

const (
	KindNative Kind = iota
	KindYouTube
	KindVimeo
	KindBilibili
)

// DefaultCaptionLang is the caption track language when none is given.
const DefaultCaptionLang = "en"

// Request is a parsed player page request.
type Request struct {
	URL         string
	MIME        string
	Poster      string
	Caption     string
	CaptionLang string
	Autoplay    bool
}

// ParseRequest reads a player request from query parameters. Autoplay is
// on when the autoplay parameter is set to anything but "" or "0", or
// when the media URL itself carries autoplay=true.
func ParseRequest(q url.Values) Request {
	req := Request{
		URL:         strings.TrimSpace(q.Get("url")),
		MIME:        q.Get("mime"),
		Poster:      q.Get("poster"),
		Caption:     q.Get("caption"),
		CaptionLang: q.Get("caption-lang"),
	}
	if req.CaptionLang == "" {
		req.CaptionLang = DefaultCaptionLang
	}
	if v := q.Get("autoplay"); v != "" && v != "0" {
		req.Autoplay = true
	}
	if u, err := url.Parse(req.URL); err == nil && content.IsTruthy(u.Query().Get("autoplay")) {
		req.Autoplay = true
	}
	return req
}

// Classify picks the playback strategy for a media URL.
func Classify(raw string) Kind {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return KindYouTube
	case strings.Contains(lower, "vimeo.com"):
		return KindVimeo
	case strings.Contains(lower, "bilibili.com"):
		return KindBilibili
	}
	return KindNative
}

// YouTubeEmbedURL converts a watch page or youtu.be link into an embed
// address. origin is the scheme and host of the page hosting the player.
func YouTubeEmbedURL(raw, origin string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	var id string
	host := strings.ToLower(u.Hostname())
	switch {
	case host == "youtu.be":
		id = strings.TrimPrefix(u.Path, "/")
	case strings.Contains(host, "youtube.com"):
		id = u.Query().Get("v")
	}
	if id == "" {
		return "", false
	}

	params := url.Values{}
	params.Set("origin", origin)
	params.Set("iv_load_policy", "3")
	params.Set("modestbranding", "1")
	params.Set("playsinline", "1")
	params.Set("showinfo", "0")
	params.Set("rel", "0")
	params.Set("enablejsapi", "1")
	return "https://www.youtube.com/embed/" + url.PathEscape(id) + "?" + params.Encode(), true
}

// VimeoEmbedURL converts a Vimeo page into an embed address using the
// last numeric path segment as the video id, so channel and group URLs
// work as well.
func VimeoEmbedURL(raw string, autoplay bool) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	segments := strings.Split(strings.TrimRight(u.Path, "/"), "/")
	var id string
	for i := len(segments) - 1; i >= 0; i-- {
		if _, err := strconv.ParseUint(segments[i], 10, 64); err == nil {
			id = segments[i]
			break
		}
	}
	if id == "" {
		return "", false
	}

	ap := "0"
	if autoplay {
		ap = "1"
	}
	return "https://player.vimeo.com/video/" + id + "?autoplay=" + ap + "&byline=0&portrait=0&title=0", true
}

// BilibiliEmbedURL converts a Bilibili watch page into the mobile player
// address.
func BilibiliEmbedURL(raw string, autoplay bool) (string, bool) {
	v, ok := content.ParseBilibiliURL(raw)
	if !ok {
		return "", false
	}
	return v.EmbedURL(autoplay), true
}

// mimeByExtension maps video file extensions to MIME types.
var mimeByExtension = map[string]string{
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"ogg":  "video/ogg",
	"ogv":  "video/ogg",
	"mov":  "video/quicktime",
	"m3u8": "application/x-mpegURL",
}

// DefaultMIME is used when nothing else identifies the media type.
const DefaultMIME = "video/mp4"

// MIMEFromExtension looks the MIME type up by the URL path's extension.
func MIMEFromExtension(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if m, ok := mimeByExtension[ext]; ok {
		return m
	}
	return DefaultMIME
}
