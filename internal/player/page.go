// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package player

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultAssetsBase serves the Plyr stylesheet and script.
const DefaultAssetsBase = "https://cdn.plyr.io/3.7.8"

// probeTimeout bounds the HEAD request used to detect a MIME type.
const probeTimeout = 5 * time.Second

var pageTemplate = template.Must(template.New("player").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, user-scalable=no, initial-scale=1.0, maximum-scale=1.0, minimum-scale=1.0, shrink-to-fit=no, viewport-fit=cover">
<title>Video Player</title>
<link href="{{.Assets}}/plyr.css" rel="stylesheet">
<style>
* { margin: 0; padding: 0; outline: none; text-decoration: none; -webkit-tap-highlight-color: transparent; }
html, body, #player { width: 100%; height: 100%; overflow: hidden; }
</style>
</head>
<body>
{{- if .Missing}}
<h1>Please provide a video URL</h1>
{{- else if .Embed}}
<div class="plyr__video-embed" id="player">
<iframe src="{{.Embed}}" allowfullscreen allowtransparency{{if .Autoplay}} allow="autoplay"{{end}}></iframe>
</div>
{{- else}}
<video id="player" playsinline controls{{if .Poster}} data-poster="{{.Poster}}"{{end}}>
<source src="{{.URL}}" type="{{.MIME}}">
{{- if .Caption}}
<track kind="captions" label="Captions" src="{{.Caption}}" srclang="{{.CaptionLang}}" default>
{{- end}}
</video>
<script src="{{.Assets}}/plyr.polyfilled.js"></script>
<script>
document.addEventListener('DOMContentLoaded', function () {
  new Plyr('#player', {
    controls: ['play', 'progress', 'current-time', 'mute', 'volume', 'fullscreen'],
    autoplay: {{.Autoplay}},
    keyboard: { focused: true, global: false },
    tooltips: { controls: true },
    hideControls: false
  });
});
</script>
{{- end}}
</body>
</html>
`))

// pageData is the template input of a player page.
type pageData struct {
	Request
	Assets  string
	Missing bool
	Embed   string
}

// Player renders player pages.
type Player struct {
	client *http.Client
	assets string
	probe  bool
}

// Option configures a Player.
type Option func(*Player)

// WithHTTPClient replaces the client used for MIME probes.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Player) { p.client = c }
}

// WithAssetsBase sets where plyr.css and plyr.polyfilled.js are served from.
func WithAssetsBase(base string) Option {
	return func(p *Player) {
		if base != "" {
			p.assets = strings.TrimRight(base, "/")
		}
	}
}

// WithProbe turns the HEAD probe on or off.
func WithProbe(enabled bool) Option {
	return func(p *Player) { p.probe = enabled }
}

// New creates a Player.
func New(opts ...Option) *Player {
	p := &Player{
		client: &http.Client{Timeout: probeTimeout},
		assets: DefaultAssetsBase,
		probe:  true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ResolveMIME returns the media type for req: the explicit mime parameter,
// then the Content-Type of a successful HEAD probe, then the extension
// table.
func (p *Player) ResolveMIME(ctx context.Context, req Request) string {
	if req.MIME != "" {
		return req.MIME
	}
	if p.probe {
		if m := p.probeMIME(ctx, req.URL); m != "" {
			return m
		}
	}
	return MIMEFromExtension(req.URL)
}

// probeMIME asks the media host for the Content-Type. Any failure yields "".
func (p *Player) probeMIME(ctx context.Context, mediaURL string) string {
	if !strings.HasPrefix(mediaURL, "http://") && !strings.HasPrefix(mediaURL, "https://") {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, mediaURL, nil)
	if err != nil {
		return ""
	}
	resp, err := p.client.Do(req)
	if err != nil {
		slog.Debug("mime probe failed", "url", mediaURL, "error", err)
		return ""
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}
	return resp.Header.Get("Content-Type")
}

// Render writes the player page for req. origin is the scheme and host
// the page is served from, passed on to YouTube.
func (p *Player) Render(ctx context.Context, w io.Writer, req Request, origin string) error {
	data := pageData{Request: req, Assets: p.assets}

	switch {
	case req.URL == "":
		data.Missing = true
	default:
		var (
			embed string
			ok    bool
		)
		switch Classify(req.URL) {
		case KindYouTube:
			embed, ok = YouTubeEmbedURL(req.URL, origin)
		case KindVimeo:
			embed, ok = VimeoEmbedURL(req.URL, req.Autoplay)
		case KindBilibili:
			embed, ok = BilibiliEmbedURL(req.URL, req.Autoplay)
		}
		if ok {
			data.Embed = embed
		} else {
			data.MIME = p.ResolveMIME(ctx, req)
		}
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render player page: %w", err)
	}
	return nil
}
