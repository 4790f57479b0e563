// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// render.go builds card markup from API payloads. Remote strings are
// stripped of markup and then escaped by html/template.
package cards

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// Owner is the owner block of a repository payload.
type Owner struct {
	Login   string `json:"login"`
	HTMLURL string `json:"html_url"`
}

// Repository is the subset of a repository payload rendered in a card.
type Repository struct {
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	ForksCount      int    `json:"forks_count"`
	StargazersCount int    `json:"stargazers_count"`
	Owner           Owner  `json:"owner"`
}

// User is the subset of a user payload rendered in a card.
type User struct {
	Login   string `json:"login"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

var strict = bluemonday.StrictPolicy()

// plain reduces remote text to unescaped plain text; html/template does
// the escaping on output.
func plain(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}

const (
	githubIcon template.HTML = `<svg width="20" height="20" fill="none" stroke="currentColor" viewBox="0 0 496 512" xmlns="http://www.w3.org/2000/svg"><path fill="currentColor" d="M165.9 397.4c0 2-2.3 3.6-5.2 3.6-3.3.3-5.6-1.3-5.6-3.6 0-2 2.3-3.6 5.2-3.6 3-.3 5.6 1.3 5.6 3.6zm-31.1-4.5c-.7 2 1.3 4.3 4.3 4.9 2.6 1 5.6 0 6.2-2s-1.3-4.3-4.3-5.2c-2.6-.7-5.5.3-6.2 2.3zm44.2-1.7c-2.9.7-4.9 2.6-4.6 4.9.3 2 2.9 3.3 5.9 2.6 2.9-.7 4.9-2.6 4.6-4.6-.3-1.9-3-3.2-5.9-2.9zM244.8 8C106.1 8 0 113.3 0 252c0 110.9 69.8 205.8 169.5 239.2 12.8 2.3 17.3-5.6 17.3-12.1 0-6.2-.3-40.4-.3-61.4 0 0-70 15-84.7-29.8 0 0-11.4-29.1-27.8-36.6 0 0-22.9-15.7 1.6-15.4 0 0 24.9 2 38.6 25.8 21.9 38.6 58.6 27.5 72.9 20.9 2.3-16 8.8-27.1 16-33.7-55.9-6.2-112.3-14.3-112.3-110.5 0-27.5 7.6-41.3 23.6-58.9-2.6-6.5-11.1-33.3 2.6-67.9 20.9-6.5 69 27 69 27 20-5.6 41.5-8.5 62.8-8.5s42.8 2.9 62.8 8.5c0 0 48.1-33.6 69-27 13.7 34.7 5.2 61.4 2.6 67.9 16 17.7 25.8 31.5 25.8 58.9 0 96.5-58.9 104.3-114.8 110.5 9.2 8 17.3 23.2 17.3 47.1 0 33.7-.3 74.9-.3 82.7 0 6.5 4.6 14.7 17.6 12.1C426.2 457.9 496 362.9 496 252 496 113.3 383.5 8 244.8 8z"/></svg>`
	giteeIcon  template.HTML = `<svg fill="#C71D23" width="16px" height="16px" viewBox="0 0 24 24" role="img" xmlns="http://www.w3.org/2000/svg"><path d="M11.984 0A12 12 0 0 0 0 12a12 12 0 0 0 12 12 12 12 0 0 0 12-12A12 12 0 0 0 12 0a12 12 0 0 0-.016 0zm6.09 5.333c.328 0 .593.266.592.593v1.482a.594.594 0 0 1-.593.592H9.777c-.982 0-1.778.796-1.778 1.778v5.63c0 .327.266.592.593.592h5.63c.982 0 1.778-.796 1.778-1.778v-.296a.593.593 0 0 0-.592-.593h-4.15a.592.592 0 0 1-.592-.592v-1.482a.593.593 0 0 1 .593-.592h6.815c.327 0 .593.265.593.592v3.408a4 4 0 0 1-4 4H5.926a.593.593 0 0 1-.593-.593V9.778a4.444 4.444 0 0 1 4.445-4.444h8.296z"/></svg>`
	forksIcon  template.HTML = `<svg viewBox="0 0 16 16" width="16" height="16" aria-hidden="true"><path fill-rule="evenodd" fill="currentColor" d="M5 3.09V12.9c-.6.3-1 .8-1 1.4 0 .8.8 1.7 2 1.7s2-.9 2-1.7c0-.6-.4-1.1-1-1.4v-4H9v.9c-.6.3-1 .8-1 1.4 0 .8.8 1.7 2 1.7s2-.9 2-1.7c0-.6-.4-1.1-1-1.4V6.09c.6-.3 1-.8 1-1.4 0-.8-.8-1.7-2-1.7s-2 .9-2 1.7c0 .6.4 1.1 1 1.4v2H7v-2c.6-.3 1-.8 1-1.4 0-.8-.8-1.7-2-1.7s-2 .9-2 1.7c0 .6.4 1.1 1 1.4z"></path></svg>`
	starsIcon  template.HTML = `<svg viewBox="0 0 16 16" width="16" height="16" aria-hidden="true"><path fill-rule="evenodd" fill="currentColor" d="M8 12.7l-4.3 2.3c-.5.3-1-.2-.8-.8l.8-4.7-3.5-3.4c-.4-.4-.2-1.1.4-1.2l4.8-.7 2.2-4.5c.3-.5 1-.5 1.2 0l2.2 4.5 4.8.7c.6.1.8.8.4 1.2l-3.5 3.4.8 4.7c.1.6-.5 1.1-.9.8L8 12.7z"></path></svg>`
)

var cardTemplates = template.Must(template.New("cards").Parse(`
{{- define "repo" -}}
<div class="x-github">
<div class="x-github-title">
<span class="icon">{{.Icon}}</span>
<a class="user reset" href="{{.OwnerURL}}" target="_blank">{{.OwnerLogin}}</a>
<span>/</span>
<a class="x-github-repository reset" href="{{.URL}}" target="_blank">{{.Name}}</a>
<div class="x-github-statics">
<span class="forks">{{.ForksIcon}}{{.Forks}}</span>
<span class="slash">/</span>
<span class="stars">{{.StarsIcon}}{{.Stars}}</span>
</div>
</div>
<div class="x-github-content">{{.Description}}</div>
<div class="x-github-footer">
<a class="x-github-btn secondary reset" href="{{.URL}}" target="_blank"><span class="x-github-btn-content">Repository</span></a>
{{- if .Download}}
<a class="x-github-btn warning download-zip reset" href="{{.URL}}/zipball/master" target="_blank"><span class="x-github-btn-content">Download ZIP</span></a>
{{- end}}
</div>
</div>
{{- end -}}

{{- define "user" -}}
<div class="x-github x-github-user">
<a class="reset" href="{{.URL}}" target="_blank">
<span class="icon">{{.Icon}}</span>
<span class="name">{{.Login}}({{.Name}})</span>
</a>
</div>
{{- end -}}
`))

type repoCard struct {
	Icon, ForksIcon, StarsIcon template.HTML
	OwnerLogin, OwnerURL       string
	Name, URL, Description     string
	Forks, Stars               int
	Download                   bool
}

type userCard struct {
	Icon             template.HTML
	Login, Name, URL string
}

func platformIcon(p Platform) template.HTML {
	if p == Gitee {
		return giteeIcon
	}
	return githubIcon
}

// RenderRepository renders a repository card. Gitee cards have no
// download button.
func RenderRepository(p Platform, r Repository) (string, error) {
	var buf bytes.Buffer
	err := cardTemplates.ExecuteTemplate(&buf, "repo", repoCard{
		Icon:        platformIcon(p),
		ForksIcon:   forksIcon,
		StarsIcon:   starsIcon,
		OwnerLogin:  plain(r.Owner.Login),
		OwnerURL:    r.Owner.HTMLURL,
		Name:        plain(r.Name),
		URL:         r.HTMLURL,
		Description: plain(r.Description),
		Forks:       r.ForksCount,
		Stars:       r.StargazersCount,
		Download:    p != Gitee,
	})
	if err != nil {
		return "", fmt.Errorf("render repo card: %w", err)
	}
	return buf.String(), nil
}

// RenderUser renders a user card.
func RenderUser(p Platform, u User) (string, error) {
	var buf bytes.Buffer
	err := cardTemplates.ExecuteTemplate(&buf, "user", userCard{
		Icon:  platformIcon(p),
		Login: plain(u.Login),
		Name:  plain(u.Name),
		URL:   u.HTMLURL,
	})
	if err != nil {
		return "", fmt.Errorf("render user card: %w", err)
	}
	return buf.String(), nil
}

// Render decodes payload for the marker's entity kind and renders its card.
// A payload that does not describe the entity is an error.
func Render(m Marker, payload []byte) (string, error) {
	if m.Kind == KindRepository {
		var r Repository
		if err := json.Unmarshal(payload, &r); err != nil {
			return "", fmt.Errorf("decode repo payload: %w", err)
		}
		if r.HTMLURL == "" {
			return "", fmt.Errorf("decode repo payload: missing html_url")
		}
		return RenderRepository(m.Platform, r)
	}

	var u User
	if err := json.Unmarshal(payload, &u); err != nil {
		return "", fmt.Errorf("decode user payload: %w", err)
	}
	if u.Login == "" {
		return "", fmt.Errorf("decode user payload: missing login")
	}
	return RenderUser(m.Platform, u)
}
