// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cards turns <x-github> markers left in article HTML into
// repository and user cards, using the GitHub and Gitee REST APIs and a
// keyed cache with expiry.
package cards

import (
	"errors"
	"regexp"
	"strings"
)

// MarkerElement is the tag name of a card marker.
const MarkerElement = "x-github"

// InvalidURLMessage is rendered inside a marker whose url cannot be parsed.
const InvalidURLMessage = "Invalid URL format."

var (
	ErrInvalidURL          = errors.New("cards: invalid url format")
	ErrUnsupportedPlatform = errors.New("cards: unsupported platform")
)

// Platform is a code hosting service.
type Platform string

const (
	GitHub Platform = "github"
	Gitee  Platform = "gitee"
)

// Kind is the entity a marker points at.
type Kind string

const (
	KindRepository Kind = "repo"
	KindUser       Kind = "user"
)

var (
	// The owner segment only counts when it is followed by a slash.
	githubMarkerRe = regexp.MustCompile(`(?is)(?:git@|https?://)github\.com/(?:([^/]*)/)?([.\w-]*=?)`)
	giteeMarkerRe  = regexp.MustCompile(`(?is)https?://gitee\.com/(?:([^/]*)/)?([.\w-]*=?)`)
)

// Marker is a parsed marker url.
type Marker struct {
	URL      string
	Platform Platform
	Kind     Kind
	Owner    string // repository owner, or the user for KindUser
	Repo     string // empty for KindUser
}

// ParseMarker extracts the platform and entity from a marker url. A url
// naming neither platform returns ErrUnsupportedPlatform; one that names a
// platform but not an entity returns ErrInvalidURL.
func ParseMarker(raw string) (Marker, error) {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)

	var (
		platform Platform
		re       *regexp.Regexp
	)
	switch {
	case strings.Contains(lower, "github.com"):
		platform, re = GitHub, githubMarkerRe
	case strings.Contains(lower, "gitee.com"):
		platform, re = Gitee, giteeMarkerRe
	default:
		return Marker{}, ErrUnsupportedPlatform
	}

	m := re.FindStringSubmatch(raw)
	if m == nil {
		return Marker{}, ErrInvalidURL
	}
	owner, repo := m[1], m[2]

	mk := Marker{URL: raw, Platform: platform}
	switch {
	case owner != "" && repo != "":
		mk.Kind, mk.Owner, mk.Repo = KindRepository, owner, repo
	case repo != "":
		mk.Kind, mk.Owner = KindUser, repo
	case owner != "":
		mk.Kind, mk.Owner = KindUser, owner
	default:
		return Marker{}, ErrInvalidURL
	}
	return mk, nil
}

// Identity returns "owner/repo" for repositories and the login for users.
func (m Marker) Identity() string {
	if m.Kind == KindRepository {
		return m.Owner + "/" + m.Repo
	}
	return m.Owner
}

// CacheKey returns the cache key for the marker's entity, for example
// "github-repo:yuin/goldmark" or "gitee-user:someone".
func (m Marker) CacheKey() string {
	return string(m.Platform) + "-" + string(m.Kind) + ":" + m.Identity()
}
