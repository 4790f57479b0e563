// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// BodyFormat tells the engine how a post body was authored.
type BodyFormat string

const (
	BodyFormatHTML     BodyFormat = "html"
	BodyFormatMarkdown BodyFormat = "markdown"
)

// Post is an article. Body holds the authored source; rendering happens
// at request time and the result is cached per Version.
type Post struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	BodyFormat  BodyFormat `json:"body_format"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Status      PostStatus `json:"status"`
	Version     int        `json:"version"`
	ViewsNum    int        `json:"views_num"`
	LikesNum    int        `json:"likes_num"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsMarkdown reports whether the body must go through the markdown renderer.
func (p *Post) IsMarkdown() bool {
	return p.BodyFormat == BodyFormatMarkdown
}

// ParseBodyFormat maps user input to a BodyFormat. Anything that is not
// "html" is treated as markdown.
func ParseBodyFormat(s string) BodyFormat {
	if s == string(BodyFormatHTML) {
		return BodyFormatHTML
	}
	return BodyFormatMarkdown
}
