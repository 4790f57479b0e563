package models

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Validation limits for post fields.
const (
	maxTitleLen   = 300
	maxSlugLen    = 300
	maxBodyLen    = 200_000
	maxExcerptLen = 1_000
)

// Validate checks a post before it is stored and returns the first
// problem found.
func (p *Post) Validate() error {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return errors.New("title is too long (max 300 characters)")
	}
	if p.Slug == "" {
		return errors.New("slug is required")
	}
	if utf8.RuneCountInString(p.Slug) > maxSlugLen {
		return errors.New("slug is too long (max 300 characters)")
	}
	if utf8.RuneCountInString(p.Body) > maxBodyLen {
		return errors.New("body is too long (max 200,000 characters)")
	}
	if p.Excerpt != nil && utf8.RuneCountInString(*p.Excerpt) > maxExcerptLen {
		return errors.New("excerpt is too long (max 1,000 characters)")
	}
	switch p.BodyFormat {
	case "", BodyFormatHTML, BodyFormatMarkdown:
	default:
		return errors.New("unknown body format " + string(p.BodyFormat))
	}
	return nil
}
