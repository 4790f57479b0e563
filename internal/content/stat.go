// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"html"
	"strconv"
	"strings"
)

// statsMarker identifies an already appended stats block.
const statsMarker = `class="tex-post-stats"`

// Stats holds the counters shown under a single article. Liked reports
// whether the current visitor already liked it; how that is tracked is up
// to the caller.
type Stats struct {
	ContentID string
	Views     int
	Likes     int
	Liked     bool
}

const (
	viewsIcon = `<svg width="18" height="18" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M2 12s3-7 10-7 10 7 10 7-3 7-10 7-10-7-10-7Z"/><circle cx="12" cy="12" r="3"/></svg>`
	likeIconFmt = `<svg class="tex-like-icon" width="18" height="18" viewBox="0 0 24 24" %s stroke="currentColor" stroke-width="2"><path d="M20.84 4.61a5.5 5.5 0 0 0-7.78 0L12 5.67l-1.06-1.06a5.5 5.5 0 0 0-7.78 7.78l1.06 1.06L12 21.23l7.78-7.78 1.06-1.06a5.5 5.5 0 0 0 0-7.78z"/></svg>`
)

// StatsHTML renders the views and like counters block. The like item
// carries data-like-btn and data-cid for the like button script.
func StatsHTML(s Stats) string {
	likedClass := ""
	fill := `fill="none"`
	if s.Liked {
		likedClass = " tex-liked"
		fill = `fill="currentColor"`
	}

	var b strings.Builder
	b.WriteString("<div " + statsMarker + ">\n")
	b.WriteString(`    <div class="tex-stat-item tex-stat-views">` + "\n")
	b.WriteString(`        <span class="tex-stat-icon">` + viewsIcon + "</span>\n")
	b.WriteString(`        <span class="tex-stat-label">Views</span>` + "\n")
	b.WriteString(`        <span class="tex-stat-value">` + strconv.Itoa(s.Views) + "</span>\n")
	b.WriteString("    </div>\n")
	b.WriteString(`    <div class="tex-stat-item tex-stat-like` + likedClass + `" data-like-btn>` + "\n")
	b.WriteString(`        <span class="tex-stat-icon">` + strings.Replace(likeIconFmt, "%s", fill, 1) + "</span>\n")
	b.WriteString(`        <span class="tex-stat-label">Likes</span>` + "\n")
	b.WriteString(`        <span class="tex-stat-value" data-cid="` + html.EscapeString(s.ContentID) + `">` + strconv.Itoa(s.Likes) + "</span>\n")
	b.WriteString("    </div>\n")
	b.WriteString("</div>")
	return b.String()
}

// AppendStats appends the stats block to doc unless one is already there.
func AppendStats(doc string, s Stats) string {
	if strings.Contains(doc, statsMarker) {
		return doc
	}
	return doc + StatsHTML(s)
}
