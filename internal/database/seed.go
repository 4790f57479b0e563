package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// welcomeSlug is the slug of the sample article created by Seed.
const welcomeSlug = "hello-textend"

const welcomeBody = `A short tour of what the renderer does with shorthand markup.

[x-player url="https://media.w3.org/2010/05/sintel/trailer.mp4" autoplay="0"]

A bare link to a Bilibili video becomes an embedded player:

https://www.bilibili.com/video/BV1GJ411x7h7

Repository links turn into cards:

<x-github url="https://github.com/yuin/goldmark"></x-github>

:::grid
first cell

second cell
:::

` + "```go\n// shortcodes inside code stay as written\n// [x-bilibili id=\"BV1GJ411x7h7\"]\n```\n"

// Seed populates the database with initial development data. It creates
// a sample published article if the posts table is empty.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO posts (title, slug, body, body_format, status, published_at)
		VALUES ($1, $2, $3, 'markdown', 'published', NOW())
	`, "Hello, textend", welcomeSlug, welcomeBody)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	slog.Info("database seeded with sample post", "slug", welcomeSlug)
	return nil
}
