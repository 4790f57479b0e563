// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"textend/internal/models"
)

const postColumns = `id, title, slug, body, body_format, excerpt, status,
	version, views_num, likes_num, published_at, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

// PostStore handles all post-related database operations, including the
// view and like counters shown under each article.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

func scanPost(row scanner) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.BodyFormat, &p.Excerpt, &p.Status,
		&p.Version, &p.ViewsNum, &p.LikesNum, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPublished returns published posts ordered by published date
// descending. A limit <= 0 returns every post.
func (s *PostStore) ListPublished(limit int) ([]models.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts
		WHERE status = 'published'
		ORDER BY published_at DESC NULLS LAST`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a published post by its slug. Used for public page rendering.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(
		`SELECT `+postColumns+` FROM posts WHERE slug = $1 AND status = 'published'`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with the generated ID.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
	if p.BodyFormat == "" {
		p.BodyFormat = models.BodyFormatMarkdown
	}

	created, err := scanPost(s.db.QueryRow(`
		INSERT INTO posts (title, slug, body, body_format, excerpt, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Body, p.BodyFormat, p.Excerpt, p.Status, p.PublishedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update modifies an existing post and bumps its version, which retires
// any rendered copy cached under the previous version. A post that was
// published before keeps its original publication time.
func (s *PostStore) Update(p *models.Post) error {
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	err := s.db.QueryRow(`
		UPDATE posts SET
			title = $1, slug = $2, body = $3, body_format = $4, excerpt = $5,
			status = $6, published_at = COALESCE(published_at, $7), version = version + 1,
			updated_at = NOW()
		WHERE id = $8
		RETURNING version, updated_at
	`, p.Title, p.Slug, p.Body, p.BodyFormat, p.Excerpt, p.Status, p.PublishedAt, p.ID,
	).Scan(&p.Version, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Upsert creates the post or, when the slug already exists, updates it in place.
func (s *PostStore) Upsert(p *models.Post) (*models.Post, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`SELECT id FROM posts WHERE slug = $1`, p.Slug).Scan(&id)
	if err == sql.ErrNoRows {
		return s.Create(p)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert post lookup: %w", err)
	}

	p.ID = id
	if err := s.Update(p); err != nil {
		return nil, err
	}
	return s.FindByID(id)
}

// Delete removes a post by ID.
func (s *PostStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// IncrementViews adds one view and returns the new count. A missing
// post yields (0, nil).
func (s *PostStore) IncrementViews(id uuid.UUID) (int, error) {
	return s.increment("views_num", id)
}

// IncrementLikes adds one like and returns the new count. A missing
// post yields (0, nil).
func (s *PostStore) IncrementLikes(id uuid.UUID) (int, error) {
	return s.increment("likes_num", id)
}

// column is one of the two counter names above, never user input.
func (s *PostStore) increment(column string, id uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(
		`UPDATE posts SET `+column+` = `+column+` + 1 WHERE id = $1 RETURNING `+column, id,
	).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("increment %s: %w", column, err)
	}
	return n, nil
}

// Count returns the number of posts regardless of status.
func (s *PostStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}
