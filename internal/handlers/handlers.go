// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP surface: article pages, the like
// action, the proxy video player and lazy card hydration.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"textend/internal/models"
)

// PostStore is the part of store.PostStore the handlers use.
type PostStore interface {
	ListPublished(limit int) ([]models.Post, error)
	FindBySlug(slug string) (*models.Post, error)
	FindByID(id uuid.UUID) (*models.Post, error)
	IncrementViews(id uuid.UUID) (int, error)
	IncrementLikes(id uuid.UUID) (int, error)
}

// Visitors identifies readers and remembers what they viewed and liked.
type Visitors interface {
	Identify(w http.ResponseWriter, r *http.Request) (string, error)
	MarkViewed(ctx context.Context, visitorID, postID string) (bool, error)
	MarkLiked(ctx context.Context, visitorID, postID string) (bool, error)
	HasLiked(ctx context.Context, visitorID, postID string) bool
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
