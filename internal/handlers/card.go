package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"textend/internal/cards"
)

// CardResolver turns one marker URL into card markup.
type CardResolver interface {
	Card(ctx context.Context, rawURL string) (string, error)
}

// Cards serves card fragments for markers hydrated in the browser.
type Cards struct {
	resolver CardResolver
}

// NewCards creates the card handler.
func NewCards(resolver CardResolver) *Cards {
	return &Cards{resolver: resolver}
}

// Card returns the card HTML for GET /api/card?url=…
func (h *Cards) Card(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	card, err := h.resolver.Card(r.Context(), rawURL)
	switch {
	case errors.Is(err, cards.ErrInvalidURL), errors.Is(err, cards.ErrUnsupportedPlatform):
		http.Error(w, cards.InvalidURLMessage, http.StatusUnprocessableEntity)
		return
	case err != nil:
		slog.Warn("card resolve failed", "error", err, "url", rawURL)
		http.Error(w, "card unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write([]byte(card))
}
