package handlers

import (
	"bytes"
	"log/slog"
	"net/http"

	"textend/internal/player"
)

// Player serves the proxy video player page that embedded iframes load.
type Player struct {
	player *player.Player
}

// NewPlayer creates the player handler.
func NewPlayer(p *player.Player) *Player {
	return &Player{player: p}
}

// Serve renders the player for GET /player?url=…
func (h *Player) Serve(w http.ResponseWriter, r *http.Request) {
	req := player.ParseRequest(r.URL.Query())

	var buf bytes.Buffer
	if err := h.player.Render(r.Context(), &buf, req, requestOrigin(r)); err != nil {
		slog.Error("player render failed", "error", err, "url", req.URL)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// The page is meant to be framed by articles on this site only.
	w.Header().Set("Content-Security-Policy", "frame-ancestors 'self'")
	buf.WriteTo(w)
}

// requestOrigin rebuilds the scheme://host the browser used, honoring a
// TLS-terminating proxy.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
