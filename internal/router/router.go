// Package router sets up all HTTP routes and middleware chains for the
// textend blog front end.
package router

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"textend/internal/handlers"
	"textend/internal/middleware"
	"textend/web"
)

// Handlers groups the handler sets the router dispatches to.
type Handlers struct {
	Public  *handlers.Public
	Actions *handlers.Actions
	Player  *handlers.Player
	Cards   *handlers.Cards

	// RateLimit wraps the endpoints that write or call out to third-party
	// APIs. Nil disables limiting.
	RateLimit func(http.Handler) http.Handler

	// Checks are probed by /health, keyed by dependency name.
	Checks map[string]func(context.Context) error
}

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler(h.Checks))
	r.Handle("/static/*", staticHandler())

	r.Get("/", h.Public.Homepage)
	r.Get("/player", h.Player.Serve)

	r.Group(func(r chi.Router) {
		if h.RateLimit != nil {
			r.Use(h.RateLimit)
		}
		r.Get("/action/likes", h.Actions.Like)
		r.Get("/api/card", h.Cards.Card)
	})

	r.Get("/{slug}", h.Public.Article)

	return r
}

// staticHandler serves the embedded web/static tree under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler reports "ok", or "degraded" with 503 when any check fails.
func healthHandler(checks map[string]func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		report := healthReport{Status: "ok"}
		code := http.StatusOK
		for name, check := range checks {
			if report.Checks == nil {
				report.Checks = make(map[string]string, len(checks))
			}
			if err := check(ctx); err != nil {
				report.Checks[name] = err.Error()
				report.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			report.Checks[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(report)
	}
}
