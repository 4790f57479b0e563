// Package main is the entry point for the textend blog server.
// It loads configuration, connects to services, wires the content pipeline
// and card hydrator, and starts the HTTP server with graceful shutdown.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	"textend/internal/cache"
	"textend/internal/cards"
	"textend/internal/config"
	"textend/internal/content"
	"textend/internal/database"
	"textend/internal/engine"
	"textend/internal/handlers"
	"textend/internal/middleware"
	"textend/internal/player"
	"textend/internal/render"
	"textend/internal/router"
	"textend/internal/store"
	"textend/internal/visitor"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Match GOMAXPROCS to the container CPU quota. An error only means the
	// runtime default stays in place.
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		slog.Debug(fmt.Sprintf(format, args...))
	})); err != nil {
		slog.Warn("failed to set GOMAXPROCS", "error", err)
	}

	// Load configuration from defaults, CONFIG_FILE and the environment.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN(), database.ServerPool)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed a sample post in development (no-op if posts exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (article cache, card cache, visitor sets).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	renderer, err := render.New(cfg.SiteName)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Card hydration: GitHub/Gitee client behind the Valkey card cache.
	cardClient := cards.NewClient(
		cards.WithAPIBases(cfg.GitHubAPI, cfg.GiteeAPI),
		cards.WithGitHubToken(cfg.GitHubToken),
		cards.WithTimeout(cfg.CardTimeout),
	)
	hydrator := cards.NewHydrator(cardClient, cache.NewCardStore(valkeyClient),
		cards.WithTTL(cfg.CardTTL),
		cards.WithConcurrency(cfg.CardConcurrency),
	)

	pipeline := content.New(
		content.WithPlayerEndpoint(cfg.PlayerEndpoint),
		content.WithStats(cfg.AutoAttachStats),
	)
	eng := engine.New(pipeline,
		engine.WithHydrator(hydrator),
		engine.WithBodyCache(cache.NewArticleCache(valkeyClient, cfg.ArticleTTL)),
	)

	posts := store.NewPostStore(db)
	visitors := visitor.NewStore(valkeyClient)

	limiter := middleware.NewValkeyLimiter(valkeyClient, "api", cfg.RateLimit, time.Minute)

	r := router.New(router.Handlers{
		Public:  handlers.NewPublic(eng, posts, visitors, renderer),
		Actions: handlers.NewActions(posts, visitors),
		Player: handlers.NewPlayer(player.New(
			player.WithAssetsBase(cfg.PlayerAssets),
			player.WithProbe(cfg.PlayerProbe),
		)),
		Cards:     handlers.NewCards(hydrator),
		RateLimit: limiter.Middleware,
		Checks: map[string]func(context.Context) error{
			"postgres": db.PingContext,
			"valkey":   func(ctx context.Context) error { return valkeyClient.Ping(ctx).Err() },
		},
	})

	// WriteTimeout must cover a cold article render that waits on the
	// card APIs (one CardTimeout per concurrent batch).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
