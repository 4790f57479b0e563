package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"textend/internal/cache"
	"textend/internal/config"
	"textend/internal/database"
	"textend/internal/store"
)

// backend holds the connections the database commands share. The article
// cache is optional: commands still work when Valkey is down.
type backend struct {
	db       *sql.DB
	valkey   *redis.Client
	posts    *store.PostStore
	articles *cache.ArticleCache
}

// openBackend loads the server configuration and connects to PostgreSQL,
// applying pending migrations, and to Valkey when reachable.
func openBackend() (*backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg.DSN(), database.CLIPool)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}

	b := &backend{db: db, posts: store.NewPostStore(db)}

	client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		slog.Warn("valkey unavailable, cached renders left alone", "error", err)
		return b, nil
	}
	b.valkey = client
	b.articles = cache.NewArticleCache(client, cfg.ArticleTTL)
	return b, nil
}

// Close releases both connections.
func (b *backend) Close() {
	if b.valkey != nil {
		b.valkey.Close()
	}
	b.db.Close()
}
