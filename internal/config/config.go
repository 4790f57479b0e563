// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration. Defaults are
// overlaid by an optional YAML file (CONFIG_FILE) and then by environment
// variables, so a deployment can keep most settings in a file and
// override secrets from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	SiteName string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// Content pipeline
	PlayerEndpoint  string // proxy player path iframes point at
	PlayerAssets    string // base URL of the Plyr assets
	PlayerProbe     bool   // HEAD-probe media URLs for their MIME type
	AutoAttachStats bool   // append the views/likes block on articles
	ArticleTTL      time.Duration

	// Card hydration
	CardTTL         time.Duration
	CardTimeout     time.Duration
	CardConcurrency int
	GitHubAPI       string
	GiteeAPI        string
	GitHubToken     string

	// Requests per minute per client on the like action and card endpoint.
	RateLimit int
}

// fileConfig mirrors the YAML layout. Pointers distinguish "unset" from
// zero values for booleans and numbers.
type fileConfig struct {
	App struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Env      string `yaml:"env"`
		SiteName string `yaml:"site_name"`
	} `yaml:"app"`
	Postgres struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DB       string `yaml:"db"`
	} `yaml:"postgres"`
	Valkey struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Password string `yaml:"password"`
		DB       *int   `yaml:"db"`
	} `yaml:"valkey"`
	Player struct {
		Endpoint string `yaml:"endpoint"`
		Assets   string `yaml:"assets"`
		Probe    *bool  `yaml:"probe"`
	} `yaml:"player"`
	Content struct {
		AutoAttachStats *bool         `yaml:"auto_attach_stats"`
		ArticleTTL      time.Duration `yaml:"article_ttl"`
		RateLimit       *int          `yaml:"rate_limit"`
	} `yaml:"content"`
	Cards struct {
		TTL         time.Duration `yaml:"ttl"`
		Timeout     time.Duration `yaml:"timeout"`
		Concurrency *int          `yaml:"concurrency"`
		GitHubAPI   string        `yaml:"github_api"`
		GiteeAPI    string        `yaml:"gitee_api"`
		GitHubToken string        `yaml:"github_token"`
	} `yaml:"cards"`
}

// defaults returns the development configuration.
func defaults() *Config {
	return &Config{
		Host:     "0.0.0.0",
		Port:     "8080",
		Env:      "development",
		SiteName: "textend",

		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "textend",
		DBPassword: "changeme",
		DBName:     "textend",

		ValkeyHost: "localhost",
		ValkeyPort: "6379",

		PlayerEndpoint:  "/player",
		PlayerAssets:    "https://cdn.plyr.io/3.7.8",
		PlayerProbe:     true,
		AutoAttachStats: true,
		ArticleTTL:      10 * time.Minute,

		CardTTL:         24 * time.Hour,
		CardTimeout:     10 * time.Second,
		CardConcurrency: 8,
		GitHubAPI:       "https://api.github.com",
		GiteeAPI:        "https://gitee.com/api/v5",

		RateLimit: 60,
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (if any) and environment variables, in that order. Returns
// an error if critical values are missing in production mode.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// applyFile overlays the non-empty values of a YAML file.
func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.Host, f.App.Host)
	setString(&c.Port, f.App.Port)
	setString(&c.Env, f.App.Env)
	setString(&c.SiteName, f.App.SiteName)

	setString(&c.DBHost, f.Postgres.Host)
	setString(&c.DBPort, f.Postgres.Port)
	setString(&c.DBUser, f.Postgres.User)
	setString(&c.DBPassword, f.Postgres.Password)
	setString(&c.DBName, f.Postgres.DB)

	setString(&c.ValkeyHost, f.Valkey.Host)
	setString(&c.ValkeyPort, f.Valkey.Port)
	setString(&c.ValkeyPassword, f.Valkey.Password)
	if f.Valkey.DB != nil {
		c.ValkeyDB = *f.Valkey.DB
	}

	setString(&c.PlayerEndpoint, f.Player.Endpoint)
	setString(&c.PlayerAssets, f.Player.Assets)
	if f.Player.Probe != nil {
		c.PlayerProbe = *f.Player.Probe
	}

	if f.Content.AutoAttachStats != nil {
		c.AutoAttachStats = *f.Content.AutoAttachStats
	}
	if f.Content.ArticleTTL > 0 {
		c.ArticleTTL = f.Content.ArticleTTL
	}
	if f.Content.RateLimit != nil {
		c.RateLimit = *f.Content.RateLimit
	}

	if f.Cards.TTL > 0 {
		c.CardTTL = f.Cards.TTL
	}
	if f.Cards.Timeout > 0 {
		c.CardTimeout = f.Cards.Timeout
	}
	if f.Cards.Concurrency != nil {
		c.CardConcurrency = *f.Cards.Concurrency
	}
	setString(&c.GitHubAPI, f.Cards.GitHubAPI)
	setString(&c.GiteeAPI, f.Cards.GiteeAPI)
	setString(&c.GitHubToken, f.Cards.GitHubToken)

	return nil
}

// applyEnv overlays environment variables. Unset or empty variables keep
// the current value.
func (c *Config) applyEnv() error {
	c.Host = envOrDefault("APP_HOST", c.Host)
	c.Port = envOrDefault("APP_PORT", c.Port)
	c.Env = envOrDefault("APP_ENV", c.Env)
	c.SiteName = envOrDefault("SITE_NAME", c.SiteName)

	c.DBHost = envOrDefault("POSTGRES_HOST", c.DBHost)
	c.DBPort = envOrDefault("POSTGRES_PORT", c.DBPort)
	c.DBUser = envOrDefault("POSTGRES_USER", c.DBUser)
	c.DBPassword = envOrDefault("POSTGRES_PASSWORD", c.DBPassword)
	c.DBName = envOrDefault("POSTGRES_DB", c.DBName)

	c.ValkeyHost = envOrDefault("VALKEY_HOST", c.ValkeyHost)
	c.ValkeyPort = envOrDefault("VALKEY_PORT", c.ValkeyPort)
	c.ValkeyPassword = envOrDefault("VALKEY_PASSWORD", c.ValkeyPassword)

	c.PlayerEndpoint = envOrDefault("PLAYER_ENDPOINT", c.PlayerEndpoint)
	c.PlayerAssets = envOrDefault("PLAYER_ASSETS", c.PlayerAssets)

	c.GitHubAPI = envOrDefault("GITHUB_API", c.GitHubAPI)
	c.GiteeAPI = envOrDefault("GITEE_API", c.GiteeAPI)
	c.GitHubToken = envOrDefault("GITHUB_TOKEN", c.GitHubToken)

	var err error
	if c.ValkeyDB, err = envInt("VALKEY_DB", c.ValkeyDB); err != nil {
		return err
	}
	if c.PlayerProbe, err = envBool("PLAYER_PROBE", c.PlayerProbe); err != nil {
		return err
	}
	if c.AutoAttachStats, err = envBool("AUTO_ATTACH_STATS", c.AutoAttachStats); err != nil {
		return err
	}
	if c.ArticleTTL, err = envDuration("ARTICLE_TTL", c.ArticleTTL); err != nil {
		return err
	}
	if c.RateLimit, err = envInt("RATE_LIMIT", c.RateLimit); err != nil {
		return err
	}
	if c.CardTTL, err = envDuration("CARD_TTL", c.CardTTL); err != nil {
		return err
	}
	if c.CardTimeout, err = envDuration("CARD_TIMEOUT", c.CardTimeout); err != nil {
		return err
	}
	if c.CardConcurrency, err = envInt("CARD_CONCURRENCY", c.CardConcurrency); err != nil {
		return err
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
