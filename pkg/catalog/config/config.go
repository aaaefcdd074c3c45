package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-catalog/pkg/catalog"
	"github.com/tendant/simple-catalog/pkg/catalog/repo/memory"
	repopg "github.com/tendant/simple-catalog/pkg/catalog/repo/postgres"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:               "8080",
		Environment:        "development",
		DatabaseType:       "memory",
		DBSchema:           repopg.DefaultSchema,
		AutoMigrate:        true,
		ResolveMode:        catalog.ResolveBestEffort.String(),
		DefaultPageSize:    catalog.DefaultPageSize,
		MaxPageSize:        catalog.MaxPageSize,
		RequestTimeout:     30 * time.Second,
		EnableEventLogging: true,
		LogLevel:           "info",
	}
}

// ServerConfig represents configuration for the catalog server and admin tool
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema to use (default: catalog)
	AutoMigrate  bool   // create tables on start

	// Catalog behavior
	ResolveMode     string // "best_effort" or "strict"
	DefaultPageSize int
	MaxPageSize     int

	// Server options
	RequestTimeout     time.Duration
	EnableEventLogging bool
	LogLevel           string // debug, info, warn, error
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if _, err := catalog.ParseResolveMode(c.ResolveMode); err != nil {
		return err
	}

	if c.DefaultPageSize <= 0 {
		return errors.New("default_page_size must be positive")
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("max_page_size (%d) must not be below default_page_size (%d)", c.MaxPageSize, c.DefaultPageSize)
	}

	if c.RequestTimeout < 0 {
		return errors.New("request_timeout cannot be negative")
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// SlogLevel returns the configured log level
func (c *ServerConfig) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// BuildRepository creates the repository selected by DatabaseType. The
// returned close function releases the connection pool, if any.
func (c *ServerConfig) BuildRepository(ctx context.Context) (catalog.Repository, func(), error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), func() {}, nil
	case "postgres":
		pool, err := c.OpenPostgres(ctx)
		if err != nil {
			return nil, nil, err
		}
		if c.AutoMigrate {
			if err := repopg.EnsureSchema(ctx, pool, c.DBSchema); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
			}
		}
		return repopg.NewWithPool(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// OpenPostgres connects a pool pinned to DBSchema and verifies it with a ping.
func (c *ServerConfig) OpenPostgres(ctx context.Context) (*pgxpool.Pool, error) {
	if c.DatabaseURL == "" {
		return nil, errors.New("database_url is required for postgres")
	}
	cfg, err := repopg.ParsePoolConfig(c.DatabaseURL, c.DBSchema)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// BuildService creates a Service over repo from the server configuration
func (c *ServerConfig) BuildService(repo catalog.Repository, logger *slog.Logger) (catalog.Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	mode, err := catalog.ParseResolveMode(c.ResolveMode)
	if err != nil {
		return nil, err
	}

	options := []catalog.Option{
		catalog.WithRepository(repo),
		catalog.WithLogger(logger),
		catalog.WithResolveMode(mode),
		catalog.WithPageSizes(c.DefaultPageSize, c.MaxPageSize),
	}
	if c.EnableEventLogging {
		options = append(options, catalog.WithEventSink(catalog.NewLogEventSink(logger)))
	}

	return catalog.New(options...)
}
