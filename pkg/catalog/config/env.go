package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// settings is the flat set of externally supplied values. Zero values mean
// "not set" and leave the current configuration untouched; booleans are
// strings for the same reason.
type settings struct {
	Port            string        `yaml:"port" env:"PORT"`
	Environment     string        `yaml:"environment" env:"ENVIRONMENT"`
	DatabaseURL     string        `yaml:"database_url" env:"DATABASE_URL"`
	DBSchema        string        `yaml:"db_schema" env:"DB_SCHEMA"`
	AutoMigrate     string        `yaml:"auto_migrate" env:"AUTO_MIGRATE"`
	ResolveMode     string        `yaml:"resolve_mode" env:"RESOLVE_MODE"`
	DefaultPageSize int           `yaml:"default_page_size" env:"DEFAULT_PAGE_SIZE"`
	MaxPageSize     int           `yaml:"max_page_size" env:"MAX_PAGE_SIZE"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	EventLogging    string        `yaml:"event_logging" env:"EVENT_LOGGING"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL"`
}

// WithEnv applies environment variable overrides.
//
//	PORT, ENVIRONMENT
//	DATABASE_URL      - "memory" (default) or "postgres://..." / "postgresql://..."
//	DB_SCHEMA         - Postgres schema (default: catalog)
//	AUTO_MIGRATE      - create tables on start (default: true)
//	RESOLVE_MODE      - best_effort (default) or strict
//	DEFAULT_PAGE_SIZE, MAX_PAGE_SIZE
//	REQUEST_TIMEOUT   - e.g. "30s"
//	EVENT_LOGGING     - log catalog events (default: true)
//	LOG_LEVEL         - debug, info, warn, error
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var s settings
		if err := cleanenv.ReadEnv(&s); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		return s.apply(c)
	}
}

// WithFile reads a YAML or .env configuration file. Environment variables
// override values from the file.
func WithFile(path string) Option {
	return func(c *ServerConfig) error {
		var s settings
		if err := cleanenv.ReadConfig(path, &s); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return s.apply(c)
	}
}

func (s settings) apply(c *ServerConfig) error {
	if s.Port != "" {
		c.Port = s.Port
	}
	if s.Environment != "" {
		c.Environment = s.Environment
	}
	if err := applyDatabaseURL(s.DatabaseURL, c); err != nil {
		return err
	}
	if s.DBSchema != "" {
		c.DBSchema = s.DBSchema
	}
	if err := applyBool(s.AutoMigrate, "AUTO_MIGRATE", &c.AutoMigrate); err != nil {
		return err
	}
	if s.ResolveMode != "" {
		c.ResolveMode = s.ResolveMode
	}
	if s.DefaultPageSize != 0 {
		c.DefaultPageSize = s.DefaultPageSize
	}
	if s.MaxPageSize != 0 {
		c.MaxPageSize = s.MaxPageSize
	}
	if s.RequestTimeout != 0 {
		c.RequestTimeout = s.RequestTimeout
	}
	if err := applyBool(s.EventLogging, "EVENT_LOGGING", &c.EnableEventLogging); err != nil {
		return err
	}
	if s.LogLevel != "" {
		c.LogLevel = s.LogLevel
	}
	return nil
}

// applyDatabaseURL auto-detects the database type from the URL scheme
func applyDatabaseURL(dbURL string, c *ServerConfig) error {
	switch {
	case dbURL == "":
		return nil
	case dbURL == "memory":
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
	case strings.HasPrefix(dbURL, "postgresql://"), strings.HasPrefix(dbURL, "postgres://"):
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
	}
	return nil
}

func applyBool(raw, key string, dst *bool) error {
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid boolean for %s: %w", key, err)
	}
	*dst = parsed
	return nil
}
