package config

import (
	"fmt"
	"time"

	"github.com/tendant/simple-catalog/pkg/catalog"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the Postgres schema
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		if schema == "" {
			return fmt.Errorf("schema cannot be empty")
		}
		c.DBSchema = schema
		return nil
	}
}

// WithAutoMigrate toggles schema creation on start
func WithAutoMigrate(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.AutoMigrate = enabled
		return nil
	}
}

// WithResolveMode sets how category ids are resolved on writes
func WithResolveMode(mode string) Option {
	return func(c *ServerConfig) error {
		parsed, err := catalog.ParseResolveMode(mode)
		if err != nil {
			return err
		}
		c.ResolveMode = parsed.String()
		return nil
	}
}

// WithPageSizes sets the default and maximum listing page size
func WithPageSizes(defaultSize, maxSize int) Option {
	return func(c *ServerConfig) error {
		if defaultSize <= 0 || maxSize < defaultSize {
			return fmt.Errorf("invalid page sizes: default %d, max %d", defaultSize, maxSize)
		}
		c.DefaultPageSize = defaultSize
		c.MaxPageSize = maxSize
		return nil
	}
}

// WithRequestTimeout sets the per-request timeout of the HTTP server
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *ServerConfig) error {
		if timeout < 0 {
			return fmt.Errorf("request timeout cannot be negative")
		}
		c.RequestTimeout = timeout
		return nil
	}
}

// WithEventLogging enables logging of catalog events
func WithEventLogging(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableEventLogging = enabled
		return nil
	}
}

// WithLogLevel sets the log level
func WithLogLevel(level string) Option {
	return func(c *ServerConfig) error {
		if _, err := parseLevel(level); err != nil {
			return err
		}
		c.LogLevel = level
		return nil
	}
}
