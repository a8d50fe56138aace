// Package config loads service configuration.
//
// Precedence, highest first: SCREENING_* environment variables, the YAML file named by
// SCREENING_CONFIG (or passed to Load), then built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store drivers
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

const defaultJWTSecret = "dev-secret-change-in-production"

// Secret wraps strings that must not appear in logs
type Secret string

// String always returns a redacted value
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// Value returns the actual secret
func (s Secret) Value() string {
	return string(s)
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	HTTPPort        string        `koanf:"http_port"`
	Mode            string        `koanf:"mode"` // "development" or "production"
	CORSOrigins     string        `koanf:"cors_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StoreConfig selects and configures the screening store
type StoreConfig struct {
	Driver     string `koanf:"driver"`
	MongoURI   string `koanf:"mongo_uri"`
	MongoDB    string `koanf:"mongo_db"`
	SQLitePath string `koanf:"sqlite_path"`
}

// RedisConfig configures the latest-result cache. An empty URI disables the cache.
type RedisConfig struct {
	URI       string        `koanf:"uri"`
	ResultTTL time.Duration `koanf:"result_ttl"`
}

// AuthConfig configures token issuance
type AuthConfig struct {
	JWTSecret Secret        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

// CatalogConfig points at the questionnaire document. Empty uses the embedded one.
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// Config is the complete service configuration
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Store   StoreConfig   `koanf:"store"`
	Redis   RedisConfig   `koanf:"redis"`
	Auth    AuthConfig    `koanf:"auth"`
	Catalog CatalogConfig `koanf:"catalog"`
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production") || strings.EqualFold(c.Server.Mode, "prod")
}

// RedisAddr returns the Redis address without a redis:// scheme
func (c *Config) RedisAddr() string {
	return strings.TrimPrefix(c.Redis.URI, "redis://")
}

// UsesDefaultSecret reports whether the JWT secret is the built-in development value
func (c *Config) UsesDefaultSecret() bool {
	return c.Auth.JWTSecret.Value() == defaultJWTSecret
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == "" {
		cfg.Server.HTTPPort = "8080"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "development"
	}
	if cfg.Server.CORSOrigins == "" {
		cfg.Server.CORSOrigins = "*"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverSQLite
	}
	if cfg.Store.MongoURI == "" {
		cfg.Store.MongoURI = "mongodb://localhost:27017"
	}
	if cfg.Store.MongoDB == "" {
		cfg.Store.MongoDB = "screening"
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = "data/mental_health_screening.db"
	}

	if cfg.Redis.ResultTTL == 0 {
		cfg.Redis.ResultTTL = 30 * time.Minute
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = defaultJWTSecret
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.MongoURI == "" {
			errs = append(errs, errors.New("store.mongo_uri is required for the mongo driver"))
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be %q or %q, got %q", DriverMongo, DriverSQLite, c.Store.Driver))
	}

	if c.Server.HTTPPort == "" {
		errs = append(errs, errors.New("server.http_port is required"))
	}
	if c.Auth.TokenTTL < 0 || c.Redis.ResultTTL < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.IsProduction() && c.UsesDefaultSecret() {
		errs = append(errs, errors.New("auth.jwt_secret must be set in production"))
	}

	return errors.Join(errs...)
}
