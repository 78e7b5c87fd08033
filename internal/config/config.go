// Package config loads VoFo Music configuration from an optional TOML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is returned when a configuration value cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment variables that override file values.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvHost        = "HOST"
	EnvPort        = "PORT"
	EnvStaticDir   = "STATIC_DIR"
	EnvProxyURL    = "YTMUSIC_PROXY_URL"
	EnvRegion      = "YTMUSIC_REGION"
	EnvLogLevel    = "LOG_LEVEL"
)

const (
	defaultHost     = "0.0.0.0"
	defaultPort     = 8000
	defaultRegion   = "IN"
	defaultLogLevel = "info"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	StaticDir string `toml:"static_dir"` // serve index.html from disk instead of the embedded copy
}

// DatabaseConfig contains database connection settings.
// An empty URL runs the service without persistence.
type DatabaseConfig struct {
	URL           string        `toml:"url"`
	RetryInterval time.Duration `toml:"retry_interval"`
}

// CatalogConfig contains YouTube Music proxy settings.
type CatalogConfig struct {
	ProxyURL string        `toml:"proxy_url"`
	Region   string        `toml:"region"`
	Timeout  time.Duration `toml:"timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: defaultHost,
			Port: defaultPort,
		},
		Database: DatabaseConfig{
			RetryInterval: 5 * time.Second,
		},
		Catalog: CatalogConfig{
			Region:  defaultRegion,
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: defaultLogLevel,
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path (skipped
// when path is empty) and environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables that are set.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDatabaseURL); ok {
		c.Database.URL = v
	}
	if v, ok := lookup(EnvHost); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvPort, v)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvStaticDir); ok {
		c.Server.StaticDir = v
	}
	if v, ok := lookup(EnvProxyURL); ok {
		c.Catalog.ProxyURL = v
	}
	if v, ok := lookup(EnvRegion); ok && v != "" {
		c.Catalog.Region = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Database.RetryInterval < 0 {
		return fmt.Errorf("%w: negative database retry interval", ErrInvalidConfig)
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
