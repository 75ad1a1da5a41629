// Package config loads and finalizes the FieldScope service configuration
// from TOML files and environment variables. A base config.toml may be
// overlaid by config.<env>.toml; environment variables win over both.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/fieldscope/fieldscope/internal/validation"
	"github.com/fieldscope/fieldscope/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvFieldScopeEnv             = "FIELDSCOPE_ENV"
	EnvFieldScopeShutdownTimeout = "FIELDSCOPE_SHUTDOWN_TIMEOUT"
	EnvFieldScopeVersion         = "FIELDSCOPE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "FIELDSCOPE_DB_HOST",
	Port:            "FIELDSCOPE_DB_PORT",
	Name:            "FIELDSCOPE_DB_NAME",
	User:            "FIELDSCOPE_DB_USER",
	Password:        "FIELDSCOPE_DB_PASSWORD",
	SSLMode:         "FIELDSCOPE_DB_SSL_MODE",
	MaxOpenConns:    "FIELDSCOPE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "FIELDSCOPE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "FIELDSCOPE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "FIELDSCOPE_DB_CONN_TIMEOUT",
}

var oracleEnv = &validation.Env{
	BaseURL:     "FIELDSCOPE_ORACLE_BASE_URL",
	APIKey:      "FIELDSCOPE_ORACLE_API_KEY",
	TextModel:   "FIELDSCOPE_ORACLE_TEXT_MODEL",
	VisionModel: "FIELDSCOPE_ORACLE_VISION_MODEL",
	CallTimeout: "FIELDSCOPE_ORACLE_CALL_TIMEOUT",
}

// Config is the root configuration for the FieldScope service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Oracle          validation.Config `toml:"oracle"`
	API             APIConfig         `toml:"api"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the FIELDSCOPE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvFieldScopeEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Oracle.Merge(&overlay.Oracle)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Oracle.Finalize(oracleEnv); err != nil {
		return fmt.Errorf("oracle: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvFieldScopeShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvFieldScopeVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvFieldScopeEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
