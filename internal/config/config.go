// Package config provides configuration loading for convsplit.
//
// Configuration is assembled from defaults, an optional YAML file, an optional
// .env file and CONVSPLIT_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete convsplit configuration.
type Config struct {
	Roles   RolesConfig   `koanf:"roles"`
	Export  ExportConfig  `koanf:"export"`
	Server  ServerConfig  `koanf:"server"`
	Watch   WatchConfig   `koanf:"watch"`
	Search  SearchConfig  `koanf:"search"`
	Logging LoggingConfig `koanf:"logging"`
}

// RolesConfig holds the display names used when rendering message authors.
type RolesConfig struct {
	User      string `koanf:"user"`
	Assistant string `koanf:"assistant"`
	System    string `koanf:"system"`
}

// ExportConfig holds export orchestration settings.
type ExportConfig struct {
	Prefix    string `koanf:"prefix"`
	Suffix    string `koanf:"suffix"`
	OutputDir string `koanf:"output_dir"`
	Redact    bool   `koanf:"redact"`
	Allowlist string `koanf:"allowlist"` // TOML allowlist for secret redaction
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	MaxUploadMB     int      `koanf:"max_upload_mb"`
}

// WatchConfig controls archive reloading when the file changes on disk.
type WatchConfig struct {
	Enabled  bool     `koanf:"enabled"`
	Debounce Duration `koanf:"debounce"`
}

// SearchConfig controls global search output.
type SearchConfig struct {
	SnippetRadius int `koanf:"snippet_radius"`
	MaxHits       int `koanf:"max_hits"`
}

// LoggingConfig is the subset of logging settings exposed in the config file.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Roles.User == "" {
		cfg.Roles.User = "User"
	}
	if cfg.Roles.Assistant == "" {
		cfg.Roles.Assistant = "Assistant"
	}
	if cfg.Roles.System == "" {
		cfg.Roles.System = "System"
	}

	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = "."
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8787
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 256
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = Duration(500 * time.Millisecond)
	}

	if cfg.Search.SnippetRadius == 0 {
		cfg.Search.SnippetRadius = 40
	}
	if cfg.Search.MaxHits == 0 {
		cfg.Search.MaxHits = 200
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// Validate validates the configuration.
//
// Returns an error if:
//   - a role display name is empty
//   - server port is not between 1 and 65535
//   - shutdown timeout or upload limit is not positive
//   - search limits are negative
//   - logging format is not json or console
func (c *Config) Validate() error {
	if c.Roles.User == "" || c.Roles.Assistant == "" || c.Roles.System == "" {
		return errors.New("role display names must not be empty")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.Server.MaxUploadMB)
	}

	if c.Search.SnippetRadius < 0 {
		return fmt.Errorf("snippet radius must be >= 0, got %d", c.Search.SnippetRadius)
	}
	if c.Search.MaxHits < 0 {
		return fmt.Errorf("max hits must be >= 0, got %d", c.Search.MaxHits)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
