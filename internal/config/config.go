// Package config provides configuration loading and validation from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`                     // debug, info, warn, error
	ListenAddr        string        `envconfig:"LISTEN_ADDR" default:":8080"`                  // Server listen address
	MetricsListenAddr string        `envconfig:"METRICS_LISTEN_ADDR" default:"localhost:9090"` // Metrics listener address
	DatabasePath      string        `envconfig:"DATABASE_PATH" default:"/data/timingboard.db"` // SQLite database path
	MediaDir          string        `envconfig:"MEDIA_DIR" default:"/data/media"`              // Directory for uploaded zone photos
	MediaPublicURL    string        `envconfig:"MEDIA_PUBLIC_URL" default:"/media"`            // URL prefix for serving uploads
	SessionSecret     string        `envconfig:"SESSION_SECRET"`                               // Required: HMAC key for session tokens
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"24h"`                    // Session token lifetime
	BootstrapAdmin    string        `envconfig:"BOOTSTRAP_ADMIN_EMAIL"`                        // Optional: email that signs up as admin
}

// Load parses configuration from environment variables.
// All configuration options except SESSION_SECRET have sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks all configuration constraints.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET environment variable is required")
	}
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be at least 16 characters")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}
