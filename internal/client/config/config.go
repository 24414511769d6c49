package config

import (
	"fmt"
	"time"
)

// Identity provider variants.
const (
	AuthModeLocal  = "local"
	AuthModeRemote = "remote"
)

// S3 configures the optional bucket export sink. Exports go to ExportDir
// unless Bucket is set.
type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Config holds runtime settings for the meetscribe CLI.
//
// Fields:
//   - BackendBaseURL: base URL of the analysis/auth backend, path prefix included.
//   - Environment: deployment tag shown in logs.
//   - AuthMode: "remote" authenticates against the backend, "local" keeps a
//     simulated account in the local database.
//   - DatabasePath: SQLite file of the local store.
//   - RequestTimeout: per-request HTTP timeout.
//   - WatchInterval: how often the shared store is checked for changes made
//     by other clients.
type Config struct {
	BackendBaseURL string
	Environment    string
	AuthMode       string
	DatabasePath   string
	RequestTimeout time.Duration
	WatchInterval  time.Duration
	LogLevel       string
	LogFormat      string
	ExportDir      string
	S3             S3
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendBaseURL = "http://localhost:8000/api"
	c.Environment = "development"
	c.AuthMode = AuthModeRemote
	c.DatabasePath = "meetscribe.db"
	c.RequestTimeout = 120 * time.Second
	c.WatchInterval = 2 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ExportDir = "exports"
	c.S3 = S3{Region: "us-east-1", Prefix: "meetscribe"}
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.AuthMode != AuthModeLocal && c.AuthMode != AuthModeRemote {
		return fmt.Errorf("auth mode must be %q or %q, got %q", AuthModeLocal, AuthModeRemote, c.AuthMode)
	}
	if c.BackendBaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", c.WatchInterval)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given), the environment and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
