package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8000/api", c.BackendBaseURL)
	assert.Equal(t, AuthModeRemote, c.AuthMode)
	assert.Equal(t, "meetscribe.db", c.DatabasePath)
	assert.Equal(t, 120*time.Second, c.RequestTimeout)
	assert.Equal(t, 2*time.Second, c.WatchInterval)
	assert.Equal(t, "us-east-1", c.S3.Region)
	assert.Empty(t, c.S3.Bucket)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Setenv(EnvConfigFile, "")

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:8000/api", cfg.BackendBaseURL)
	assert.Equal(t, 2*time.Second, cfg.WatchInterval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempFile(t, "cfg.yaml", `
backend_base_url: https://file.example/api
environment: staging
auth_mode: local
watch_interval: 5s
`)
	t.Setenv("MEETSCRIBE_ENV", "production")
	t.Setenv("MEETSCRIBE_AUTH_MODE", "remote")
	os.Args = []string{"testbin", "-c", path, "-m", "local"}

	cfg := LoadConfig()

	assert.Equal(t, "https://file.example/api", cfg.BackendBaseURL, "file over defaults")
	assert.Equal(t, "production", cfg.Environment, "env over file")
	assert.Equal(t, AuthModeLocal, cfg.AuthMode, "flags over env")
	assert.Equal(t, 5*time.Second, cfg.WatchInterval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"local mode", func(c *Config) { c.AuthMode = AuthModeLocal }, false},
		{"unknown mode", func(c *Config) { c.AuthMode = "oauth" }, true},
		{"no url", func(c *Config) { c.BackendBaseURL = "" }, true},
		{"no db", func(c *Config) { c.DatabasePath = "" }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"negative watch", func(c *Config) { c.WatchInterval = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}
