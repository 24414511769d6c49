package config

import (
	"os"

	"github.com/dmitrijs2005/meetscribe/internal/timex"
)

// parseEnv overlays Config with MEETSCRIBE_* variables. Durations accept Go
// duration strings or integer nanoseconds. Panics on malformed durations.
func parseEnv(cfg *Config) {
	setString(&cfg.BackendBaseURL, os.Getenv("MEETSCRIBE_BACKEND_URL"))
	setString(&cfg.Environment, os.Getenv("MEETSCRIBE_ENV"))
	setString(&cfg.AuthMode, os.Getenv("MEETSCRIBE_AUTH_MODE"))
	setString(&cfg.DatabasePath, os.Getenv("MEETSCRIBE_DB"))
	setString(&cfg.LogLevel, os.Getenv("MEETSCRIBE_LOG_LEVEL"))
	setString(&cfg.LogFormat, os.Getenv("MEETSCRIBE_LOG_FORMAT"))
	setString(&cfg.ExportDir, os.Getenv("MEETSCRIBE_EXPORT_DIR"))

	if v := os.Getenv("MEETSCRIBE_REQUEST_TIMEOUT"); v != "" {
		cfg.RequestTimeout = envDuration(v).Duration
	}
	if v := os.Getenv("MEETSCRIBE_WATCH_INTERVAL"); v != "" {
		cfg.WatchInterval = envDuration(v).Duration
	}

	setString(&cfg.S3.Bucket, os.Getenv("MEETSCRIBE_S3_BUCKET"))
	setString(&cfg.S3.Region, os.Getenv("MEETSCRIBE_S3_REGION"))
	setString(&cfg.S3.Endpoint, os.Getenv("MEETSCRIBE_S3_ENDPOINT"))
	setString(&cfg.S3.AccessKey, os.Getenv("MEETSCRIBE_S3_ACCESS_KEY"))
	setString(&cfg.S3.SecretKey, os.Getenv("MEETSCRIBE_S3_SECRET_KEY"))
	setString(&cfg.S3.Prefix, os.Getenv("MEETSCRIBE_S3_PREFIX"))
}

func envDuration(v string) (d timex.Duration) {
	if err := d.UnmarshalText([]byte(v)); err != nil {
		panic(err)
	}
	return d
}
