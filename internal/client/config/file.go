package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/meetscribe/internal/flagx"
	"github.com/dmitrijs2005/meetscribe/internal/timex"
	"gopkg.in/yaml.v3"
)

// EnvConfigFile names the variable consulted when no -c/-config flag is given.
const EnvConfigFile = "MEETSCRIBE_CONFIG"

// FileConfig is a DTO used exclusively for config file unmarshalling.
// Durations use timex.Duration so files can spell them as "3s" or as integer
// nanoseconds. Empty fields leave the current value untouched.
type FileConfig struct {
	BackendBaseURL string         `json:"backend_base_url" toml:"backend_base_url" yaml:"backend_base_url"`
	Environment    string         `json:"environment" toml:"environment" yaml:"environment"`
	AuthMode       string         `json:"auth_mode" toml:"auth_mode" yaml:"auth_mode"`
	DatabasePath   string         `json:"database_path" toml:"database_path" yaml:"database_path"`
	RequestTimeout timex.Duration `json:"request_timeout" toml:"request_timeout" yaml:"request_timeout"`
	WatchInterval  timex.Duration `json:"watch_interval" toml:"watch_interval" yaml:"watch_interval"`
	LogLevel       string         `json:"log_level" toml:"log_level" yaml:"log_level"`
	LogFormat      string         `json:"log_format" toml:"log_format" yaml:"log_format"`
	ExportDir      string         `json:"export_dir" toml:"export_dir" yaml:"export_dir"`
	S3             FileS3         `json:"s3" toml:"s3" yaml:"s3"`
}

type FileS3 struct {
	Bucket    string `json:"bucket" toml:"bucket" yaml:"bucket"`
	Region    string `json:"region" toml:"region" yaml:"region"`
	Endpoint  string `json:"endpoint" toml:"endpoint" yaml:"endpoint"`
	AccessKey string `json:"access_key" toml:"access_key" yaml:"access_key"`
	SecretKey string `json:"secret_key" toml:"secret_key" yaml:"secret_key"`
	Prefix    string `json:"prefix" toml:"prefix" yaml:"prefix"`
}

// parseFile overlays Config with values from the file named by -c/-config or
// MEETSCRIBE_CONFIG. The format follows the extension: .toml, .yaml/.yml,
// anything else is JSON. ${VAR} references are expanded first. Panics on
// read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:], EnvConfigFile)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc, err := decodeFile(path, []byte(os.ExpandEnv(string(data))))
	if err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func decodeFile(path string, data []byte) (*FileConfig, error) {
	var fc FileConfig
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err = toml.Decode(string(data), &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.BackendBaseURL, fc.BackendBaseURL)
	setString(&cfg.Environment, fc.Environment)
	setString(&cfg.AuthMode, fc.AuthMode)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.ExportDir, fc.ExportDir)
	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.WatchInterval.Duration != 0 {
		cfg.WatchInterval = fc.WatchInterval.Duration
	}

	setString(&cfg.S3.Bucket, fc.S3.Bucket)
	setString(&cfg.S3.Region, fc.S3.Region)
	setString(&cfg.S3.Endpoint, fc.S3.Endpoint)
	setString(&cfg.S3.AccessKey, fc.S3.AccessKey)
	setString(&cfg.S3.SecretKey, fc.S3.SecretKey)
	setString(&cfg.S3.Prefix, fc.S3.Prefix)
}
