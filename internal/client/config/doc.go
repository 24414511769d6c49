// Package config loads runtime configuration for the meetscribe CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c/-config or MEETSCRIBE_CONFIG.
//     The extension picks the format: .toml, .yaml/.yml, otherwise JSON.
//  3. MEETSCRIBE_* environment variables.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string   backend base URL
//	-e string   environment tag
//	-m string   auth mode (local or remote)
//	-d string   local database file
//	-t int      request timeout (seconds)
//	-w int      shared store watch interval (seconds)
//	-l string   log level
//	-o string   export directory
//
// # File schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds. The same keys apply to every format:
//
//	{
//	  "backend_base_url": "https://meetscribe.example.com/api",
//	  "auth_mode": "remote",
//	  "request_timeout": "2m",
//	  "watch_interval": "2s",
//	  "s3": {"bucket": "meetings", "endpoint": "http://localhost:9000"}
//	}
package config
