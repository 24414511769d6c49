package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/meetscribe/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   backend base URL
//	-e string   environment tag
//	-m string   auth mode: local or remote
//	-d string   local database file
//	-t int      request timeout in seconds
//	-w int      shared store watch interval in seconds
//	-l string   log level
//	-o string   export directory
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-e", "-m", "-d", "-t", "-w", "-l", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BackendBaseURL, "u", cfg.BackendBaseURL, "backend base URL")
	fs.StringVar(&cfg.Environment, "e", cfg.Environment, "environment tag")
	fs.StringVar(&cfg.AuthMode, "m", cfg.AuthMode, "auth mode (local or remote)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	watchInterval := fs.Int("w", int(cfg.WatchInterval.Seconds()), "shared store watch interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.ExportDir, "o", cfg.ExportDir, "export directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only explicitly given durations replace sub-second values from files.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		case "w":
			cfg.WatchInterval = time.Duration(*watchInterval) * time.Second
		}
	})
}
