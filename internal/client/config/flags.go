package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-l string   log level
//	-m string   metrics listen address
//	-t int      image tick interval in milliseconds
//
// Only these flags are considered; everything else in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-l", "-m", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	imageTick := fs.Int("t", int(cfg.ImageTickInterval.Milliseconds()), "image upload tick interval (ms)")

	if err := fs.Parse(filtered); err != nil {
		return err
	}

	cfg.ImageTickInterval = time.Duration(*imageTick) * time.Millisecond
	return nil
}
