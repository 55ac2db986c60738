package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the notes client.
type Config struct {
	LogLevel string

	// Delays between simulated upload ticks, per attachment kind.
	ImageTickInterval time.Duration
	VideoTickInterval time.Duration
	FileTickInterval  time.Duration

	// SummaryCacheSize bounds the number of conversation rows kept derived.
	SummaryCacheSize int

	// MetricsAddr is the host:port for /metrics; empty disables the endpoint.
	MetricsAddr string

	// YesterdayLabel is shown for notes from the previous calendar day.
	YesterdayLabel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.LogLevel = "info"
	c.ImageTickInterval = 80 * time.Millisecond
	c.VideoTickInterval = 100 * time.Millisecond
	c.FileTickInterval = 100 * time.Millisecond
	c.SummaryCacheSize = 256
	c.MetricsAddr = ""
	c.YesterdayLabel = "Yesterday"
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.ImageTickInterval <= 0 || c.VideoTickInterval <= 0 || c.FileTickInterval <= 0 {
		return fmt.Errorf("tick intervals must be positive")
	}
	if c.SummaryCacheSize <= 0 {
		return fmt.Errorf("summary cache size must be positive, got %d", c.SummaryCacheSize)
	}
	return nil
}

// LoadConfig applies defaults, then the JSON file (if any), then flags from
// os.Args. Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
