// Package config loads runtime configuration for the notes client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config (see parseJson).
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-l string   log level: debug, info, warn, error
//	-m string   listen address for the Prometheus endpoint (empty disables it)
//	-t int      image upload tick interval (milliseconds)
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "80ms" or
// integer nanoseconds:
//
//	{
//	  "log_level": "debug",
//	  "image_tick_interval": "80ms",
//	  "video_tick_interval": "100ms",
//	  "file_tick_interval": "100ms",
//	  "summary_cache_size": 256,
//	  "metrics_addr": "127.0.0.1:9100",
//	  "yesterday_label": "Yesterday"
//	}
//
// Zero or empty JSON values leave the earlier value untouched.
package config
