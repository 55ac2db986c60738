package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/dmitrijs2005/gophnotes/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	LogLevel          string         `json:"log_level"`
	ImageTickInterval timex.Duration `json:"image_tick_interval"`
	VideoTickInterval timex.Duration `json:"video_tick_interval"`
	FileTickInterval  timex.Duration `json:"file_tick_interval"`
	SummaryCacheSize  int            `json:"summary_cache_size"`
	MetricsAddr       string         `json:"metrics_addr"`
	YesterdayLabel    string         `json:"yesterday_label"`
}

// parseJson overlays cfg with values from the file named by -c/-config.
// Without such a flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.ImageTickInterval.Duration > 0 {
		cfg.ImageTickInterval = jc.ImageTickInterval.Duration
	}
	if jc.VideoTickInterval.Duration > 0 {
		cfg.VideoTickInterval = jc.VideoTickInterval.Duration
	}
	if jc.FileTickInterval.Duration > 0 {
		cfg.FileTickInterval = jc.FileTickInterval.Duration
	}
	if jc.SummaryCacheSize > 0 {
		cfg.SummaryCacheSize = jc.SummaryCacheSize
	}
	if jc.MetricsAddr != "" {
		cfg.MetricsAddr = jc.MetricsAddr
	}
	if jc.YesterdayLabel != "" {
		cfg.YesterdayLabel = jc.YesterdayLabel
	}
	return nil
}
