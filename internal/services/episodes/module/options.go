package module

import "winscope/internal/platform/config"

// Options holds configuration settings for the episodes module
type Options struct {
	Workers int
	OutPath string // intervals csv destination
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	ef := cfg.Prefix("EPISODES_")
	return Options{
		Workers: ef.MayInt("WORKERS", 4),
		OutPath: ef.MayString("OUT_PATH", "toolwindow_intervals.csv"),
	}
}
