package module

import "winscope/internal/platform/config"

// Options holds configuration settings for the stats module
type Options struct {
	SummaryPath     string
	TransitionsPath string
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	sf := cfg.Prefix("STATS_")
	return Options{
		SummaryPath:     sf.MayString("SUMMARY_PATH", "summary_by_open_type.csv"),
		TransitionsPath: sf.MayString("TRANSITIONS_PATH", "implicit_transition_counts.csv"),
	}
}
