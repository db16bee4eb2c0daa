package module

import "winscope/internal/platform/config"

// Options holds configuration settings for the plots module
type Options struct {
	Dir string // png destination directory
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	pf := cfg.Prefix("PLOTS_")
	return Options{
		Dir: pf.MayString("DIR", "."),
	}
}
