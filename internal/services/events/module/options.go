package module

import "winscope/internal/platform/config"

// Options holds configuration settings for the events module
type Options struct {
	Source string // "csv" | "pg" | "ch"
	Path   string // csv file path
	Table  string // pg/ch table name
	Page   int    // pg page size
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	ef := cfg.Prefix("EVENTS_")
	return Options{
		Source: ef.MayEnum("SOURCE", "csv", "csv", "pg", "ch"),
		Path:   ef.MayString("PATH", "toolwindow_data.csv"),
		Table:  ef.MayString("TABLE", "toolwindow_events"),
		Page:   ef.MayInt("PAGE_SIZE", 10000),
	}
}
