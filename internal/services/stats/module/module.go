// Package module implements the stats module
package module

import (
	"winscope/internal/modkit"
	"winscope/internal/services/stats/domain"
	"winscope/internal/services/stats/repo"
	"winscope/internal/services/stats/service"
)

// Ports exposed by the stats module
type Ports struct {
	Analyzer domain.AnalyzerPort
	Report   domain.ReportPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new stats module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	modkit.Build(append([]modkit.Option{
		modkit.WithName("stats"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides.SummaryPath != "" {
		cfg.SummaryPath = overrides.SummaryPath
	}
	if overrides.TransitionsPath != "" {
		cfg.TransitionsPath = overrides.TransitionsPath
	}

	m := &Module{deps: deps}
	m.ports = Ports{
		Analyzer: service.New(),
		Report:   repo.NewCSV(cfg.SummaryPath, cfg.TransitionsPath),
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "stats" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
