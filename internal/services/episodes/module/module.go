// Package module implements the episodes module
package module

import (
	"winscope/internal/modkit"
	"winscope/internal/services/episodes/domain"
	"winscope/internal/services/episodes/repo"
	"winscope/internal/services/episodes/service"
)

// Ports exposed by the episodes module
type Ports struct {
	Reconstructor domain.ReconstructorPort
	Sink          domain.SinkPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new episodes module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	modkit.Build(append([]modkit.Option{
		modkit.WithName("episodes"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}
	if overrides.OutPath != "" {
		cfg.OutPath = overrides.OutPath
	}

	m := &Module{deps: deps}
	m.ports = Ports{
		Reconstructor: service.New(service.Config{Workers: cfg.Workers}),
		Sink:          repo.NewCSV(cfg.OutPath),
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "episodes" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
