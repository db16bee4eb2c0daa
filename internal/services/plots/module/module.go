// Package module implements the plots module
package module

import (
	"winscope/internal/modkit"
	"winscope/internal/services/plots/domain"
	"winscope/internal/services/plots/service"
)

// Ports exposed by the plots module
type Ports struct {
	Renderer domain.RendererPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new plots module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	modkit.Build(append([]modkit.Option{
		modkit.WithName("plots"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides.Dir != "" {
		cfg.Dir = overrides.Dir
	}

	m := &Module{deps: deps}
	m.ports = Ports{
		Renderer: service.New(service.Config{Dir: cfg.Dir}),
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "plots" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
