// Package module implements the events module
package module

import (
	"winscope/internal/modkit"
	"winscope/internal/modkit/repokit"
	"winscope/internal/services/events/domain"
	"winscope/internal/services/events/repo"
	"winscope/internal/services/events/service"
)

// Ports exposed by the events module
type Ports struct {
	Source     domain.SourcePort
	Normalizer domain.NormalizerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new events module
// The source backend is picked from config (csv file, postgres, clickhouse);
// overrides with non-zero fields win over env
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	modkit.Build(append([]modkit.Option{
		modkit.WithName("events"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides.Source != "" {
		cfg.Source = overrides.Source
	}
	if overrides.Path != "" {
		cfg.Path = overrides.Path
	}
	if overrides.Table != "" {
		cfg.Table = overrides.Table
	}
	if overrides.Page != 0 {
		cfg.Page = overrides.Page
	}

	var src domain.SourcePort
	switch cfg.Source {
	case "pg":
		if deps.PG == nil {
			panic("events module: source=pg but no postgres store configured")
		}
		src = repokit.MustBind(repo.NewPG(cfg.Table, cfg.Page), deps.PG)
	case "ch":
		if deps.CH == nil {
			panic("events module: source=ch but no clickhouse store configured")
		}
		src = repo.NewCH(deps.CH, cfg.Table)
	default:
		src = repo.NewCSV(cfg.Path)
	}

	m := &Module{deps: deps}
	m.ports = Ports{
		Source:     src,
		Normalizer: service.New(),
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "events" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
