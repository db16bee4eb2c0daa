// Command winscope-reconstruct runs ingestion and reconstruction only:
// read events, normalize, rebuild intervals, write the interval csv and
// log diagnostics. For pipelines that do their own downstream analysis
package main

import (
	"context"
	"flag"

	"github.com/google/uuid"

	"winscope/internal/core/version"
	"winscope/internal/modkit"
	"winscope/internal/modkit/module"
	"winscope/internal/modkit/repokit"
	"winscope/internal/platform/config"
	"winscope/internal/platform/logger"
	"winscope/internal/platform/store"
	ptime "winscope/internal/platform/time"
	"winscope/internal/platform/validate"

	epmod "winscope/internal/services/episodes/module"
	evmod "winscope/internal/services/events/module"
)

type options struct {
	Source  string `flag:"source" validate:"required,oneof=csv pg ch"`
	Input   string `flag:"input" validate:"required_if=Source csv"`
	Table   string `flag:"table" validate:"required"`
	Page    int    `flag:"page" validate:"gte=1"`
	Workers int    `flag:"workers" validate:"gte=1"`
	Out     string `flag:"out" validate:"required"`
}

func main() {
	root := config.New()
	l := logger.Get()

	var opt options
	flag.StringVar(&opt.Source, "source", "csv", "event source backend (csv, pg, ch)")
	flag.StringVar(&opt.Input, "input", "", "event log csv path (source=csv)")
	flag.StringVar(&opt.Table, "table", "toolwindow_events", "event table (source=pg or ch)")
	flag.IntVar(&opt.Page, "page", 5000, "page size (rows, source=pg)")
	flag.IntVar(&opt.Workers, "workers", 4, "reconstruction concurrency (>=1)")
	flag.StringVar(&opt.Out, "out", "toolwindow_intervals.csv", "interval csv destination")
	flag.Parse()

	if err := validate.Struct(opt); err != nil {
		l.Fatal().Err(err).Msg("bad flags")
	}

	runID := uuid.NewString()
	ctx := logger.WithRun(context.Background(), runID, opt.Source)

	bi := version.Info()
	l.Info().
		Str("run_id", runID).
		Str("version", bi.Version).
		Str("source", opt.Source).
		Msg("winscope reconstruct starting")

	st := openStore(ctx, root, opt.Source, l)
	if st != nil {
		defer func() {
			if err := st.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		}()
	}

	deps := modkit.Deps{Cfg: root, Log: *l}
	if st != nil {
		deps.PG = st.PG
		deps.CH = st.CH
	}

	ev := evmod.New(deps, evmod.Options{
		Source: opt.Source,
		Path:   opt.Input,
		Table:  opt.Table,
		Page:   opt.Page,
	})
	ep := epmod.New(deps, epmod.Options{
		Workers: opt.Workers,
		OutPath: opt.Out,
	})

	module.Register(ev.Name(), ev.Ports())
	module.Register(ep.Name(), ep.Ports())

	evp := ev.Ports().(evmod.Ports)
	epp := ep.Ports().(epmod.Ports)

	stream, nstats, err := evp.Normalizer.Normalize(ctx, evp.Source)
	if err != nil {
		l.Fatal().Err(err).Msg("normalize failed")
	}
	if nstats.Kept == 0 {
		l.Warn().Int("input", nstats.Input).Msg("no usable events; interval set will be empty")
	}

	intervals, rstats, err := epp.Reconstructor.Run(ctx, stream)
	if err != nil {
		l.Fatal().Err(err).Msg("reconstruction failed")
	}
	if err := epp.Sink.WriteIntervals(ctx, intervals); err != nil {
		l.Fatal().Err(err).Msg("write intervals failed")
	}

	fin := l.Info().
		Str("run_id", runID).
		Str("out", opt.Out).
		Int("input", nstats.Input).
		Int("kept", nstats.Kept).
		Int("bad_timestamp", nstats.BadTimestamp).
		Int("bad_kind", nstats.BadKind).
		Int("unknown_open_type", nstats.UnknownOpenType).
		Int("users", rstats.Users).
		Int("intervals", rstats.Intervals).
		Int("orphan_closes", rstats.OrphanCloses).
		Int("implicit_closes", rstats.ImplicitCloses).
		Int("censored", rstats.Censored)
	if nstats.Kept > 0 {
		fin = fin.
			Time("first_event", ptime.FromMillis(nstats.FirstTS)).
			Time("last_event", ptime.FromMillis(nstats.LastTS))
	}
	fin.Msg("winscope reconstruct finished")
}

// openStore opens only the backend the chosen source needs; csv runs
// storeless
func openStore(ctx context.Context, root config.Conf, source string, l *logger.Logger) *store.Store {
	cfg := store.Config{}
	switch source {
	case "pg":
		pgCfg := root.Prefix("SERVICE_PGSQL_")
		cfg.PG = store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		}
	case "ch":
		chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
		cfg.CH = store.CHConfig{
			Enabled: true,
			URL:     chCfg.MustString("DBURL"),
		}
	default:
		return nil
	}

	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	repokit.MustGuard(ctx, st)
	return st
}
