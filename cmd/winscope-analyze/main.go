// Command winscope-analyze runs the full pipeline: read events, normalize,
// reconstruct intervals, then write the interval set, summary statistics,
// significance test, transition counts and comparison figures
package main

import (
	"context"
	"flag"
	"path/filepath"

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
	plmod "winscope/internal/services/plots/module"
	stmod "winscope/internal/services/stats/module"
)

type options struct {
	Source  string `flag:"source" validate:"required,oneof=csv pg ch"`
	Input   string `flag:"input" validate:"required_if=Source csv"`
	Table   string `flag:"table" validate:"required"`
	Page    int    `flag:"page" validate:"gte=1"`
	Workers int    `flag:"workers" validate:"gte=1"`
	OutDir  string `flag:"out-dir" validate:"required"`
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
	flag.StringVar(&opt.OutDir, "out-dir", ".", "output directory")
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
		Msg("winscope analyze starting")

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
		OutPath: filepath.Join(opt.OutDir, "toolwindow_intervals.csv"),
	})
	sm := stmod.New(deps, stmod.Options{
		SummaryPath:     filepath.Join(opt.OutDir, "summary_by_open_type.csv"),
		TransitionsPath: filepath.Join(opt.OutDir, "implicit_transition_counts.csv"),
	})
	pl := plmod.New(deps, plmod.Options{Dir: opt.OutDir})

	module.Register(ev.Name(), ev.Ports())
	module.Register(ep.Name(), ep.Ports())
	module.Register(sm.Name(), sm.Ports())
	module.Register(pl.Name(), pl.Ports())

	evp := ev.Ports().(evmod.Ports)
	epp := ep.Ports().(epmod.Ports)
	smp := sm.Ports().(stmod.Ports)
	plp := pl.Ports().(plmod.Ports)

	stream, nstats, err := evp.Normalizer.Normalize(ctx, evp.Source)
	if err != nil {
		l.Fatal().Err(err).Msg("normalize failed")
	}
	if nstats.Kept == 0 {
		l.Warn().Int("input", nstats.Input).Msg("no usable events; outputs will be empty")
	}

	intervals, rstats, err := epp.Reconstructor.Run(ctx, stream)
	if err != nil {
		l.Fatal().Err(err).Msg("reconstruction failed")
	}
	if err := epp.Sink.WriteIntervals(ctx, intervals); err != nil {
		l.Fatal().Err(err).Msg("write intervals failed")
	}

	summary := smp.Analyzer.Summarize(ctx, intervals)
	if err := smp.Report.WriteSummary(ctx, summary); err != nil {
		l.Fatal().Err(err).Msg("write summary failed")
	}

	if w, ok := smp.Analyzer.Welch(ctx, intervals); ok {
		l.Info().
			Float64("t", w.TStat).
			Float64("p", w.PValue).
			Float64("df", w.DF).
			Float64("ratio_auto_over_manual", w.Ratio).
			Int("n_manual", w.NManual).
			Int("n_auto", w.NAuto).
			Int("skipped_nonpositive", w.SkippedNonPositive).
			Msg("welch test on log durations")
	}

	trans := smp.Analyzer.Transitions(ctx, intervals)
	if err := smp.Report.WriteTransitions(ctx, trans); err != nil {
		l.Fatal().Err(err).Msg("write transitions failed")
	}

	figs, err := plp.Renderer.Render(ctx, intervals)
	if err != nil {
		l.Fatal().Err(err).Msg("render plots failed")
	}

	fin := l.Info().
		Str("run_id", runID).
		Int("input", nstats.Input).
		Int("kept", nstats.Kept).
		Int("bad_timestamp", nstats.BadTimestamp).
		Int("bad_kind", nstats.BadKind).
		Int("unknown_open_type", nstats.UnknownOpenType).
		Int("users", rstats.Users).
		Int("intervals", rstats.Intervals).
		Int("orphan_closes", rstats.OrphanCloses).
		Int("implicit_closes", rstats.ImplicitCloses).
		Int("censored", rstats.Censored).
		Strs("figures", figs)
	if nstats.Kept > 0 {
		fin = fin.
			Time("first_event", ptime.FromMillis(nstats.FirstTS)).
			Time("last_event", ptime.FromMillis(nstats.LastTS))
	}
	fin.Msg("winscope analyze finished")
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
