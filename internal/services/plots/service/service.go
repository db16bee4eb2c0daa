// Package service renders the duration comparison figures
package service

import (
	"context"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	perr "winscope/internal/platform/errors"
	epdom "winscope/internal/services/episodes/domain"
	evdom "winscope/internal/services/events/domain"
)

// minSeconds is the floor applied before any log axis; zero durations are
// real data but cannot be drawn in the log domain
const minSeconds = 1e-6

// Config for the plot renderer
type Config struct {
	Dir string
}

// Service implements domain.RendererPort with gonum/plot png output
type Service struct {
	Cfg Config
}

// New constructs a plot renderer
func New(cfg Config) *Service {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	return &Service{Cfg: cfg}
}

// Render writes the four figures and returns their paths. With no
// comparable data it writes nothing and returns an empty slice
func (s *Service) Render(ctx context.Context, xs []epdom.Interval) ([]string, error) {
	manual, auto := secondsByType(xs)
	if len(manual) == 0 && len(auto) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(s.Cfg.Dir, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "create plot dir %q", s.Cfg.Dir)
	}

	steps := []struct {
		name   string
		render func(path string) error
	}{
		{"plot_counts_by_open_type.png", func(p string) error { return s.counts(p, len(manual), len(auto)) }},
		{"plot_hist_log_seconds.png", func(p string) error { return s.histogram(p, manual, auto) }},
		{"plot_ecdf_log_seconds.png", func(p string) error { return s.ecdf(p, manual, auto) }},
		{"plot_boxplot_log_seconds.png", func(p string) error { return s.boxplot(p, manual, auto) }},
	}

	out := make([]string, 0, len(steps))
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		path := filepath.Join(s.Cfg.Dir, st.name)
		if err := st.render(path); err != nil {
			return out, perr.Wrapf(err, perr.ErrorCodeUnknown, "render %q", st.name)
		}
		out = append(out, path)
	}
	return out, nil
}

func (s *Service) counts(path string, nManual, nAuto int) error {
	p := plot.New()
	p.Title.Text = "Toolwindow intervals by open type"
	p.Y.Label.Text = "intervals"

	bars, err := plotter.NewBarChart(plotter.Values{float64(nManual), float64(nAuto)}, vg.Points(40))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = 0
	bars.Color = plotutil.Color(0)

	p.Add(bars)
	p.NominalX("manual", "auto")
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func (s *Service) histogram(path string, manual, auto []float64) error {
	p := plot.New()
	p.Title.Text = "Duration distribution (log10 seconds)"
	p.X.Label.Text = "log10(duration s)"
	p.Y.Label.Text = "intervals"

	add := func(name string, xs []float64, c color.NRGBA) error {
		if len(xs) == 0 {
			return nil
		}
		vals := make(plotter.Values, len(xs))
		for i, v := range xs {
			vals[i] = math.Log10(v)
		}
		h, err := plotter.NewHist(vals, 40)
		if err != nil {
			return err
		}
		h.FillColor = c
		h.LineStyle.Width = 0
		p.Add(h)
		p.Legend.Add(name, h)
		return nil
	}

	if err := add("manual", manual, color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0x90}); err != nil {
		return err
	}
	if err := add("auto", auto, color.NRGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0x90}); err != nil {
		return err
	}
	p.Legend.Top = true
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func (s *Service) ecdf(path string, manual, auto []float64) error {
	p := plot.New()
	p.Title.Text = "Duration ECDF"
	p.X.Label.Text = "duration (s)"
	p.Y.Label.Text = "fraction"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}

	add := func(name string, xs []float64, idx int) error {
		if len(xs) == 0 {
			return nil
		}
		sorted := append([]float64(nil), xs...)
		sort.Float64s(sorted)
		pts := make(plotter.XYs, len(sorted))
		for i, v := range sorted {
			pts[i] = plotter.XY{X: v, Y: float64(i+1) / float64(len(sorted))}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		l.StepStyle = plotter.PostStep
		l.Color = plotutil.Color(idx)
		p.Add(l)
		p.Legend.Add(name, l)
		return nil
	}

	if err := add("manual", manual, 0); err != nil {
		return err
	}
	if err := add("auto", auto, 1); err != nil {
		return err
	}
	p.Legend.Top = true
	p.Legend.Left = true
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func (s *Service) boxplot(path string, manual, auto []float64) error {
	p := plot.New()
	p.Title.Text = "Duration by open type (log10 seconds)"
	p.Y.Label.Text = "log10(duration s)"

	add := func(xs []float64, loc float64) error {
		if len(xs) == 0 {
			return nil
		}
		vals := make(plotter.Values, len(xs))
		for i, v := range xs {
			vals[i] = math.Log10(v)
		}
		b, err := plotter.NewBoxPlot(vg.Points(40), loc, vals)
		if err != nil {
			return err
		}
		p.Add(b)
		return nil
	}

	if err := add(manual, 0); err != nil {
		return err
	}
	if err := add(auto, 1); err != nil {
		return err
	}
	p.NominalX("manual", "auto")
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// secondsByType buckets comparable durations in seconds, floored for the
// log domain
func secondsByType(xs []epdom.Interval) (manual, auto []float64) {
	for i := range xs {
		if !xs[i].Comparable() {
			continue
		}
		d, ok := xs[i].DurationMS()
		if !ok {
			continue
		}
		s := math.Max(float64(d)/1000.0, minSeconds)
		switch xs[i].OpenType {
		case evdom.OpenTypeManual:
			manual = append(manual, s)
		case evdom.OpenTypeAuto:
			auto = append(auto, s)
		}
	}
	return manual, auto
}
