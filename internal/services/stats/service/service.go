// Package service implements interval statistics
package service

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"winscope/internal/platform/logger"
	epdom "winscope/internal/services/episodes/domain"
	evdom "winscope/internal/services/events/domain"
	"winscope/internal/services/stats/domain"
)

// Service computes the per-category duration summaries, the Welch
// significance test, and the implicit-close transition matrix
type Service struct{}

// New constructs a stats service
func New() *Service { return &Service{} }

// Summarize returns one distribution summary per known open type that has
// at least one complete interval, ordered by category label (auto before
// manual)
func (s *Service) Summarize(ctx context.Context, xs []epdom.Interval) []domain.Summary {
	groups := groupDurationsMS(xs)

	out := make([]domain.Summary, 0, 2)
	for _, ot := range []evdom.OpenType{evdom.OpenTypeAuto, evdom.OpenTypeManual} {
		ds := groups[ot]
		if len(ds) == 0 {
			continue
		}
		sort.Float64s(ds)
		sum := domain.Summary{
			OpenType: ot,
			N:        len(ds),
			MeanMS:   stat.Mean(ds, nil),
			MedianMS: stat.Quantile(0.50, stat.LinInterp, ds, nil),
			P25MS:    stat.Quantile(0.25, stat.LinInterp, ds, nil),
			P75MS:    stat.Quantile(0.75, stat.LinInterp, ds, nil),
			P90MS:    stat.Quantile(0.90, stat.LinInterp, ds, nil),
		}
		if len(ds) > 1 {
			sum.StdMS = stat.StdDev(ds, nil)
		}
		out = append(out, sum)
	}
	return out
}

// Welch runs a two-sample Welch's t-test on log duration seconds, auto
// minus manual. Durations <= 0 cannot enter the log domain and are
// skipped (counted in the result). ok is false when either group ends up
// with fewer than two observations
func (s *Service) Welch(ctx context.Context, xs []epdom.Interval) (domain.WelchResult, bool) {
	groups := groupDurationsMS(xs)

	var res domain.WelchResult
	logsOf := func(ds []float64) []float64 {
		out := make([]float64, 0, len(ds))
		for _, d := range ds {
			if d <= 0 {
				res.SkippedNonPositive++
				continue
			}
			out = append(out, math.Log(d/1000.0))
		}
		return out
	}

	manual := logsOf(groups[evdom.OpenTypeManual])
	auto := logsOf(groups[evdom.OpenTypeAuto])
	res.NManual, res.NAuto = len(manual), len(auto)
	if len(manual) < 2 || len(auto) < 2 {
		logger.C(ctx).Warn().
			Int("n_manual", res.NManual).
			Int("n_auto", res.NAuto).
			Msg("not enough data for welch test")
		return res, false
	}

	mA, vA := stat.MeanVariance(auto, nil)
	mM, vM := stat.MeanVariance(manual, nil)
	nA, nM := float64(len(auto)), float64(len(manual))

	se2 := vA/nA + vM/nM
	res.TStat = (mA - mM) / math.Sqrt(se2)
	res.DF = se2 * se2 / (vA*vA/(nA*nA*(nA-1)) + vM*vM/(nM*nM*(nM-1)))
	res.Ratio = math.Exp(mA - mM)

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: res.DF}
	res.PValue = 2 * t.CDF(-math.Abs(res.TStat))
	return res, true
}

// Transitions counts, over implicitly closed intervals, the open type of
// the interval that replaced each one. Emission order within a user is
// chronological, so the successor is simply the next interval with the
// same user id
func (s *Service) Transitions(ctx context.Context, xs []epdom.Interval) domain.TransitionMatrix {
	m := make(domain.TransitionMatrix)
	for i := range xs {
		if !xs[i].ImplicitClose {
			continue
		}
		if i+1 >= len(xs) || xs[i+1].UserID != xs[i].UserID {
			// cannot happen for a well-formed interval set; an implicit
			// close is always caused by the user's next open
			continue
		}
		m[domain.TransitionKey{Prev: xs[i].OpenType, Next: xs[i+1].OpenType}]++
	}
	return m
}

// groupDurationsMS buckets complete, known-category durations by open type
func groupDurationsMS(xs []epdom.Interval) map[evdom.OpenType][]float64 {
	groups := make(map[evdom.OpenType][]float64, 2)
	for i := range xs {
		if !xs[i].Comparable() {
			continue
		}
		d, ok := xs[i].DurationMS()
		if !ok {
			continue
		}
		groups[xs[i].OpenType] = append(groups[xs[i].OpenType], float64(d))
	}
	return groups
}
