// Package repo provides statistics report writers
package repo

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	perr "winscope/internal/platform/errors"
	evdom "winscope/internal/services/events/domain"
	"winscope/internal/services/stats/domain"
)

// CSVReport writes summary and transition outputs as headered csv files
type CSVReport struct {
	SummaryPath     string
	TransitionsPath string
}

// NewCSV constructs a csv report writer
func NewCSV(summaryPath, transitionsPath string) *CSVReport {
	return &CSVReport{SummaryPath: summaryPath, TransitionsPath: transitionsPath}
}

// WriteSummary writes one row per open type
func (r *CSVReport) WriteSummary(ctx context.Context, rows []domain.Summary) error {
	return writeCSV(ctx, r.SummaryPath,
		[]string{"open_type", "n", "mean_ms", "median_ms", "p25_ms", "p75_ms", "p90_ms", "std_ms"},
		len(rows),
		func(i int) []string {
			s := rows[i]
			return []string{
				s.OpenType.String(),
				strconv.Itoa(s.N),
				formatMS(s.MeanMS),
				formatMS(s.MedianMS),
				formatMS(s.P25MS),
				formatMS(s.P75MS),
				formatMS(s.P90MS),
				formatMS(s.StdMS),
			}
		})
}

// WriteTransitions writes the matrix in long form, one row per observed
// previous->next pair, ordered by category
func (r *CSVReport) WriteTransitions(ctx context.Context, m domain.TransitionMatrix) error {
	keys := make([]domain.TransitionKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Prev != keys[j].Prev {
			return keys[i].Prev < keys[j].Prev
		}
		return keys[i].Next < keys[j].Next
	})

	return writeCSV(ctx, r.TransitionsPath,
		[]string{"from_open_type", "to_open_type", "count"},
		len(keys),
		func(i int) []string {
			k := keys[i]
			return []string{typeLabel(k.Prev), typeLabel(k.Next), strconv.Itoa(m[k])}
		})
}

// typeLabel spells out the unknown category so the column is never empty
func typeLabel(o evdom.OpenType) string {
	if s := o.String(); s != "" {
		return s
	}
	return "unknown"
}

func formatMS(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func writeCSV(ctx context.Context, path string, header []string, n int, row func(i int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "create output dir for %q", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "create %q", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "write header")
	}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.Write(row(i)); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "flush %q", path)
	}
	return f.Sync()
}
