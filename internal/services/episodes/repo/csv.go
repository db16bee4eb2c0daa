// Package repo provides interval sink implementations
package repo

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	perr "winscope/internal/platform/errors"
	"winscope/internal/services/episodes/domain"
)

// CSVSink writes the flat interval set to a headered csv file.
// Censored intervals leave close_ts and duration_ms empty; unknown open
// types leave open_type empty
type CSVSink struct {
	Path string
}

// NewCSV constructs a csv interval sink
func NewCSV(path string) *CSVSink { return &CSVSink{Path: path} }

// WriteIntervals writes all intervals and flushes the file
func (s *CSVSink) WriteIntervals(ctx context.Context, xs []domain.Interval) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "create output dir for %q", s.Path)
	}
	f, err := os.Create(s.Path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "create %q", s.Path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"user_id", "open_ts", "close_ts", "open_type", "censored", "implicit_close", "duration_ms",
	}); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "write header")
	}

	for i := range xs {
		if err := ctx.Err(); err != nil {
			return err
		}
		iv := xs[i]

		closeTS, durMS := "", ""
		if d, ok := iv.DurationMS(); ok {
			closeTS = strconv.FormatInt(*iv.CloseTS, 10)
			durMS = strconv.FormatInt(d, 10)
		}

		if err := w.Write([]string{
			iv.UserID,
			strconv.FormatInt(iv.OpenTS, 10),
			closeTS,
			iv.OpenType.String(),
			strconv.FormatBool(iv.Censored),
			strconv.FormatBool(iv.ImplicitClose),
			durMS,
		}); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "write interval row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "flush %q", s.Path)
	}
	return f.Sync()
}
