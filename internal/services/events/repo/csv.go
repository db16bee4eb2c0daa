// Package repo provides event source implementations (csv file, postgres, clickhouse)
package repo

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	perr "winscope/internal/platform/errors"
	"winscope/internal/services/events/domain"
)

// csv column names accepted in the header, canonicalized to lower case
// "event_id" is a legacy spelling of the kind column still seen in exports
const (
	colUserID    = "user_id"
	colTimestamp = "timestamp"
	colEvent     = "event"
	colEventID   = "event_id"
	colOpenType  = "open_type"
)

// CSVSource reads raw records from a headered csv file
type CSVSource struct {
	Path string
}

// NewCSV constructs a csv file source
func NewCSV(path string) *CSVSource { return &CSVSource{Path: path} }

// Read streams every data row to fn. The header row is mandatory and must
// name user_id, timestamp and event (or event_id); open_type is optional.
// Ragged rows are tolerated: missing trailing cells read as empty
func (s *CSVSource) Read(ctx context.Context, fn func(domain.RawRecord) error) error {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return perr.Wrapf(err, perr.ErrorCodeNotFound, "events csv %q", s.Path)
		}
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "open events csv %q", s.Path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; cells are picked by index
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return perr.Decodef("events csv %q is empty", s.Path)
	}
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDecode, "read header of %q", s.Path)
	}

	idx := map[string]int{}
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	userIdx, ok := idx[colUserID]
	if !ok {
		return perr.Decodef("events csv %q: missing column %q", s.Path, colUserID)
	}
	tsIdx, ok := idx[colTimestamp]
	if !ok {
		return perr.Decodef("events csv %q: missing column %q", s.Path, colTimestamp)
	}
	kindIdx, ok := idx[colEvent]
	if !ok {
		if kindIdx, ok = idx[colEventID]; !ok {
			return perr.Decodef("events csv %q: missing column %q (or %q)", s.Path, colEvent, colEventID)
		}
	}
	typeIdx, hasType := idx[colOpenType]

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeDecode, "read row of %q", s.Path)
		}

		rec := domain.RawRecord{
			UserID:    cell(row, userIdx),
			Timestamp: cell(row, tsIdx),
			Kind:      cell(row, kindIdx),
		}
		if hasType {
			rec.OpenType = cell(row, typeIdx)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
