package repo

import (
	"context"
	"fmt"

	perr "winscope/internal/platform/errors"
	"winscope/internal/platform/store"
	pstrings "winscope/internal/platform/strings"
	"winscope/internal/services/events/domain"
)

// CHSource reads raw records from a ClickHouse events table.
// The driver streams result blocks, so a single ordered SELECT is enough
type CHSource struct {
	db    store.Clickhouse
	table string
}

// NewCH constructs a ClickHouse events source.
// Expected shape: (id UInt64, user_id String, ts Int64, event String, open_type String)
func NewCH(db store.Clickhouse, table string) *CHSource {
	table = pstrings.MustString(table, "events table")
	if !identRe.MatchString(table) {
		panic(fmt.Sprintf("events repo: invalid table identifier %q", table))
	}
	return &CHSource{db: db, table: table}
}

// Read streams every row to fn in id order
func (s *CHSource) Read(ctx context.Context, fn func(domain.RawRecord) error) error {
	if s.db == nil {
		return perr.Unavailablef("clickhouse not configured")
	}

	sql := fmt.Sprintf(`
		SELECT user_id, toString(ts), event, open_type
		FROM %s
		ORDER BY id`, s.table)

	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "query events from %s", s.table)
	}
	defer rows.Close()

	for rows.Next() {
		var rec domain.RawRecord
		if err := rows.Scan(&rec.UserID, &rec.Timestamp, &rec.Kind, &rec.OpenType); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "scan events row")
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "iterate events rows")
	}
	return nil
}
