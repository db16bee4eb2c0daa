package repo

import (
	"context"
	"fmt"
	"regexp"

	"winscope/internal/modkit/repokit"
	perr "winscope/internal/platform/errors"
	pstrings "winscope/internal/platform/strings"
	"winscope/internal/services/events/domain"
)

// identRe is the conservative shape allowed for table identifiers
// interpolated into source queries (optionally schema-qualified)
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type pgBinder struct {
	table string
	page  int
}

// NewPG constructs a repo binder for a Postgres events table.
// Expected shape: (id bigint, user_id text, ts bigint, event text, open_type text)
func NewPG(table string, page int) repokit.Binder[Source] {
	table = pstrings.MustString(table, "events table")
	if !identRe.MatchString(table) {
		panic(fmt.Sprintf("events repo: invalid table identifier %q", table))
	}
	if page <= 0 {
		page = 10000
	}
	return pgBinder{table: table, page: page}
}

// Bind implements repokit.Binder
func (b pgBinder) Bind(q repokit.Queryer) Source {
	return &pgSource{q: q, table: b.table, page: b.page}
}

// Source is the repo-level alias of the events source port
type Source = domain.SourcePort

type pgSource struct {
	q     repokit.Queryer
	table string
	page  int
}

// Read pages through the table with a keyset on id and streams rows to fn.
// ts and open_type are nullable in the wild; nulls surface as empty strings
// and fall out in normalization like any other malformed cell
func (s *pgSource) Read(ctx context.Context, fn func(domain.RawRecord) error) error {
	sql := fmt.Sprintf(`
		SELECT e.id,
		       COALESCE(e.user_id, ''),
		       COALESCE(e.ts::text, ''),
		       COALESCE(e.event, ''),
		       COALESCE(e.open_type, '')
		FROM %s e
		WHERE e.id > $1
		ORDER BY e.id
		LIMIT $2`, s.table)

	after := int64(0)
	for {
		n, last, err := s.readPage(ctx, sql, after, fn)
		if err != nil {
			return err
		}
		if n < s.page {
			return nil
		}
		after = last
	}
}

func (s *pgSource) readPage(ctx context.Context, sql string, after int64, fn func(domain.RawRecord) error) (int, int64, error) {
	rows, err := s.q.Query(ctx, sql, after, s.page)
	if err != nil {
		return 0, 0, perr.FromPostgresf(err, "list events page after id %d", after)
	}
	defer rows.Close()

	n := 0
	last := after
	for rows.Next() {
		var id int64
		var rec domain.RawRecord
		if err := rows.Scan(&id, &rec.UserID, &rec.Timestamp, &rec.Kind, &rec.OpenType); err != nil {
			return n, last, perr.FromPostgres(err, "scan events row")
		}
		if err := fn(rec); err != nil {
			return n, last, err
		}
		n++
		last = id
	}
	if err := rows.Err(); err != nil {
		return n, last, perr.FromPostgres(err, "iterate events rows")
	}
	return n, last, nil
}
