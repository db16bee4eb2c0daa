package repo

import (
	"context"
	"strconv"
	"testing"

	"winscope/internal/modkit/repokit"
	"winscope/internal/platform/store"
	"winscope/internal/platform/testkit"
	"winscope/internal/services/events/domain"
)

// fakeRows replays canned (id, user_id, ts, event, open_type) tuples
type fakeRows struct {
	rows [][5]string
	i    int
}

func (r *fakeRows) Next() bool { r.i++; return r.i <= len(r.rows) }

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.i-1]
	id, _ := strconv.ParseInt(row[0], 10, 64)
	*dest[0].(*int64) = id
	for k := 1; k < 5; k++ {
		*dest[k].(*string) = row[k]
	}
	return nil
}

func (r *fakeRows) Err() error        { return nil }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return []string{"id", "user_id", "ts", "event", "open_type"} }

// fakeQueryer serves pages keyed on the `after` argument
type fakeQueryer struct {
	pages   map[int64][][5]string
	queries []int64
}

func (q *fakeQueryer) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	panic("not used")
}

func (q *fakeQueryer) QueryRow(context.Context, string, ...any) store.Row {
	panic("not used")
}

func (q *fakeQueryer) Query(_ context.Context, _ string, args ...any) (store.Rows, error) {
	after := args[0].(int64)
	q.queries = append(q.queries, after)
	return &fakeRows{rows: q.pages[after]}, nil
}

func TestPGSourceKeysetPaging(t *testing.T) {
	t.Parallel()

	q := &fakeQueryer{pages: map[int64][][5]string{
		0: {
			{"1", "u1", "100", "open", "manual"},
			{"2", "u1", "200", "close", ""},
		},
		2: {
			{"3", "u2", "300", "open", "auto"},
		},
	}}

	src := NewPG("toolwindow_events", 2).Bind(repokit.Queryer(q))

	var got []domain.RawRecord
	err := src.Read(context.Background(), func(r domain.RawRecord) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("records = %d, want 3", len(got))
	}
	if got[2] != (domain.RawRecord{UserID: "u2", Timestamp: "300", Kind: "open", OpenType: "auto"}) {
		t.Fatalf("last record = %#v", got[2])
	}

	// two pages: full first page forces a second fetch after id 2
	if len(q.queries) != 2 || q.queries[0] != 0 || q.queries[1] != 2 {
		t.Fatalf("queries = %v, want [0 2]", q.queries)
	}
}

func TestPGSourceRejectsBadIdentifier(t *testing.T) {
	t.Parallel()

	testkit.MustPanic(t, func() { NewPG("events; drop table users", 10) })
	testkit.MustPanic(t, func() { NewPG(`a.b.c`, 10) })
	testkit.MustPanic(t, func() { NewPG("   ", 10) })
	testkit.MustNotPanic(t, func() { NewPG("analytics.toolwindow_events", 10) })
}
