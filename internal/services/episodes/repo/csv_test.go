package repo

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"winscope/internal/services/episodes/domain"
	evdom "winscope/internal/services/events/domain"
)

func TestWriteIntervals(t *testing.T) {
	t.Parallel()

	closeTS := int64(200)
	xs := []domain.Interval{
		{UserID: "a", OpenTS: 100, CloseTS: &closeTS, OpenType: evdom.OpenTypeManual, ImplicitClose: true},
		{UserID: "a", OpenTS: 200, OpenType: evdom.OpenTypeUnknown, Censored: true},
	}

	path := filepath.Join(t.TempDir(), "out", "intervals.csv")
	if err := NewCSV(path).WriteIntervals(context.Background(), xs); err != nil {
		t.Fatalf("WriteIntervals: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "user_id" || rows[0][6] != "duration_ms" {
		t.Fatalf("header = %v", rows[0])
	}

	// complete row carries close_ts and duration
	if rows[1][2] != "200" || rows[1][6] != "100" || rows[1][5] != "true" {
		t.Fatalf("complete row = %v", rows[1])
	}
	// censored row leaves close_ts, open_type and duration empty
	if rows[2][2] != "" || rows[2][3] != "" || rows[2][6] != "" || rows[2][4] != "true" {
		t.Fatalf("censored row = %v", rows[2])
	}
}

func TestWriteIntervalsEmptySet(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "intervals.csv")
	if err := NewCSV(path).WriteIntervals(context.Background(), nil); err != nil {
		t.Fatalf("WriteIntervals: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	// header only
	if string(b) != "user_id,open_ts,close_ts,open_type,censored,implicit_close,duration_ms\n" {
		t.Fatalf("content = %q", string(b))
	}
}
