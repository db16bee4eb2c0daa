package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"winscope/internal/platform/testkit"
	evdom "winscope/internal/services/events/domain"
	"winscope/internal/services/stats/domain"
)

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewCSV(filepath.Join(dir, "summary.csv"), filepath.Join(dir, "transitions.csv"))

	rows := []domain.Summary{
		{OpenType: evdom.OpenTypeManual, N: 3, MeanMS: 200, MedianMS: 200, P25MS: 150, P75MS: 250, P90MS: 280, StdMS: 100},
	}
	if err := r.WriteSummary(context.Background(), rows); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}

	b, err := os.ReadFile(r.SummaryPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(b)
	testkit.MustContain(t, out, "open_type,n,mean_ms,median_ms,p25_ms,p75_ms,p90_ms,std_ms")
	testkit.MustContain(t, out, "manual,3,200.000,200.000,150.000,250.000,280.000,100.000")
}

func TestWriteTransitionsDeterministicOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewCSV(filepath.Join(dir, "summary.csv"), filepath.Join(dir, "transitions.csv"))

	m := domain.TransitionMatrix{
		{Prev: evdom.OpenTypeAuto, Next: evdom.OpenTypeManual}:    2,
		{Prev: evdom.OpenTypeManual, Next: evdom.OpenTypeAuto}:    5,
		{Prev: evdom.OpenTypeUnknown, Next: evdom.OpenTypeManual}: 1,
	}
	if err := r.WriteTransitions(context.Background(), m); err != nil {
		t.Fatalf("WriteTransitions: %v", err)
	}

	b, err := os.ReadFile(r.TransitionsPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	want := []string{
		"from_open_type,to_open_type,count",
		"unknown,manual,1", // unknown sorts first by category value
		"manual,auto,5",
		"auto,manual,2",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
