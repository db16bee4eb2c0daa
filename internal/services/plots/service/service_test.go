package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	epdom "winscope/internal/services/episodes/domain"
	evdom "winscope/internal/services/events/domain"
)

func interval(openTS, closeTS int64, ot evdom.OpenType) epdom.Interval {
	ts := closeTS
	return epdom.Interval{UserID: "u", OpenTS: openTS, CloseTS: &ts, OpenType: ot}
}

func TestRenderWritesAllFigures(t *testing.T) {
	t.Parallel()

	xs := []epdom.Interval{
		interval(0, 500, evdom.OpenTypeManual),
		interval(1000, 3000, evdom.OpenTypeManual),
		interval(4000, 4000, evdom.OpenTypeManual), // zero duration hits the log floor
		interval(5000, 9000, evdom.OpenTypeAuto),
		interval(10000, 90000, evdom.OpenTypeAuto),
	}

	dir := filepath.Join(t.TempDir(), "figs")
	paths, err := New(Config{Dir: dir}).Render(context.Background(), xs)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("figures = %d, want 4", len(paths))
	}
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %q: %v", p, err)
		}
		if fi.Size() == 0 {
			t.Fatalf("figure %q is empty", p)
		}
	}
}

func TestRenderSingleSidedData(t *testing.T) {
	t.Parallel()

	// only one category present; every figure must still render
	xs := []epdom.Interval{
		interval(0, 100, evdom.OpenTypeAuto),
		interval(200, 900, evdom.OpenTypeAuto),
	}

	paths, err := New(Config{Dir: t.TempDir()}).Render(context.Background(), xs)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("figures = %d, want 4", len(paths))
	}
}

func TestRenderNothingToPlot(t *testing.T) {
	t.Parallel()

	xs := []epdom.Interval{
		{UserID: "u", OpenTS: 1, OpenType: evdom.OpenTypeManual, Censored: true},
	}

	dir := t.TempDir()
	paths, err := New(Config{Dir: dir}).Render(context.Background(), xs)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("figures = %v, want none", paths)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("dir not empty: %v", entries)
	}
}
