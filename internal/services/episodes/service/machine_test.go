package service

import (
	"reflect"
	"testing"

	evdom "winscope/internal/services/events/domain"
)

func open(ts int64, ot evdom.OpenType) evdom.Event {
	return evdom.Event{UserID: "u", TS: ts, Kind: evdom.KindOpen, OpenType: ot}
}

func clos(ts int64) evdom.Event {
	return evdom.Event{UserID: "u", TS: ts, Kind: evdom.KindClose}
}

func TestReconstructExplicitPair(t *testing.T) {
	t.Parallel()

	xs, st := ReconstructUser("u", []evdom.Event{
		open(100, evdom.OpenTypeManual),
		clos(200),
	})
	if len(xs) != 1 {
		t.Fatalf("want 1 interval, got %d", len(xs))
	}
	iv := xs[0]
	d, ok := iv.DurationMS()
	if !ok || d != 100 {
		t.Fatalf("duration = (%d,%v), want (100,true)", d, ok)
	}
	if iv.Censored || iv.ImplicitClose {
		t.Fatalf("unexpected flags: %#v", iv)
	}
	if st.Intervals != 1 || st.OrphanCloses != 0 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestReconstructCloseThenReopenAtSameInstant(t *testing.T) {
	t.Parallel()

	// canonical order puts the close first, so the same timestamp yields
	// two explicit intervals, not an implicit close
	xs, st := ReconstructUser("u", []evdom.Event{
		open(100, evdom.OpenTypeManual),
		clos(200),
		open(200, evdom.OpenTypeAuto),
		clos(500),
	})
	if len(xs) != 2 {
		t.Fatalf("want 2 intervals, got %d", len(xs))
	}
	d0, _ := xs[0].DurationMS()
	d1, _ := xs[1].DurationMS()
	if d0 != 100 || d1 != 300 {
		t.Fatalf("durations = %d,%d, want 100,300", d0, d1)
	}
	if xs[0].ImplicitClose || xs[1].ImplicitClose {
		t.Fatalf("no implicit close expected: %#v", xs)
	}
	if st.ImplicitCloses != 0 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestReconstructOrphanCloseIgnored(t *testing.T) {
	t.Parallel()

	xs, st := ReconstructUser("u", []evdom.Event{
		clos(50), // nothing open yet
		open(100, evdom.OpenTypeAuto),
		clos(200),
		clos(250), // already closed
	})
	if len(xs) != 1 {
		t.Fatalf("want 1 interval, got %d", len(xs))
	}
	if st.OrphanCloses != 2 {
		t.Fatalf("orphans = %d, want 2", st.OrphanCloses)
	}

	// the interval set must be identical without the orphans
	clean, _ := ReconstructUser("u", []evdom.Event{
		open(100, evdom.OpenTypeAuto),
		clos(200),
	})
	if !reflect.DeepEqual(xs, clean) {
		t.Fatalf("orphan closes changed the interval set:\n%#v\n%#v", xs, clean)
	}
}

func TestReconstructImplicitChain(t *testing.T) {
	t.Parallel()

	xs, st := ReconstructUser("u", []evdom.Event{
		open(100, evdom.OpenTypeManual),
		open(250, evdom.OpenTypeAuto), // implicitly closes the first
		clos(400),
	})
	if len(xs) != 2 {
		t.Fatalf("want 2 intervals, got %d", len(xs))
	}
	first, second := xs[0], xs[1]
	if !first.ImplicitClose || first.CloseTS == nil || *first.CloseTS != 250 {
		t.Fatalf("first interval not implicitly closed at 250: %#v", first)
	}
	if first.OpenType != evdom.OpenTypeManual || second.OpenType != evdom.OpenTypeAuto {
		t.Fatalf("open types wrong: %#v %#v", first, second)
	}
	if second.OpenTS != 250 || second.ImplicitClose {
		t.Fatalf("second interval wrong: %#v", second)
	}
	if st.ImplicitCloses != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestReconstructTrailingOpenCensored(t *testing.T) {
	t.Parallel()

	xs, st := ReconstructUser("u", []evdom.Event{
		open(100, evdom.OpenTypeManual),
		clos(200),
		open(900, evdom.OpenTypeAuto),
	})
	if len(xs) != 2 {
		t.Fatalf("want 2 intervals, got %d", len(xs))
	}
	last := xs[1]
	if !last.Censored || last.CloseTS != nil {
		t.Fatalf("trailing open not censored: %#v", last)
	}
	if _, ok := last.DurationMS(); ok {
		t.Fatal("censored interval must not report a duration")
	}
	if st.Censored != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestReconstructZeroDurationKept(t *testing.T) {
	t.Parallel()

	xs, _ := ReconstructUser("u", []evdom.Event{
		open(100, evdom.OpenTypeAuto),
		clos(100),
	})
	if len(xs) != 1 {
		t.Fatalf("want 1 interval, got %d", len(xs))
	}
	d, ok := xs[0].DurationMS()
	if !ok || d != 0 {
		t.Fatalf("duration = (%d,%v), want (0,true)", d, ok)
	}
}

func TestReconstructNeverOverlaps(t *testing.T) {
	t.Parallel()

	// mixed sequence with orphans, implicit closes and a censored tail
	xs, _ := ReconstructUser("u", []evdom.Event{
		clos(5),
		open(10, evdom.OpenTypeManual),
		open(20, evdom.OpenTypeAuto),
		clos(50),
		clos(55),
		open(60, evdom.OpenTypeUnknown),
		open(70, evdom.OpenTypeManual),
	})

	for i := 1; i < len(xs); i++ {
		prev, cur := xs[i-1], xs[i]
		if prev.CloseTS == nil {
			t.Fatalf("non-final interval %d is unsealed: %#v", i-1, prev)
		}
		if cur.OpenTS < *prev.CloseTS {
			t.Fatalf("intervals overlap: %#v then %#v", prev, cur)
		}
	}
	if !xs[len(xs)-1].Censored {
		t.Fatalf("trailing open not censored: %#v", xs[len(xs)-1])
	}
}

func TestReconstructIdempotent(t *testing.T) {
	t.Parallel()

	evs := []evdom.Event{
		open(10, evdom.OpenTypeManual),
		open(20, evdom.OpenTypeAuto),
		clos(50),
	}
	a, sa := ReconstructUser("u", evs)
	b, sb := ReconstructUser("u", evs)
	if !reflect.DeepEqual(a, b) || sa != sb {
		t.Fatal("replaying the same sequence produced a different result")
	}
}

func TestReconstructEmpty(t *testing.T) {
	t.Parallel()

	xs, st := ReconstructUser("u", nil)
	if len(xs) != 0 {
		t.Fatalf("want no intervals, got %d", len(xs))
	}
	if st.Intervals != 0 || st.OrphanCloses != 0 || st.Censored != 0 {
		t.Fatalf("stats = %+v", st)
	}
}
