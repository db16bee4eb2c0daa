package service

import (
	"context"
	"testing"

	"winscope/internal/services/events/domain"
)

// sliceSource feeds fixed records to the normalizer
type sliceSource []domain.RawRecord

func (s sliceSource) Read(_ context.Context, fn func(domain.RawRecord) error) error {
	for _, r := range s {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func TestNormalizeDropsMalformed(t *testing.T) {
	t.Parallel()

	src := sliceSource{
		{UserID: "u1", Timestamp: "100", Kind: "open", OpenType: "manual"},
		{UserID: "u1", Timestamp: "abc", Kind: "open", OpenType: "manual"}, // bad ts
		{UserID: "u1", Timestamp: "nan", Kind: "close"},                    // bad ts
		{UserID: "u1", Timestamp: "200", Kind: "toggle"},                   // bad kind
		{UserID: "u1", Timestamp: "300", Kind: "close"},
	}

	stream, stats, err := New().Normalize(context.Background(), src)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if stats.Input != 5 || stats.Kept != 2 {
		t.Fatalf("stats input/kept = %d/%d, want 5/2", stats.Input, stats.Kept)
	}
	if stats.BadTimestamp != 2 || stats.BadKind != 1 {
		t.Fatalf("stats bad ts/kind = %d/%d, want 2/1", stats.BadTimestamp, stats.BadKind)
	}
	if stats.Users != 1 || len(stream["u1"]) != 2 {
		t.Fatalf("stream = %#v", stream)
	}
}

func TestNormalizeTracksEventSpan(t *testing.T) {
	t.Parallel()

	src := sliceSource{
		{UserID: "a", Timestamp: "500", Kind: "open", OpenType: "manual"},
		{UserID: "b", Timestamp: "100", Kind: "close"},
		{UserID: "a", Timestamp: "oops", Kind: "close"}, // dropped, never widens the span
		{UserID: "b", Timestamp: "900", Kind: "open", OpenType: "auto"},
	}

	_, stats, err := New().Normalize(context.Background(), src)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if stats.FirstTS != 100 || stats.LastTS != 900 {
		t.Fatalf("span = [%d, %d], want [100, 900]", stats.FirstTS, stats.LastTS)
	}
}

func TestNormalizeCloseBeforeOpenAtEqualTS(t *testing.T) {
	t.Parallel()

	// both input orders must land in the same canonical order
	forward := sliceSource{
		{UserID: "u", Timestamp: "200", Kind: "close"},
		{UserID: "u", Timestamp: "200", Kind: "open", OpenType: "auto"},
	}
	reversed := sliceSource{
		{UserID: "u", Timestamp: "200", Kind: "open", OpenType: "auto"},
		{UserID: "u", Timestamp: "200", Kind: "close"},
	}

	for _, src := range []sliceSource{forward, reversed} {
		stream, _, err := New().Normalize(context.Background(), src)
		if err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		evs := stream["u"]
		if len(evs) != 2 {
			t.Fatalf("want 2 events, got %d", len(evs))
		}
		if evs[0].Kind != domain.KindClose || evs[1].Kind != domain.KindOpen {
			t.Fatalf("tie not broken close-first: %v then %v", evs[0].Kind, evs[1].Kind)
		}
	}
}

func TestNormalizeKeepsUnknownOpenType(t *testing.T) {
	t.Parallel()

	src := sliceSource{
		{UserID: "u", Timestamp: "100", Kind: "open", OpenType: "magic"},
		{UserID: "u", Timestamp: "150", Kind: "open"},                      // absent open_type
		{UserID: "u", Timestamp: "200", Kind: "close", OpenType: "manual"}, // ignored on closes
	}

	stream, stats, err := New().Normalize(context.Background(), src)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if stats.Kept != 3 {
		t.Fatalf("kept = %d, want 3 (invalid open_type keeps the event)", stats.Kept)
	}
	if stats.UnknownOpenType != 2 {
		t.Fatalf("unknown open type = %d, want 2", stats.UnknownOpenType)
	}
	for _, ev := range stream["u"] {
		if ev.OpenType != domain.OpenTypeUnknown {
			t.Fatalf("open type not nulled: %#v", ev)
		}
	}
}

func TestNormalizeFoldsVocabulary(t *testing.T) {
	t.Parallel()

	src := sliceSource{
		{UserID: "u", Timestamp: "1", Kind: "OPENED", OpenType: " Manual "},
		{UserID: "u", Timestamp: "2", Kind: " Closed "},
	}

	stream, stats, err := New().Normalize(context.Background(), src)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if stats.Kept != 2 || stats.BadKind != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	evs := stream["u"]
	if evs[0].Kind != domain.KindOpen || evs[0].OpenType != domain.OpenTypeManual {
		t.Fatalf("open not canonicalized: %#v", evs[0])
	}
	if evs[1].Kind != domain.KindClose {
		t.Fatalf("close not canonicalized: %#v", evs[1])
	}
}

func TestCoerceMillis(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"1699999999999", 1699999999999, true},
		{" 42 ", 42, true},                       // whitespace tolerated
		{"-7", -7, true},                         // negative epoch allowed
		{"1699999999999.9", 1699999999999, true}, // fractional ms truncate
		{"-5.5", -5, true},                       // truncation toward zero
		{"1.7e3", 1700, true},                    // scientific notation
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"12abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-inf", 0, false},
		{"1e300", 0, false}, // beyond int64
	}

	for _, c := range cases {
		got, ok := coerceMillis(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("coerceMillis(%q) = (%d,%v), want (%d,%v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestStreamUsersSorted(t *testing.T) {
	t.Parallel()

	src := sliceSource{
		{UserID: "zed", Timestamp: "1", Kind: "open", OpenType: "auto"},
		{UserID: "amy", Timestamp: "1", Kind: "open", OpenType: "manual"},
		{UserID: "mia", Timestamp: "1", Kind: "close"},
	}

	stream, _, err := New().Normalize(context.Background(), src)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	users := stream.Users()
	if len(users) != 3 || users[0] != "amy" || users[1] != "mia" || users[2] != "zed" {
		t.Fatalf("Users() = %v, want sorted", users)
	}
}
