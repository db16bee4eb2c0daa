// Package service implements the event normalizer
package service

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"winscope/internal/platform/logger"
	"winscope/internal/services/events/domain"
)

// Service implements domain.NormalizerPort
type Service struct{}

// New constructs a normalizer service
func New() *Service { return &Service{} }

// Normalize reads every record from src, validates and canonicalizes it,
// groups by user and orders each user's sequence by (timestamp, kind rank)
// with CLOSE ranked before OPEN at equal timestamps.
//
// Malformed records (bad timestamp, unknown kind) are dropped and counted,
// never batch-fatal. An OPEN whose open_type fails validation keeps the
// event with the category nulled; the interval shape survives and only
// category statistics lose the row
func (s *Service) Normalize(ctx context.Context, src domain.SourcePort) (domain.Stream, domain.NormalizeStats, error) {
	stream := domain.Stream{}
	var stats domain.NormalizeStats

	err := src.Read(ctx, func(r domain.RawRecord) error {
		stats.Input++

		ts, ok := coerceMillis(r.Timestamp)
		if !ok {
			stats.BadTimestamp++
			return nil
		}

		kind, ok := domain.ParseKind(r.Kind)
		if !ok {
			stats.BadKind++
			return nil
		}

		ev := domain.Event{UserID: r.UserID, TS: ts, Kind: kind}
		if kind == domain.KindOpen {
			ot, ok := domain.ParseOpenType(r.OpenType)
			if !ok {
				stats.UnknownOpenType++
			}
			ev.OpenType = ot
		}
		// open_type never applies to closes; leave the zero value

		stream[ev.UserID] = append(stream[ev.UserID], ev)
		if stats.Kept == 0 || ts < stats.FirstTS {
			stats.FirstTS = ts
		}
		if stats.Kept == 0 || ts > stats.LastTS {
			stats.LastTS = ts
		}
		stats.Kept++
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	for user, evs := range stream {
		sortEvents(evs)
		stream[user] = evs
	}
	stats.Users = len(stream)

	logger.C(ctx).Debug().
		Int("input", stats.Input).
		Int("kept", stats.Kept).
		Int("bad_timestamp", stats.BadTimestamp).
		Int("bad_kind", stats.BadKind).
		Int("unknown_open_type", stats.UnknownOpenType).
		Int("users", stats.Users).
		Msg("events normalized")

	return stream, stats, nil
}

// sortEvents orders one user's sequence by the explicit comparator key
// (TS ascending, kind rank ascending). The rank places CLOSE before OPEN
// at equal timestamps regardless of input order
func sortEvents(evs []domain.Event) {
	sort.Slice(evs, func(i, j int) bool {
		if evs[i].TS != evs[j].TS {
			return evs[i].TS < evs[j].TS
		}
		return evs[i].Kind.Rank() < evs[j].Kind.Rank()
	})
}

// coerceMillis accepts any numeric spelling of an epoch-millisecond value:
// integers, floats ("1.7e12", "1699999999999.0"), surrounding whitespace.
// Fractional milliseconds truncate toward zero. NaN/Inf and non-numeric
// text are rejected
func coerceMillis(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
