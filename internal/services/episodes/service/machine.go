package service

import (
	"winscope/internal/services/episodes/domain"
	evdom "winscope/internal/services/events/domain"
)

// ReconstructUser replays one user's ordered event sequence through the
// two-state machine and returns that user's intervals in emission order.
//
//	CLOSED + OPEN  -> begin interval, state OPEN
//	OPEN   + OPEN  -> seal current as implicit close at the new open's
//	                  timestamp, begin next from the same event
//	CLOSED + CLOSE -> orphan close, ignored and counted
//	OPEN   + CLOSE -> seal current as explicit close, state CLOSED
//	OPEN   + end   -> seal current as censored (no close timestamp)
//
// The function is total: any input sequence yields a result, never an
// error. It assumes events are pre-sorted by (TS, kind rank); feeding an
// unsorted sequence is a caller bug, not detected here
func ReconstructUser(user string, evs []evdom.Event) ([]domain.Interval, domain.UserStats) {
	var out []domain.Interval
	var stats domain.UserStats

	open := false
	var cur domain.Interval

	seal := func(closeTS int64, implicit bool) {
		ts := closeTS
		cur.CloseTS = &ts
		cur.ImplicitClose = implicit
		out = append(out, cur)
		stats.Intervals++
		if implicit {
			stats.ImplicitCloses++
		}
	}

	for _, ev := range evs {
		switch ev.Kind {
		case evdom.KindOpen:
			if open {
				// the new open terminates the old span and starts the
				// next one at the same instant: no gap, no overlap
				seal(ev.TS, true)
			}
			cur = domain.Interval{UserID: user, OpenTS: ev.TS, OpenType: ev.OpenType}
			open = true

		case evdom.KindClose:
			if !open {
				stats.OrphanCloses++
				continue
			}
			seal(ev.TS, false)
			open = false
		}
	}

	if open {
		cur.Censored = true
		out = append(out, cur)
		stats.Intervals++
		stats.Censored++
	}

	return out, stats
}
