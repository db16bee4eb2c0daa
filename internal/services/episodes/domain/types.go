// Package domain defines core types and interfaces for reconstructed intervals
package domain

import (
	evdom "winscope/internal/services/events/domain"
)

// Interval is one reconstructed open-to-close span of toolwindow visibility.
// CloseTS is nil iff Censored. Once sealed an Interval is never mutated;
// intervals are never merged or split
type Interval struct {
	UserID        string
	OpenTS        int64
	CloseTS       *int64
	OpenType      evdom.OpenType
	Censored      bool
	ImplicitClose bool
}

// DurationMS returns close-open in milliseconds and ok=false for censored
// intervals. A same-instant open/close pair yields 0, not an error
func (iv Interval) DurationMS() (int64, bool) {
	if iv.CloseTS == nil {
		return 0, false
	}
	return *iv.CloseTS - iv.OpenTS, true
}

// Complete reports whether the interval observed its close
func (iv Interval) Complete() bool { return !iv.Censored }

// Comparable reports whether the interval belongs in category statistics:
// complete and with a known open type
func (iv Interval) Comparable() bool { return iv.Complete() && iv.OpenType.Known() }

// Stats counts the structural outcomes of a reconstruction run.
// Orphan closes, implicit closes and censoring are expected, named
// outcomes of the state machine, not errors
type Stats struct {
	Users          int
	Intervals      int
	OrphanCloses   int
	ImplicitCloses int
	Censored       int
}

// Add folds per-user stats into the aggregate
func (s *Stats) Add(u UserStats) {
	s.Intervals += u.Intervals
	s.OrphanCloses += u.OrphanCloses
	s.ImplicitCloses += u.ImplicitCloses
	s.Censored += u.Censored
}

// UserStats counts one user's structural outcomes
type UserStats struct {
	Intervals      int
	OrphanCloses   int
	ImplicitCloses int
	Censored       int
}
