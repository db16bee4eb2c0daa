// Package domain defines core types and interfaces for toolwindow events
package domain

import (
	"sort"

	"winscope/internal/core/vocab"
)

// Kind enumerates recognized event kinds
type Kind uint8

const (
	// KindUnknown is the zero value; never present on a normalized event
	KindUnknown Kind = iota

	// KindOpen marks a toolwindow being opened
	KindOpen

	// KindClose marks a toolwindow being closed
	KindClose
)

// String returns the canonical external spelling
func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "opened"
	case KindClose:
		return "closed"
	default:
		return "unknown"
	}
}

// Rank is the tie-break rank at equal timestamps: CLOSE sorts before OPEN.
// This is a documented policy (a window cannot be reported open and closed
// at the identical instant without the close taking effect first), not an
// artifact of sort stability
func (k Kind) Rank() int {
	if k == KindClose {
		return 0
	}
	return 1
}

// ParseKind maps the external vocabulary onto Kind
// Accepted spellings (any case/width): open/opened, close/closed
func ParseKind(s string) (Kind, bool) {
	switch vocab.Fold(s) {
	case "open", "opened":
		return KindOpen, true
	case "close", "closed":
		return KindClose, true
	default:
		return KindUnknown, false
	}
}

// OpenType is the triggering category of an open event
type OpenType uint8

const (
	// OpenTypeUnknown marks an open whose category was absent or invalid.
	// Such events still open intervals; they are only excluded from
	// category statistics
	OpenTypeUnknown OpenType = iota

	// OpenTypeManual is a user-initiated open
	OpenTypeManual

	// OpenTypeAuto is a system-initiated open
	OpenTypeAuto
)

// String returns the canonical external spelling
func (o OpenType) String() string {
	switch o {
	case OpenTypeManual:
		return "manual"
	case OpenTypeAuto:
		return "auto"
	default:
		return ""
	}
}

// Known reports whether o carries a usable category
func (o OpenType) Known() bool { return o == OpenTypeManual || o == OpenTypeAuto }

// ParseOpenType maps the external vocabulary onto OpenType
func ParseOpenType(s string) (OpenType, bool) {
	switch vocab.Fold(s) {
	case "manual":
		return OpenTypeManual, true
	case "auto":
		return OpenTypeAuto, true
	default:
		return OpenTypeUnknown, false
	}
}

// RawRecord is one row as read from a tabular source, before any validation
// All fields are carried verbatim; coercion happens in the normalizer
type RawRecord struct {
	UserID    string
	Timestamp string
	Kind      string
	OpenType  string
}

// Event is a validated, canonicalized record
// TS is epoch milliseconds UTC
type Event struct {
	UserID   string
	TS       int64
	Kind     Kind
	OpenType OpenType
}

// Stream holds each user's events, ordered by (TS, Kind.Rank())
type Stream map[string][]Event

// Users returns the user ids in sorted order for deterministic walks
func (s Stream) Users() []string {
	out := make([]string, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// NormalizeStats counts what normalization saw and rejected
// Rejections are diagnostics, never batch-fatal
type NormalizeStats struct {
	Input           int // raw records seen
	Kept            int // normalized events produced
	BadTimestamp    int // dropped: timestamp not coercible to epoch ms
	BadKind         int // dropped: event kind outside the vocabulary
	UnknownOpenType int // kept: OPEN with absent/invalid open_type, category nulled
	Users           int // distinct users with at least one kept event

	// FirstTS and LastTS are the epoch-ms span of kept events,
	// meaningful only when Kept > 0
	FirstTS int64
	LastTS  int64
}
