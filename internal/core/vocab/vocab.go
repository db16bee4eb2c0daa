// Package vocab canonicalizes the external event vocabulary
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Width fold fullwidth to ASCII
// 5 Trim surrounding whitespace
// The same folding is applied to event kinds and open types so "Open",
// "OPEN" and fullwidth spellings all land on one canonical form
package vocab

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			width.Fold,
		)
	},
}

// Fold returns the canonical folded form of s
func Fold(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// fall back to a plain lowercase of the input rather than dropping it
		ns = strings.ToLower(s)
	}

	return strings.TrimSpace(ns)
}
