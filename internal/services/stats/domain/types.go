// Package domain defines core types and interfaces for interval statistics
package domain

import (
	evdom "winscope/internal/services/events/domain"
)

// Summary is one open type's duration distribution over comparable
// (complete, known-category) intervals. All duration fields are ms
type Summary struct {
	OpenType evdom.OpenType
	N        int
	MeanMS   float64
	MedianMS float64
	P25MS    float64
	P75MS    float64
	P90MS    float64
	StdMS    float64
}

// WelchResult is a two-sample Welch's t-test on log duration seconds,
// auto minus manual. Ratio is the geometric mean ratio
// exp(meanlog(auto) - meanlog(manual)), an estimate of how many times
// longer auto-opened windows stay visible
type WelchResult struct {
	TStat   float64
	PValue  float64
	DF      float64
	Ratio   float64
	NManual int
	NAuto   int

	// SkippedNonPositive counts comparable intervals left out of the
	// log-domain test because their duration was <= 0
	SkippedNonPositive int
}

// TransitionKey is one previous->next open type pair
type TransitionKey struct {
	Prev evdom.OpenType
	Next evdom.OpenType
}

// TransitionMatrix counts, over implicitly closed intervals, the open type
// of the interval that replaced each one. An implicit close always has a
// successor for the same user by construction
type TransitionMatrix map[TransitionKey]int
