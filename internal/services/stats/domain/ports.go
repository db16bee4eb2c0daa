package domain

import (
	"context"

	epdom "winscope/internal/services/episodes/domain"
)

// AnalyzerPort computes the downstream statistics over a reconstructed
// interval set. Censored intervals and unknown open types are excluded
// from category comparisons by every method
type AnalyzerPort interface {
	// Summarize returns one Summary per open type with at least one
	// comparable interval, ordered by category label (auto before manual)
	Summarize(ctx context.Context, xs []epdom.Interval) []Summary

	// Welch runs the significance test; ok=false when either group has
	// fewer than two usable observations
	Welch(ctx context.Context, xs []epdom.Interval) (WelchResult, bool)

	// Transitions builds the previous->next open type matrix over
	// implicitly closed intervals
	Transitions(ctx context.Context, xs []epdom.Interval) TransitionMatrix
}

// ReportPort persists computed statistics
type ReportPort interface {
	WriteSummary(ctx context.Context, rows []Summary) error
	WriteTransitions(ctx context.Context, m TransitionMatrix) error
}
