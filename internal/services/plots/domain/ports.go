// Package domain defines the plotting interface
package domain

import (
	"context"

	epdom "winscope/internal/services/episodes/domain"
)

// RendererPort renders the comparison figures for a reconstructed interval
// set and returns the paths written. Censored intervals and unknown open
// types are excluded, matching the category statistics
type RendererPort interface {
	Render(ctx context.Context, xs []epdom.Interval) ([]string, error)
}
