package domain

import (
	"context"

	evdom "winscope/internal/services/events/domain"
)

// ReconstructorPort replays each user's ordered events through the state
// machine and returns the flat interval set. Users are walked in sorted
// order and each user's intervals stay in chronological emission order,
// so the successor of an implicitly closed interval is always the next
// interval of the same user
type ReconstructorPort interface {
	Run(ctx context.Context, stream evdom.Stream) ([]Interval, Stats, error)
}

// SinkPort persists a reconstructed interval set
type SinkPort interface {
	WriteIntervals(ctx context.Context, xs []Interval) error
}
