// Package service implements the interval reconstructor
package service

import (
	"context"
	"sync"

	"winscope/internal/platform/logger"
	"winscope/internal/services/episodes/domain"
	evdom "winscope/internal/services/events/domain"
)

// Config for the reconstructor service
type Config struct {
	Workers int
}

// Service implements domain.ReconstructorPort
type Service struct {
	Cfg Config
}

// New constructs a reconstructor service
func New(cfg Config) *Service {
	w := cfg.Workers
	if w <= 0 {
		w = 4
	}
	return &Service{Cfg: Config{Workers: w}}
}

// Run fans the per-user state machines out over a bounded worker pool.
// No two workers ever touch the same user's data, so the only
// synchronization is the final fan-in. Users are walked in sorted order
// and results assembled by index, so output is deterministic regardless
// of scheduling
func (s *Service) Run(ctx context.Context, stream evdom.Stream) ([]domain.Interval, domain.Stats, error) {
	users := stream.Users()

	type chunk struct {
		xs []domain.Interval
		st domain.UserStats
	}
	out := make([]chunk, len(users))

	sem := make(chan struct{}, s.Cfg.Workers)
	wg := sync.WaitGroup{}

	for i := range users {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			u := users[i]
			xs, st := ReconstructUser(u, stream[u])
			out[i] = chunk{xs: xs, st: st}
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, domain.Stats{}, err
	}

	stats := domain.Stats{Users: len(users)}
	flat := make([]domain.Interval, 0, 512)
	for i := range out {
		flat = append(flat, out[i].xs...)
		stats.Add(out[i].st)
	}

	logger.C(ctx).Debug().
		Int("users", stats.Users).
		Int("intervals", stats.Intervals).
		Int("orphan_closes", stats.OrphanCloses).
		Int("implicit_closes", stats.ImplicitCloses).
		Int("censored", stats.Censored).
		Msg("intervals reconstructed")

	return flat, stats, nil
}
