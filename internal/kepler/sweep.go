package kepler

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sweep propagates each orbit with the same configuration, one goroutine
// per orbit. The first hard failure cancels the remaining runs.
func Sweep(ctx context.Context, orbits []Orbit, cfg Config, opts ...Option) ([]*Result, error) {
	results := make([]*Result, len(orbits))

	g, ctx := errgroup.WithContext(ctx)
	for i, orbit := range orbits {
		g.Go(func() error {
			p := NewPropagator(orbit, opts...)
			res, err := p.Run(ctx, cfg)
			if err != nil {
				p.logger.Warn("sweep member failed",
					zap.Int("index", i),
					zap.Float64("eccentricity", orbit.Eccentricity),
					zap.Error(err))
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
