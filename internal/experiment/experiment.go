package experiment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/rootsim/internal/config"
	"github.com/san-kum/rootsim/internal/kepler"
	"github.com/san-kum/rootsim/internal/storage"
)

// Experiment ties a run configuration to a propagator and, optionally, a
// store that keeps the result.
type Experiment struct {
	cfg        *config.Config
	propagator *kepler.Propagator
	store      *storage.Store
	logger     *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) (*Experiment, error) {
	if cfg == nil {
		return nil, fmt.Errorf("experiment: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{
		cfg:        cfg,
		propagator: kepler.NewPropagator(cfg.Orbit.ToKepler(), kepler.WithLogger(logger)),
		logger:     logger,
	}, nil
}

// WithStore makes Run persist its result.
func (e *Experiment) WithStore(st *storage.Store) *Experiment {
	e.store = st
	return e
}

// Outcome is a finished run.
type Outcome struct {
	RunID   string
	Result  *kepler.Result
	Elapsed time.Duration
}

func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	kcfg := e.cfg.ToKepler()

	e.logger.Info("propagating orbit",
		zap.String("name", e.cfg.Name),
		zap.Float64("a", e.cfg.Orbit.SemiMajorAxis),
		zap.Float64("e", e.cfg.Orbit.Eccentricity),
		zap.Int("steps", kcfg.Steps),
		zap.String("solver", kcfg.Solver),
		zap.String("start", kcfg.Start))

	start := time.Now()
	result, err := e.propagator.Run(ctx, kcfg)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Result: result, Elapsed: time.Since(start)}

	if result.Exhausted > 0 {
		e.logger.Warn("some samples did not converge",
			zap.Int("exhausted", result.Exhausted),
			zap.Int("steps", kcfg.Steps))
	}

	if e.store != nil {
		if err := e.store.Init(); err != nil {
			return nil, err
		}
		runID, err := e.store.Save(e.cfg.Name, e.propagator.Orbit(), kcfg, result)
		if err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
		out.RunID = runID
		e.logger.Debug("run saved", zap.String("id", runID))
	}

	return out, nil
}
