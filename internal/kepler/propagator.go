package kepler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/rootsim/internal/metrics"
	"github.com/san-kum/rootsim/internal/rootfind"
)

// Initial guess strategies for the Newton solver.
const (
	StartMean     = "mean"     // x0 = M(t)
	StartWarm     = "warm"     // x0 = previous solution, M(t) for the first sample
	StartConstant = "constant" // x0 = Config.Guess for every sample
)

const (
	SolverNewton    = rootfind.MethodNewton
	SolverBisection = rootfind.MethodBisection
)

type Config struct {
	Dt            float64
	Steps         int
	Solver        string
	Start         string
	Guess         float64
	Accuracy      float64
	MaxIterations int
	Step          float64 // finite-difference step, 0 keeps the solver default
	Analytic      bool    // use dg/dE instead of the finite-difference estimate
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Steps:         1000,
		Solver:        SolverNewton,
		Start:         StartMean,
		Accuracy:      1e-9,
		MaxIterations: 1000,
	}
}

// Result collects one entry per time sample.
type Result struct {
	Times      []float64          `json:"times"`
	Anomalies  []float64          `json:"anomalies"`
	Positions  []Point            `json:"positions"`
	Iterations []int              `json:"iterations"`
	Residuals  []float64          `json:"residuals"`
	Metrics    map[string]float64 `json:"metrics"`

	TotalIterations int `json:"total_iterations"`
	Exhausted       int `json:"exhausted"`
}

// SampleError wraps a solver failure with the sample it happened at.
type SampleError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SampleError) Unwrap() error {
	return e.Wrapped
}

type Propagator struct {
	orbit  Orbit
	logger *zap.Logger
}

type Option func(*Propagator)

func WithLogger(l *zap.Logger) Option {
	return func(p *Propagator) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewPropagator(orbit Orbit, opts ...Option) *Propagator {
	p := &Propagator{orbit: orbit, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Propagator) Orbit() Orbit { return p.orbit }

// Run solves Kepler's equation at t = 0, dt, 2*dt, ... for cfg.Steps
// samples. A sample whose solver runs out of budget keeps its best estimate
// and is counted in Result.Exhausted; a singular derivative aborts the run.
func (p *Propagator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := p.validate(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Times:      make([]float64, 0, cfg.Steps),
		Anomalies:  make([]float64, 0, cfg.Steps),
		Positions:  make([]Point, 0, cfg.Steps),
		Iterations: make([]int, 0, cfg.Steps),
		Residuals:  make([]float64, 0, cfg.Steps),
		Metrics:    make(map[string]float64),
	}

	opts := []rootfind.Option{
		rootfind.WithAccuracy(cfg.Accuracy),
		rootfind.WithMaxIterations(cfg.MaxIterations),
		rootfind.WithLogger(p.logger),
	}
	if cfg.Step > 0 {
		opts = append(opts, rootfind.WithStep(cfg.Step))
	}
	if cfg.Analytic {
		opts = append(opts, rootfind.WithDerivative(p.orbit.EquationDerivative()))
	}

	samples := make([]metrics.Sample, 0, cfg.Steps)
	t := 0.0
	prev := 0.0
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		res, err := p.solve(t, i, prev, cfg, opts)
		if err != nil {
			return result, &SampleError{Step: i, Time: t, Wrapped: err}
		}
		if res.Exhausted() {
			result.Exhausted++
			p.logger.Debug("sample not converged",
				zap.Int("step", i),
				zap.Float64("t", t),
				zap.Float64("residual", res.Residual))
		}

		prev = res.Root
		pos := p.orbit.Position(res.Root)
		samples = append(samples, metrics.Sample{
			T: t, X: pos.X, Y: pos.Y,
			Iterations: res.Iterations,
			Residual:   res.Residual,
			Exhausted:  res.Exhausted(),
		})
		result.Times = append(result.Times, t)
		result.Anomalies = append(result.Anomalies, res.Root)
		result.Positions = append(result.Positions, pos)
		result.Iterations = append(result.Iterations, res.Iterations)
		result.Residuals = append(result.Residuals, res.Residual)
		result.TotalIterations += res.Iterations

		t += cfg.Dt
	}

	result.Metrics = metrics.Collect(samples, metrics.Standard()...)
	return result, nil
}

func (p *Propagator) solve(t float64, step int, prev float64, cfg Config, opts []rootfind.Option) (rootfind.Result, error) {
	g := p.orbit.Equation(t)
	m := p.orbit.MeanAnomaly(t)

	switch cfg.Solver {
	case SolverBisection:
		// |E - M| = e*|sin E| <= e, so [M-e, M+e] always brackets the root.
		e := p.orbit.Eccentricity
		return rootfind.BisectResult(g, m-e, m+e, opts...)
	default:
		x0 := m
		switch cfg.Start {
		case StartWarm:
			if step > 0 {
				x0 = prev
			}
		case StartConstant:
			x0 = cfg.Guess
		}
		return rootfind.NewtonResult(g, x0, opts...)
	}
}

func (p *Propagator) validate(cfg Config) error {
	if err := p.orbit.Validate(); err != nil {
		return err
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if !(cfg.Accuracy > 0) {
		return fmt.Errorf("accuracy must be positive, got %g", cfg.Accuracy)
	}
	if cfg.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be at least 1, got %d", cfg.MaxIterations)
	}
	switch cfg.Solver {
	case SolverNewton, SolverBisection:
	default:
		return fmt.Errorf("unknown solver: %s", cfg.Solver)
	}
	switch cfg.Start {
	case StartMean, StartWarm, StartConstant:
	default:
		return fmt.Errorf("unknown start strategy: %s", cfg.Start)
	}
	return nil
}
