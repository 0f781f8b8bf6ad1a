package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/san-kum/rootsim/internal/config"
	"github.com/san-kum/rootsim/internal/experiment"
)

func build(params map[string]string) (*experiment.Experiment, error) {
	cfg := config.DefaultConfig()
	cfg.Orbit.Eccentricity = 0.9
	cfg.Propagation.Steps = 100
	cfg.Solver.Method = params["solver"]
	cfg.Propagation.Start = params["start"]
	return experiment.New(cfg, zap.NewNop())
}

func TestGridSearch(t *testing.T) {
	g := NewGridSearch(
		Axis{Name: "solver", Values: []string{"bisection", "newton"}},
		Axis{Name: "start", Values: []string{"mean", "warm"}},
	)

	best, trials, err := g.Search(context.Background(), build, "mean_iterations")
	require.NoError(t, err)
	assert.Len(t, trials, 4)
	assert.Equal(t, "newton", best.Params["solver"])

	for _, tr := range trials {
		assert.NoError(t, tr.Err)
		assert.GreaterOrEqual(t, tr.Value, best.Value)
	}
}

func TestGridSearch_SkipsFailedTrials(t *testing.T) {
	g := NewGridSearch(Axis{Name: "solver", Values: []string{"secant", "newton"}})
	g2 := NewGridSearch(Axis{Name: "solver", Values: []string{"secant"}})

	build := func(params map[string]string) (*experiment.Experiment, error) {
		cfg := config.DefaultConfig()
		cfg.Propagation.Steps = 10
		cfg.Solver.Method = params["solver"]
		return experiment.New(cfg, zap.NewNop())
	}

	best, trials, err := g.Search(context.Background(), build, "mean_iterations")
	require.NoError(t, err)
	assert.Error(t, trials[0].Err)
	assert.Equal(t, "newton", best.Params["solver"])

	_, _, err = g2.Search(context.Background(), build, "mean_iterations")
	assert.True(t, errors.Is(err, ErrNoTrials))
}

func TestGridSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch(Axis{Name: "solver", Values: []string{"newton"}})
	_, _, err := g.Search(ctx, build, "mean_iterations")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGridSearch_UnknownMetric(t *testing.T) {
	g := NewGridSearch(
		Axis{Name: "solver", Values: []string{"newton", "bisection"}},
		Axis{Name: "start", Values: []string{"mean"}},
	)

	_, trials, err := g.Search(context.Background(), build, "mean_iteration")
	assert.ErrorIs(t, err, ErrUnknownMetric)
	assert.Contains(t, err.Error(), "mean_iteration")
	assert.Empty(t, trials)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Names(map[string]string{"b": "1", "a": "2"}))
}
