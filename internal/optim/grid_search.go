package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/rootsim/internal/experiment"
)

var (
	ErrNoTrials      = errors.New("optim: no trial completed")
	ErrUnknownMetric = errors.New("optim: metric not reported by run")
)

// Axis is one dimension of the grid.
type Axis struct {
	Name   string
	Values []string
}

// Trial is one point of the grid and the metric it scored.
type Trial struct {
	Params map[string]string
	Value  float64
	Err    error
}

type GridSearch struct {
	axes []Axis
}

func NewGridSearch(axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes}
}

// Search runs one experiment per grid point and returns the trial with the
// lowest metric, plus every trial in the order visited. A trial whose
// experiment fails to build or run is recorded with its error and skipped;
// a metric the run does not report aborts the search with ErrUnknownMetric.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]string) (*experiment.Experiment, error),
	metricName string,
) (Trial, []Trial, error) {
	var trials []Trial
	if err := g.searchRecursive(ctx, 0, map[string]string{}, buildExperiment, metricName, &trials); err != nil {
		return Trial{}, trials, err
	}

	best := Trial{Value: math.Inf(1)}
	found := false
	for _, tr := range trials {
		if tr.Err == nil && tr.Value < best.Value {
			best = tr
			found = true
		}
	}
	if !found {
		return Trial{}, trials, ErrNoTrials
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]string,
	buildExperiment func(map[string]string) (*experiment.Experiment, error),
	metricName string,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.axes) {
		tr := Trial{Params: current, Value: math.Inf(1)}
		exp, err := buildExperiment(current)
		if err != nil {
			tr.Err = err
			*trials = append(*trials, tr)
			return nil
		}

		outcome, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			tr.Err = err
			*trials = append(*trials, tr)
			return nil
		}

		v, ok := outcome.Result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMetric, metricName)
		}
		tr.Value = v
		*trials = append(*trials, tr)
		return nil
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		next := make(map[string]string, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[axis.Name] = val

		if err := g.searchRecursive(ctx, depth+1, next, buildExperiment, metricName, trials); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the axis names in a stable order.
func Names(params map[string]string) []string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
