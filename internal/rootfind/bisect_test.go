package rootfind

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBisect_Linear(t *testing.T) {
	f := func(x float64) float64 { return x - 2 }

	root, err := Bisect(f, 0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, root, DefaultBisectAccuracy)
}

func TestBisect_OrderIndependent(t *testing.T) {
	f := func(x float64) float64 { return x - 2 }

	r1, err := Bisect(f, 0, 5)
	require.NoError(t, err)
	r2, err := Bisect(f, 5, 0)
	require.NoError(t, err)
	assert.InDelta(t, r1, r2, 1e-10)
}

func TestBisect_PowerTower(t *testing.T) {
	f := func(x float64) float64 { return math.Pow(x, x) - 100 }

	res, err := BisectResult(f, 0.5, 5)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 3.5972850235, res.Root, 1e-9)
	assert.Less(t, res.Residual, DefaultBisectAccuracy)
}

func TestBisect_IterationBound(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		root     float64
		accuracy float64
	}{
		{"default accuracy", 0, 5, 2, 1e-10},
		{"coarse accuracy", -3, 7, 1.3, 1e-3},
		{"negative root", -10, 1, -4.75, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tt.root
			f := func(x float64) float64 { return x - root }

			res, err := BisectResult(f, tt.a, tt.b, WithAccuracy(tt.accuracy))
			require.NoError(t, err)
			require.True(t, res.Converged)

			bound := int(math.Ceil(math.Log2((tt.b - tt.a) / tt.accuracy)))
			assert.LessOrEqual(t, res.Iterations, bound)
			assert.Less(t, math.Abs(f(res.Root)), tt.accuracy)
		})
	}
}

func TestBisect_SameSign(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }

	brackets := [][2]float64{{-1, 1}, {0, 5}, {-10, -2}}
	for _, br := range brackets {
		_, err := Bisect(f, br[0], br[1])
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidBracket), "bracket %v: %v", br, err)

		var bracketErr *InvalidBracketError
		require.True(t, errors.As(err, &bracketErr))
		assert.Equal(t, br[0], bracketErr.A)
		assert.Equal(t, br[1], bracketErr.B)
	}
}

func TestBisect_NoEvaluationBeyondEndpointsOnBadBracket(t *testing.T) {
	calls := 0
	f := func(x float64) float64 {
		calls++
		return x*x + 1
	}

	_, err := Bisect(f, -1, 1)
	require.ErrorIs(t, err, ErrInvalidBracket)
	assert.Equal(t, 2, calls)
}

func TestBisect_EndpointIsRoot(t *testing.T) {
	f := func(x float64) float64 { return x - 2 }

	res, err := BisectResult(f, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Root)
	assert.Equal(t, 0, res.Iterations)

	res, err = BisectResult(f, -3, 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Root)
	assert.Equal(t, 0, res.Iterations)
}

func TestBisect_BothEndpointsZero(t *testing.T) {
	f := func(x float64) float64 { return (x - 1) * (x + 1) }

	root, err := Bisect(f, -1, 1)
	require.NoError(t, err)
	assert.Equal(t, -1.0, root)
}

func TestBisect_NaNMidpoint(t *testing.T) {
	tests := []struct {
		name  string
		f     Func
		iters int
	}{
		{"first midpoint", func(x float64) float64 {
			if x == 2 {
				return math.NaN()
			}
			return x - 1
		}, 1},
		{"after narrowing", func(x float64) float64 {
			if math.Abs(x-1) < 0.3 {
				return math.NaN()
			}
			return x - 1
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := BisectResult(tt.f, 0, 4)
			require.ErrorIs(t, err, ErrDiverged)
			assert.Equal(t, tt.iters, res.Iterations)
			assert.False(t, res.Converged)
		})
	}
}

func TestBisect_BudgetExhausted(t *testing.T) {
	f := func(x float64) float64 { return x - 2 }

	res, err := BisectResult(f, 0, 5, WithMaxIterations(1))
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.True(t, res.Exhausted())
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, 2.5, res.Root)
	assert.Greater(t, math.Abs(res.Root-2), DefaultBisectAccuracy)
}

func TestBisect_BracketInvariantHolds(t *testing.T) {
	f := func(x float64) float64 { return math.Cos(x) - x }

	var widths []float64
	_, err := BisectResult(f, 0, 1, WithObserver(func(it Iteration) error {
		widths = append(widths, it.Width)
		return nil
	}))
	require.NoError(t, err)
	require.NotEmpty(t, widths)

	for i := 1; i < len(widths); i++ {
		assert.InDelta(t, widths[i-1]/2, widths[i], 1e-15)
	}
}

func TestBisect_ObserverStops(t *testing.T) {
	f := func(x float64) float64 { return x - 2 }

	res, err := BisectResult(f, 0, 5, WithObserver(func(it Iteration) error {
		if it.K == 3 {
			return ErrStopped
		}
		return nil
	}))
	require.ErrorIs(t, err, ErrStopped)
	assert.Equal(t, 3, res.Iterations)
}

func TestBisect_BadOptions(t *testing.T) {
	f := func(x float64) float64 { return x - 2 }

	tests := []struct {
		name string
		opt  Option
	}{
		{"zero accuracy", WithAccuracy(0)},
		{"negative accuracy", WithAccuracy(-1e-3)},
		{"zero iterations", WithMaxIterations(0)},
		{"NaN accuracy", WithAccuracy(math.NaN())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bisect(f, 0, 5, tt.opt)
			assert.ErrorIs(t, err, ErrBadOption)
		})
	}
}

func TestBisect_Idempotent(t *testing.T) {
	f := func(x float64) float64 { return x*x*x - 2*x - 5 }

	r1, err := Bisect(f, 2, 3)
	require.NoError(t, err)
	r2, err := Bisect(f, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, math.Float64bits(r1), math.Float64bits(r2))
}

func TestSolve_FindsBracketFirst(t *testing.T) {
	f := func(x float64) float64 { return x - 2 }

	res, err := Solve(f)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 2.0, res.Root, 1e-9)
}

func TestSolve_NoRealRoot(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }

	_, err := Solve(f)
	assert.ErrorIs(t, err, ErrBracketNotFound)
}
