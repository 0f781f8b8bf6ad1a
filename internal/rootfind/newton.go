package rootfind

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Newton refines x0 towards a root of f. See NewtonResult.
func Newton(f Func, x0 float64, opts ...Option) (float64, error) {
	res, err := NewtonResult(f, x0, opts...)
	if err != nil {
		return math.NaN(), err
	}
	return res.Root, nil
}

// NewtonResult runs Newton-Raphson iteration from x0 while |f(x)| exceeds
// the accuracy threshold (default 1e-5), for at most MaxIterations steps
// (default 100000). The derivative is the forward difference with step h
// (default 1e-5) unless WithDerivative supplies one.
//
// A zero or non-finite derivative fails with a *SingularDerivativeError. Running out of
// budget returns the last iterate with Converged false and a nil error.
func NewtonResult(f Func, x0 float64, opts ...Option) (Result, error) {
	o, err := newOptions(DefaultNewtonAccuracy, opts)
	if err != nil {
		return Result{}, err
	}

	df := o.Derivative
	if df == nil {
		df = ForwardDiff(f, o.Step)
	}

	x := x0
	fx := f(x)
	res := Result{Root: x, Residual: math.Abs(fx), Method: MethodNewton}
	if !isFinite(fx) {
		return res, fmt.Errorf("%w: f(x0) = %g", ErrDiverged, fx)
	}

	k := 0
	for k < o.MaxIterations && math.Abs(fx) > o.Accuracy {
		d := df(x)
		if d == 0 || !isFinite(d) {
			return res, &SingularDerivativeError{X: x, Iteration: k}
		}

		step := fx / d
		x -= step
		fx = f(x)
		k++
		res.Root, res.Residual, res.Iterations = x, math.Abs(fx), k

		if !isFinite(x) || !isFinite(fx) {
			return res, fmt.Errorf("%w at iteration %d", ErrDiverged, k)
		}
		if err := o.observe(Iteration{K: k, X: x, FX: fx, Width: math.Abs(step)}); err != nil {
			return res, err
		}
	}

	res.Converged = math.Abs(fx) <= o.Accuracy
	if !res.Converged {
		o.exhausted(res)
		return res, nil
	}

	o.Logger.Debug("newton converged",
		zap.Int("iterations", k),
		zap.Float64("root", x),
		zap.Float64("residual", res.Residual))
	return res, nil
}
