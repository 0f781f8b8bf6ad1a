package rootfind

import (
	"math"

	"go.uber.org/zap"
)

// Bisect locates a root of f between a and b. See BisectResult.
func Bisect(f Func, a, b float64, opts ...Option) (float64, error) {
	res, err := BisectResult(f, a, b, opts...)
	if err != nil {
		return math.NaN(), err
	}
	return res.Root, nil
}

// BisectResult halves the bracket [a, b] until the midpoint residual drops
// below the accuracy threshold (default 1e-10) or the iteration budget
// (default 100000) is spent. f(a) and f(b) must not share a sign.
//
// On budget exhaustion the last midpoint is returned with Converged false
// and a nil error.
func BisectResult(f Func, a, b float64, opts ...Option) (Result, error) {
	o, err := newOptions(DefaultBisectAccuracy, opts)
	if err != nil {
		return Result{}, err
	}

	fa, fb := f(a), f(b)
	br, err := bracketFrom(a, b, fa, fb)
	if err != nil {
		return Result{}, err
	}

	if math.Abs(fa) <= o.Accuracy {
		return Result{Root: a, Residual: math.Abs(fa), Converged: true, Method: MethodBisection}, nil
	}
	if math.Abs(fb) <= o.Accuracy {
		return Result{Root: b, Residual: math.Abs(fb), Converged: true, Method: MethodBisection}, nil
	}

	res := Result{Method: MethodBisection}
	for k := 1; k <= o.MaxIterations; k++ {
		m := br.Mid()
		v := f(m)
		res.Root, res.Residual, res.Iterations = m, math.Abs(v), k

		if math.IsNaN(v) {
			return res, ErrDiverged
		}
		if err := o.observe(Iteration{K: k, X: m, FX: v, Width: br.Width() / 2}); err != nil {
			return res, err
		}
		if math.Abs(v) < o.Accuracy {
			res.Converged = true
			o.Logger.Debug("bisection converged",
				zap.Int("iterations", k),
				zap.Float64("root", m),
				zap.Float64("residual", res.Residual))
			return res, nil
		}

		// Adjacent floats: the midpoint can no longer move.
		if m == br.Pos || m == br.Neg {
			break
		}

		br.Update(m, v)
		if !br.Valid() {
			return res, ErrBracketInvariant
		}
	}

	o.exhausted(res)
	return res, nil
}

// Solve finds a root of f when no bracket is known: it runs FindBracket
// with default search settings, then bisects the bracket it found.
func Solve(f Func, opts ...Option) (Result, error) {
	br, err := FindBracket(f)
	if err != nil {
		return Result{}, err
	}
	return BisectResult(f, br.Pos, br.Neg, opts...)
}
