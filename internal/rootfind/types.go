package rootfind

import "math"

// Func is a scalar function of one real variable. Solvers may call it many
// times at the same point and expect the same answer each time.
type Func func(x float64) float64

const (
	MethodBisection = "bisection"
	MethodNewton    = "newton"
)

// Iteration is a snapshot of one solver step, handed to the observer hook.
type Iteration struct {
	K     int     `json:"k"`
	X     float64 `json:"x"`
	FX    float64 `json:"fx"`
	Width float64 `json:"width"` // bracket width for bisection, |dx| for newton
}

// Result is the outcome of a solve.
type Result struct {
	Root       float64 `json:"root"`
	Residual   float64 `json:"residual"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
	Method     string  `json:"method"`
}

// Exhausted reports whether the iteration budget ran out before the
// accuracy threshold was met.
func (r Result) Exhausted() bool {
	return !r.Converged
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
