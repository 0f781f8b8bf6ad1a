package rootfind

// Derivative estimates f'(x) by forward differencing with step h.
func Derivative(f Func, x, h float64) float64 {
	return (f(x+h) - f(x)) / h
}

// ForwardDiff returns the forward finite-difference derivative of f.
func ForwardDiff(f Func, h float64) Func {
	return func(x float64) float64 {
		return Derivative(f, x, h)
	}
}
