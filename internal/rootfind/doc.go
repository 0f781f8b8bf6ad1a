// Package rootfind provides root finding for scalar, single-variable functions.
//
// Two complementary solvers share one convergence policy:
//
//   - [Bisect]: narrows a [Bracket] with a guaranteed sign change
//   - [Newton]: derivative-guided refinement of a single estimate
//   - [FindBracket]: symmetric search for a sign-changing bracket
//   - [ForwardDiff]: forward finite-difference derivative used by Newton
//
// Both solvers stop on the first of two events: the residual |f(x)| drops
// below the accuracy threshold, or the iteration budget runs out. Running
// out of budget is not an error; the best estimate is returned with
// [Result.Converged] set to false and a warning is emitted through the
// configured logger and exhaustion hook.
//
// # Example
//
//	f := func(x float64) float64 { return x*x - 4 }
//	root, err := rootfind.Newton(f, 3)
//	if errors.Is(err, rootfind.ErrSingularDerivative) {
//	    // retry with a perturbed starting point
//	}
//
// # Thread Safety
//
// Solvers keep all state on the call stack. They are safe to call from
// multiple goroutines as long as the supplied [Func] is reentrant.
package rootfind
