package rootfind

import (
	"errors"
	"fmt"
)

// Domain errors for root finding operations.
var (
	// ErrInvalidBracket indicates both bracket endpoints evaluate to the same sign.
	ErrInvalidBracket = errors.New("rootfind: both endpoints share sign")

	// ErrSingularDerivative indicates the derivative estimate vanished at an iterate.
	ErrSingularDerivative = errors.New("rootfind: derivative is zero")

	// ErrBracketNotFound indicates the symmetric search hit its ceiling without a sign change.
	ErrBracketNotFound = errors.New("rootfind: no sign change found")

	// ErrBracketInvariant indicates the tracked endpoints lost their sign opposition.
	ErrBracketInvariant = errors.New("rootfind: bracket invariant violated")

	// ErrDiverged indicates an iterate became NaN or Inf.
	ErrDiverged = errors.New("rootfind: iterate diverged (NaN or Inf)")

	// ErrStopped is returned by an iteration hook to abort a solve early.
	ErrStopped = errors.New("rootfind: stopped by callback")

	// ErrBadOption indicates an option value outside its valid range.
	ErrBadOption = errors.New("rootfind: option out of valid bounds")
)

// InvalidBracketError reports the endpoints that failed the sign check.
type InvalidBracketError struct {
	A, B   float64
	FA, FB float64
}

func (e *InvalidBracketError) Error() string {
	return fmt.Sprintf("%v: f(%g)=%g, f(%g)=%g", ErrInvalidBracket, e.A, e.FA, e.B, e.FB)
}

func (e *InvalidBracketError) Unwrap() error {
	return ErrInvalidBracket
}

// SingularDerivativeError reports where the Newton step became undefined.
type SingularDerivativeError struct {
	X         float64
	Iteration int
}

func (e *SingularDerivativeError) Error() string {
	return fmt.Sprintf("%v at x=%g (iteration %d)", ErrSingularDerivative, e.X, e.Iteration)
}

func (e *SingularDerivativeError) Unwrap() error {
	return ErrSingularDerivative
}
