package rootfind

import "math"

// Bracket is an interval whose endpoints evaluate to opposite signs.
// Pos holds the endpoint with f >= 0, Neg the endpoint with f <= 0.
type Bracket struct {
	Pos, Neg   float64
	FPos, FNeg float64
}

// NewBracket orders a and b by the sign of f. The endpoints may be given in
// either order.
func NewBracket(f Func, a, b float64) (Bracket, error) {
	fa, fb := f(a), f(b)
	return bracketFrom(a, b, fa, fb)
}

func bracketFrom(a, b, fa, fb float64) (Bracket, error) {
	if sign(fa)*sign(fb) > 0 || math.IsNaN(fa) || math.IsNaN(fb) {
		return Bracket{}, &InvalidBracketError{A: a, B: b, FA: fa, FB: fb}
	}
	if fa > 0 || (fa == 0 && fb < 0) {
		return Bracket{Pos: a, Neg: b, FPos: fa, FNeg: fb}, nil
	}
	return Bracket{Pos: b, Neg: a, FPos: fb, FNeg: fa}, nil
}

// Valid reports whether the sign opposition still holds.
func (b Bracket) Valid() bool {
	return b.FPos >= 0 && b.FNeg <= 0
}

func (b Bracket) Mid() float64 {
	return 0.5 * (b.Pos + b.Neg)
}

func (b Bracket) Width() float64 {
	return math.Abs(b.Pos - b.Neg)
}

// Update replaces the endpoint that shares the sign of fm with m.
func (b *Bracket) Update(m, fm float64) {
	if fm > 0 {
		b.Pos, b.FPos = m, fm
	} else {
		b.Neg, b.FNeg = m, fm
	}
}

type searchConfig struct {
	start        float64
	growth       float64
	maxMagnitude float64
	maxSteps     int
}

// SearchOption configures FindBracket.
type SearchOption func(*searchConfig)

func WithStart(v float64) SearchOption {
	return func(c *searchConfig) { c.start = v }
}

func WithGrowth(v float64) SearchOption {
	return func(c *searchConfig) { c.growth = v }
}

// WithMaxMagnitude caps |v| during the search.
func WithMaxMagnitude(v float64) SearchOption {
	return func(c *searchConfig) { c.maxMagnitude = v }
}

func WithMaxSteps(n int) SearchOption {
	return func(c *searchConfig) { c.maxSteps = n }
}

// FindBracket searches the symmetric points -v and +v for v = start,
// start+growth, ... until f changes sign between them (an exact zero at
// either point also ends the search). The search ends with
// ErrBracketNotFound once v exceeds the magnitude ceiling or the step cap.
func FindBracket(f Func, opts ...SearchOption) (Bracket, error) {
	cfg := searchConfig{
		start:        DefaultSearchStart,
		growth:       DefaultSearchGrowth,
		maxMagnitude: DefaultSearchMaxMagnitude,
		maxSteps:     DefaultSearchMaxSteps,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.start <= 0 || cfg.growth <= 0 || cfg.maxSteps < 1 || cfg.maxMagnitude < cfg.start {
		return Bracket{}, ErrBadOption
	}

	v := cfg.start
	for i := 0; i < cfg.maxSteps && v <= cfg.maxMagnitude; i++ {
		fp, fn := f(v), f(-v)
		if !math.IsNaN(fp) && !math.IsNaN(fn) && sign(fp)*sign(fn) <= 0 {
			return bracketFrom(v, -v, fp, fn)
		}
		v += cfg.growth
	}
	return Bracket{}, ErrBracketNotFound
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
