package metrics

import "math"

// Radius tracks the closest (min) or farthest distance from the focus.
type Radius struct {
	closest bool
	value   float64
	seen    bool
}

func NewRadius(closest bool) *Radius {
	return &Radius{closest: closest}
}

func (r *Radius) Name() string {
	if r.closest {
		return "r_min"
	}
	return "r_max"
}

func (r *Radius) Observe(s Sample) {
	d := math.Hypot(s.X, s.Y)
	switch {
	case !r.seen:
		r.value = d
		r.seen = true
	case r.closest:
		r.value = math.Min(r.value, d)
	default:
		r.value = math.Max(r.value, d)
	}
}

func (r *Radius) Value() float64 { return r.value }

func (r *Radius) Reset() {
	r.value = 0
	r.seen = false
}

// ArealDrift measures how far the area swept between consecutive samples
// strays from the first interval's area. Equal time steps sweep equal
// areas on a Kepler orbit, so growth here points at solver error or a
// time step too coarse for the chord approximation.
type ArealDrift struct {
	prev     Sample
	initial  float64
	maxDrift float64
	samples  int
}

func NewArealDrift() *ArealDrift { return &ArealDrift{} }

func (a *ArealDrift) Name() string { return "areal_drift" }

func (a *ArealDrift) Observe(s Sample) {
	defer func() { a.prev = s }()
	a.samples++
	if a.samples == 1 {
		return
	}

	area := 0.5 * math.Abs(a.prev.X*s.Y-s.X*a.prev.Y)
	if a.samples == 2 {
		a.initial = area
		return
	}
	if a.initial != 0 {
		drift := math.Abs(area-a.initial) / a.initial
		a.maxDrift = math.Max(a.maxDrift, drift)
	}
}

func (a *ArealDrift) Value() float64 { return a.maxDrift }

func (a *ArealDrift) Reset() {
	a.prev = Sample{}
	a.initial = 0
	a.maxDrift = 0
	a.samples = 0
}
