package metrics

// Sample is what a propagator reports for one time step.
type Sample struct {
	T          float64
	X, Y       float64
	Iterations int
	Residual   float64
	Exhausted  bool
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Collect feeds every sample to every metric and returns the values by name.
func Collect(samples []Sample, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for _, s := range samples {
			m.Observe(s)
		}
		out[m.Name()] = m.Value()
	}
	return out
}

// Standard returns the metric set recorded with every orbit run.
func Standard() []Metric {
	return []Metric{
		NewMaxResidual(),
		NewMeanIterations(),
		NewExhausted(),
		NewRadius(true),
		NewRadius(false),
		NewArealDrift(),
	}
}
