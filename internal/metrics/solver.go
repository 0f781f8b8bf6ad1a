package metrics

import "math"

type MaxResidual struct {
	max float64
}

func NewMaxResidual() *MaxResidual { return &MaxResidual{} }

func (m *MaxResidual) Name() string { return "max_residual" }

func (m *MaxResidual) Observe(s Sample) {
	m.max = math.Max(m.max, math.Abs(s.Residual))
}

func (m *MaxResidual) Value() float64 { return m.max }

func (m *MaxResidual) Reset() { m.max = 0 }

type MeanIterations struct {
	sum     int
	samples int
}

func NewMeanIterations() *MeanIterations { return &MeanIterations{} }

func (m *MeanIterations) Name() string { return "mean_iterations" }

func (m *MeanIterations) Observe(s Sample) {
	m.sum += s.Iterations
	m.samples++
}

func (m *MeanIterations) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.sum) / float64(m.samples)
}

func (m *MeanIterations) Reset() {
	m.sum = 0
	m.samples = 0
}

// Exhausted counts samples whose solve ran out of budget.
type Exhausted struct {
	count int
}

func NewExhausted() *Exhausted { return &Exhausted{} }

func (e *Exhausted) Name() string { return "exhausted" }

func (e *Exhausted) Observe(s Sample) {
	if s.Exhausted {
		e.count++
	}
}

func (e *Exhausted) Value() float64 { return float64(e.count) }

func (e *Exhausted) Reset() { e.count = 0 }
