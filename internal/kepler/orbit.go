package kepler

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/rootsim/internal/rootfind"
)

// ErrInvalidOrbit indicates orbital elements outside the elliptical range.
var ErrInvalidOrbit = errors.New("kepler: invalid orbit (need a > 0, 0 <= e < 1)")

// Orbit holds the elements of a bound Keplerian orbit. Distances are in
// astronomical units and time in years, so a = 1 has a period of 1.
type Orbit struct {
	SemiMajorAxis float64 `json:"semi_major_axis"`
	Eccentricity  float64 `json:"eccentricity"`
}

// Point is a position in the orbital plane with the focus at the origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

func (o Orbit) Validate() error {
	a, e := o.SemiMajorAxis, o.Eccentricity
	if !(a > 0) || !(e >= 0) || e >= 1 || math.IsInf(a, 0) {
		return fmt.Errorf("%w: a=%g e=%g", ErrInvalidOrbit, a, e)
	}
	return nil
}

// Period returns the orbital period, a^(3/2).
func (o Orbit) Period() float64 {
	return math.Pow(o.SemiMajorAxis, 1.5)
}

// MeanAnomaly returns M(t) = 2*pi / a^(3/2) * t.
func (o Orbit) MeanAnomaly(t float64) float64 {
	return 2 * math.Pi / o.Period() * t
}

// Equation returns g(E) = E - e*sin(E) - M(t), whose root is the eccentric
// anomaly at time t.
func (o Orbit) Equation(t float64) rootfind.Func {
	e := o.Eccentricity
	m := o.MeanAnomaly(t)
	return func(E float64) float64 {
		return E - e*math.Sin(E) - m
	}
}

// EquationDerivative returns dg/dE = 1 - e*cos(E). It does not depend on t.
func (o Orbit) EquationDerivative() rootfind.Func {
	e := o.Eccentricity
	return func(E float64) float64 {
		return 1 - e*math.Cos(E)
	}
}

// Position maps the eccentric anomaly to focus-centred coordinates.
func (o Orbit) Position(E float64) Point {
	a, e := o.SemiMajorAxis, o.Eccentricity
	return Point{
		X: a * (math.Cos(E) - e),
		Y: a * math.Sqrt(1-e*e) * math.Sin(E),
	}
}
