package kepler_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rootsim/internal/kepler"
	"github.com/san-kum/rootsim/internal/rootfind"
)

var _ = Describe("Orbit", func() {
	orbit := kepler.Orbit{SemiMajorAxis: 1, Eccentricity: 0.5}

	DescribeTable("Validate",
		func(a, e float64, valid bool) {
			err := kepler.Orbit{SemiMajorAxis: a, Eccentricity: e}.Validate()
			if valid {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(errors.Is(err, kepler.ErrInvalidOrbit)).To(BeTrue())
			}
		},
		Entry("circular", 1.0, 0.0, true),
		Entry("eccentric", 2.5, 0.9, true),
		Entry("parabolic", 1.0, 1.0, false),
		Entry("negative eccentricity", 1.0, -0.1, false),
		Entry("zero axis", 0.0, 0.5, false),
		Entry("NaN axis", math.NaN(), 0.5, false),
	)

	It("advances the mean anomaly by 2*pi per period", func() {
		wide := kepler.Orbit{SemiMajorAxis: 4, Eccentricity: 0.1}
		Expect(wide.Period()).To(BeNumerically("~", 8, 1e-12))
		Expect(wide.MeanAnomaly(wide.Period())).To(BeNumerically("~", 2*math.Pi, 1e-12))
		Expect(orbit.MeanAnomaly(0.25)).To(BeNumerically("~", math.Pi/2, 1e-12))
	})

	It("builds an equation whose root satisfies Kepler's equation", func() {
		g := orbit.Equation(0.3)
		E, err := rootfind.Newton(g, orbit.MeanAnomaly(0.3), rootfind.WithAccuracy(1e-12))
		Expect(err).NotTo(HaveOccurred())
		Expect(E - 0.5*math.Sin(E)).To(BeNumerically("~", orbit.MeanAnomaly(0.3), 1e-12))
	})

	It("matches the analytic derivative to the finite difference", func() {
		g := orbit.Equation(0.1)
		dg := orbit.EquationDerivative()
		for _, E := range []float64{0, 0.7, 2, -3} {
			Expect(rootfind.Derivative(g, E, 1e-7)).To(BeNumerically("~", dg(E), 1e-6))
		}
	})

	It("places periapsis and apoapsis on the x axis", func() {
		peri := orbit.Position(0)
		Expect(peri.X).To(BeNumerically("~", 0.5, 1e-12))
		Expect(peri.Y).To(BeNumerically("~", 0, 1e-12))

		apo := orbit.Position(math.Pi)
		Expect(apo.X).To(BeNumerically("~", -1.5, 1e-12))
		Expect(apo.Norm()).To(BeNumerically("~", 1.5, 1e-12))
	})

	It("keeps the focal distance at a(1 - e cos E)", func() {
		for _, E := range []float64{0.2, 1.1, 2.9, 4.4} {
			want := orbit.SemiMajorAxis * (1 - orbit.Eccentricity*math.Cos(E))
			Expect(orbit.Position(E).Norm()).To(BeNumerically("~", want, 1e-12))
		}
	})
})
