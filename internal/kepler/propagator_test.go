package kepler_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/rootsim/internal/kepler"
	"github.com/san-kum/rootsim/internal/rootfind"
)

var _ = Describe("Propagator", func() {
	var (
		orbit kepler.Orbit
		cfg   kepler.Config
		ctx   context.Context
	)

	BeforeEach(func() {
		orbit = kepler.Orbit{SemiMajorAxis: 1, Eccentricity: 0.5}
		cfg = kepler.DefaultConfig()
		cfg.Steps = 200
		ctx = context.Background()
	})

	It("produces one sample per step", func() {
		res, err := kepler.NewPropagator(orbit).Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Times).To(HaveLen(200))
		Expect(res.Positions).To(HaveLen(200))
		Expect(res.Anomalies).To(HaveLen(200))
		Expect(res.Times[0]).To(Equal(0.0))
		Expect(res.Times[1]).To(BeNumerically("~", cfg.Dt, 1e-15))
		Expect(res.Exhausted).To(BeZero())
	})

	It("solves every sample to the requested accuracy", func() {
		res, err := kepler.NewPropagator(orbit).Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		for i, E := range res.Anomalies {
			g := orbit.Equation(res.Times[i])
			Expect(math.Abs(g(E))).To(BeNumerically("<=", cfg.Accuracy))
		}
		Expect(res.Metrics["max_residual"]).To(BeNumerically("<=", cfg.Accuracy))
	})

	It("spans periapsis to apoapsis over a full period", func() {
		cfg.Steps = 100
		res, err := kepler.NewPropagator(orbit).Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics["r_min"]).To(BeNumerically("~", 0.5, 1e-6))
		Expect(res.Metrics["r_max"]).To(BeNumerically("~", 1.5, 1e-6))
	})

	DescribeTable("agrees across solvers",
		func(mutate func(*kepler.Config)) {
			ref, err := kepler.NewPropagator(orbit).Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())

			alt := cfg
			mutate(&alt)
			res, err := kepler.NewPropagator(orbit).Run(ctx, alt)
			Expect(err).NotTo(HaveOccurred())

			for i := range ref.Anomalies {
				Expect(res.Anomalies[i]).To(BeNumerically("~", ref.Anomalies[i], 1e-8))
			}
		},
		Entry("bisection", func(c *kepler.Config) { c.Solver = kepler.SolverBisection }),
		Entry("analytic derivative", func(c *kepler.Config) { c.Analytic = true }),
		Entry("warm start", func(c *kepler.Config) { c.Start = kepler.StartWarm }),
	)

	It("needs fewer iterations when warm started", func() {
		cold := cfg
		cold.Start = kepler.StartConstant
		cold.Guess = 0
		coldRes, err := kepler.NewPropagator(orbit).Run(ctx, cold)
		Expect(err).NotTo(HaveOccurred())

		warm := cfg
		warm.Start = kepler.StartWarm
		warmRes, err := kepler.NewPropagator(orbit).Run(ctx, warm)
		Expect(err).NotTo(HaveOccurred())

		Expect(warmRes.TotalIterations).To(BeNumerically("<", coldRes.TotalIterations))
	})

	It("keeps going when a sample runs out of budget", func() {
		core, logs := observer.New(zapcore.WarnLevel)
		cfg.MaxIterations = 1
		cfg.Accuracy = 1e-14
		cfg.Steps = 20

		res, err := kepler.NewPropagator(orbit, kepler.WithLogger(zap.New(core))).Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Anomalies).To(HaveLen(20))
		Expect(res.Exhausted).To(BeNumerically(">", 0))
		Expect(logs.FilterMessage("max iterations reached, returning best estimate").Len()).To(Equal(res.Exhausted))
	})

	It("rejects an unbound orbit before solving", func() {
		_, err := kepler.NewPropagator(kepler.Orbit{SemiMajorAxis: 1, Eccentricity: 1}).Run(ctx, cfg)
		Expect(errors.Is(err, kepler.ErrInvalidOrbit)).To(BeTrue())
	})

	It("stops on context cancellation", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		res, err := kepler.NewPropagator(orbit).Run(cctx, cfg)
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(res.Anomalies).To(BeEmpty())
	})

	DescribeTable("rejects invalid configuration",
		func(mutate func(*kepler.Config)) {
			bad := cfg
			mutate(&bad)
			_, err := kepler.NewPropagator(orbit).Run(ctx, bad)
			Expect(err).To(HaveOccurred())
		},
		Entry("zero dt", func(c *kepler.Config) { c.Dt = 0 }),
		Entry("negative steps", func(c *kepler.Config) { c.Steps = -1 }),
		Entry("unknown solver", func(c *kepler.Config) { c.Solver = "secant" }),
		Entry("unknown start", func(c *kepler.Config) { c.Start = "random" }),
		Entry("zero accuracy", func(c *kepler.Config) { c.Accuracy = 0 }),
		Entry("zero budget", func(c *kepler.Config) { c.MaxIterations = 0 }),
	)

	It("is deterministic", func() {
		a, err := kepler.NewPropagator(orbit).Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		b, err := kepler.NewPropagator(orbit).Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Anomalies).To(Equal(a.Anomalies))
	})

	It("wraps solver errors in SampleError", func() {
		err := error(&kepler.SampleError{Step: 3, Time: 0.03, Wrapped: rootfind.ErrSingularDerivative})
		Expect(errors.Is(err, rootfind.ErrSingularDerivative)).To(BeTrue())
		Expect(err.Error()).To(Equal("sample 3 (t=0.0300): rootfind: derivative is zero"))
	})
})
