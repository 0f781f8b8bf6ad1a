// Package kepler propagates a two-body elliptical orbit by solving Kepler's
// equation once per time sample.
//
// For each sample t the propagator builds g(E) = E - e*sin(E) - M(t), hands
// it to a root finder from package rootfind and maps the eccentric anomaly
// E onto a 2-D position relative to the focus:
//
//	orbit := kepler.Orbit{SemiMajorAxis: 1, Eccentricity: 0.5}
//	p := kepler.NewPropagator(orbit)
//	result, err := p.Run(ctx, kepler.DefaultConfig())
//
// The solvers remember nothing between calls. Warm starting, which feeds
// the previous anomaly in as the next initial guess, is done here.
package kepler
