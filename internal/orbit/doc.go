// Package orbit computes prescribed elliptical orbits.
//
// A body's accumulated orbital angle is used directly as the true anomaly
// when evaluating the conic radius:
//
//	r = a(1-e²) / (1 + e·cos θ)
//
// The live position of a body ([PositionAt]) and the polyline drawn for its
// trajectory ([SamplePath]) are produced by the same function, so a body is
// always exactly on its drawn path.
package orbit
