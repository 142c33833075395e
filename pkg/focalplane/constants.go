package focalplane

// Fixed properties of the focal plane, set by the instrument and shared
// by every mechanical snapshot.
const (
	// NFiberPetal is the number of science fibers hosted by one petal.
	NFiberPetal = 500

	// NPetal is the number of 36-degree wedge sectors.
	NPetal = 10

	// RadiusDeg is the angular radius of the plate on the sky.
	RadiusDeg = 1.65

	// NeighborRadiusMM is the centre distance below which two positioners
	// can physically interfere.
	NeighborRadiusMM = 14.05

	// PatrolBufferMM shrinks the patrol annulus when deciding whether a
	// target is safely reachable.
	PatrolBufferMM = 0.2
)

// radialCoeff are the quartic coefficients of the angle-to-distance
// mapping, highest power first; the linear term is zero.
var radialCoeff = [4]float64{8.297e5, -1750.0, 1.394e4, 0.0}
