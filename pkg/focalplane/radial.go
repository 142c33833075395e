package focalplane

import "math"

const (
	// Newton iteration parameters for the radial inverse.
	radialStart   = 0.01 // rad
	radialStep    = 1e-4 // rad, forward difference step
	radialTol     = 1e-7 // mm
	radialMaxIter = 100
)

// AngToDist maps an angle from the optical axis to a radial distance on
// the focal plane, in millimetres. Valid over the plate, roughly
// [0, 0.03] rad, where it is monotonically increasing.
func AngToDist(theta float64) float64 {
	// Horner form of p0·t⁴ + p1·t³ + p2·t² + p3·t.
	return theta * (radialCoeff[3] + theta*(radialCoeff[2]+theta*(radialCoeff[1]+theta*radialCoeff[0])))
}

// DistToAng numerically inverts AngToDist. Radii on the supported plate
// converge well inside the iteration budget; a radius the mapping cannot
// produce exhausts it and returns ErrRadialConverge.
func DistToAng(dist float64) (float64, error) {
	theta := radialStart
	for i := 0; i < radialMaxIter; i++ {
		f := AngToDist(theta) - dist
		if math.Abs(f) < radialTol {
			return theta, nil
		}
		deriv := (AngToDist(theta+radialStep) - AngToDist(theta)) / radialStep
		theta -= f / deriv
	}
	return 0, ErrRadialConverge
}
