// Package collision decides which positioner placements are infeasible:
// kinematically unreachable targets, positioner pairs whose exclusion
// polygons touch, and placements that cross the fixed GFA or petal
// boundaries.
//
// The pairwise tests are restricted by the focal plane's neighbor graph,
// so a batch over N positioners costs O(N·k) polygon tests instead of
// O(N²).
package collision

import (
	"github.com/bxrne/focalplan/pkg/focalplane"
	"github.com/bxrne/focalplan/pkg/geom"
	"github.com/bxrne/focalplan/pkg/states"
)

// PositionXYBad reports whether kinematics alone make a target
// infeasible for a location, without any collision test. Unknown
// locations and out-of-service devices are infeasible.
func PositionXYBad(fp *focalplane.FocalPlane, loc int32, xy geom.Point) bool {
	p, ok := fp.Positioner(loc)
	if !ok {
		return true
	}
	return p.XYBad(xy)
}

// PlaceXY solves a target and places both exclusion polygons for one
// location. The returned state carries the Fail flag and, on success,
// the placed shapes.
func PlaceXY(fp *focalplane.FocalPlane, loc int32, xy geom.Point) *states.PositionerState {
	st := states.NewPositionerState(loc)
	st.Target = xy
	p, ok := fp.Positioner(loc)
	if !ok {
		st.Fail = true
		return st
	}
	theta, phi, reach := p.XYToThetaPhi(xy)
	if !reach {
		st.Fail = true
		return st
	}
	st.Theta = theta
	st.Phi = phi
	st.ThetaShape, st.PhiShape, st.Fail = p.PositionThetaPhi(theta, phi)
	return st
}

// PlaceThetaPhi places both exclusion polygons for explicit joint
// angles.
func PlaceThetaPhi(fp *focalplane.FocalPlane, loc int32, theta, phi float64) *states.PositionerState {
	st := states.NewPositionerState(loc)
	st.Theta = theta
	st.Phi = phi
	p, ok := fp.Positioner(loc)
	if !ok {
		st.Fail = true
		return st
	}
	st.ThetaShape, st.PhiShape, st.Fail = p.PositionThetaPhi(theta, phi)
	return st
}

// statesCollide applies the pairwise polygon tests between two placed
// positioners. The theta-body vs theta-body case is never tested: the
// central columns cannot touch by construction.
func statesCollide(a, b *states.PositionerState) bool {
	if a.Fail || b.Fail {
		return true
	}
	if geom.Intersects(&a.PhiShape, &b.PhiShape) {
		return true
	}
	if geom.Intersects(&a.ThetaShape, &b.PhiShape) {
		return true
	}
	return geom.Intersects(&b.ThetaShape, &a.PhiShape)
}

// CollideXY reports whether two positioners driven to focal-plane
// targets conflict: either placement fails, or the placed polygons
// touch.
func CollideXY(fp *focalplane.FocalPlane, loc1 int32, xy1 geom.Point, loc2 int32, xy2 geom.Point) bool {
	return statesCollide(PlaceXY(fp, loc1, xy1), PlaceXY(fp, loc2, xy2))
}

// CollideThetaPhi is CollideXY for explicit joint angles.
func CollideThetaPhi(fp *focalplane.FocalPlane, loc1 int32, theta1, phi1 float64, loc2 int32, theta2, phi2 float64) bool {
	return statesCollide(PlaceThetaPhi(fp, loc1, theta1, phi1), PlaceThetaPhi(fp, loc2, theta2, phi2))
}

// stateCollidesEdges tests a placed phi polygon against the location's
// fixed GFA and petal boundaries. The theta body is not tested: it never
// leaves the patrol area.
func stateCollidesEdges(fp *focalplane.FocalPlane, st *states.PositionerState) bool {
	if st.Fail {
		return true
	}
	p, ok := fp.Positioner(st.Loc)
	if !ok {
		return true
	}
	if geom.Intersects(&st.PhiShape, &p.GFAExcl) {
		return true
	}
	return geom.Intersects(&st.PhiShape, &p.PetalExcl)
}

// CollideXYEdges reports whether a placement crosses the fixed GFA or
// petal boundary of its location, or fails kinematically.
func CollideXYEdges(fp *focalplane.FocalPlane, loc int32, xy geom.Point) bool {
	return stateCollidesEdges(fp, PlaceXY(fp, loc, xy))
}

// CollideThetaPhiEdges is CollideXYEdges for explicit joint angles.
func CollideThetaPhiEdges(fp *focalplane.FocalPlane, loc int32, theta, phi float64) bool {
	return stateCollidesEdges(fp, PlaceThetaPhi(fp, loc, theta, phi))
}
