// Package positioner models a single two-arm fiber positioner: its static
// description on the focal plane, the theta/phi joint kinematics, and the
// placement of its exclusion polygons.
package positioner

import (
	"math"

	"github.com/bxrne/focalplan/pkg/geom"
)

// floatEps is the single-precision machine epsilon used to classify a
// target as exactly on the patrol annulus boundary.
const floatEps = 1.19209290e-07

// Positioner describes one robotic positioner. All fields are fixed at
// construction; angles are stored in radians, lengths in millimetres.
type Positioner struct {
	Loc        int32
	Petal      int32
	Device     int32
	DeviceType string
	Slitblock  int32
	Blockfiber int32
	Fiber      int32

	Center geom.Point
	State  int32

	ThetaArm    float64
	ThetaOffset float64
	ThetaMin    float64
	ThetaMax    float64

	PhiArm    float64
	PhiOffset float64
	PhiMin    float64
	PhiMax    float64

	// Exclusion templates. ThetaExcl and PhiExcl are in the arm frame at
	// the origin; GFAExcl and PetalExcl are already rotated into the petal
	// frame in absolute focal-plane coordinates.
	ThetaExcl geom.Shape
	PhiExcl   geom.Shape
	GFAExcl   geom.Shape
	PetalExcl geom.Shape

	fsm *DeviceFSM
}

// Operational reports whether the device is in service. A positioner
// whose state machine has left the ok state never accepts a target.
func (p *Positioner) Operational() bool {
	if p.fsm == nil {
		return true
	}
	return p.fsm.Operational()
}

// StateMachine returns the device lifecycle state machine.
func (p *Positioner) StateMachine() *DeviceFSM {
	return p.fsm
}

// InitState attaches the lifecycle state machine derived from the raw
// state bitmask. Called once during focal-plane construction.
func (p *Positioner) InitState() {
	p.fsm = NewDeviceFSM(p.State)
}

// XYToThetaPhi solves the inverse kinematics for a focal-plane target.
// It returns the elbow-up joint angles; ok is false when the target lies
// outside the patrol annulus. Range limits are checked separately by
// ThetaPhiRange.
func (p *Positioner) XYToThetaPhi(xy geom.Point) (theta, phi float64, ok bool) {
	dx := xy.X - p.Center.X
	dy := xy.Y - p.Center.Y
	sqDist := dx*dx + dy*dy

	sum := p.ThetaArm + p.PhiArm
	diff := p.ThetaArm - p.PhiArm
	sqSum := sum * sum
	sqDiff := diff * diff

	switch {
	case math.Abs(sqDist-sqSum) <= floatEps:
		// Fully extended.
		return math.Atan2(dy, dx), 0.0, true
	case math.Abs(sqDist-sqDiff) <= floatEps:
		// Fully retracted.
		return math.Atan2(dy, dx), math.Pi, true
	case sqDist > sqSum || sqDist < sqDiff:
		return 0, 0, false
	}

	// Law of cosines for the elbow-up branch.
	opening := math.Acos((p.ThetaArm*p.ThetaArm + p.PhiArm*p.PhiArm - sqDist) /
		(2.0 * p.ThetaArm * p.PhiArm))
	phi = math.Pi - opening

	txy := math.Acos((p.ThetaArm*p.ThetaArm + sqDist - p.PhiArm*p.PhiArm) /
		(2.0 * p.ThetaArm * math.Sqrt(sqDist)))
	theta = math.Atan2(dy, dx) - txy
	return theta, phi, true
}

// ThetaPhiRange reports whether both joint angles fall inside the
// mechanical limits. Each angle is normalised into
// [offset+min, offset+max] by adding or subtracting one full turn at
// most once.
func (p *Positioner) ThetaPhiRange(theta, phi float64) bool {
	if _, ok := normalize(theta, p.ThetaOffset+p.ThetaMin, p.ThetaOffset+p.ThetaMax); !ok {
		return false
	}
	_, ok := normalize(phi, p.PhiOffset+p.PhiMin, p.PhiOffset+p.PhiMax)
	return ok
}

// normalize folds ang into [lo, hi] with a single ±2π correction.
func normalize(ang, lo, hi float64) (float64, bool) {
	if ang < lo {
		ang += 2.0 * math.Pi
	} else if ang > hi {
		ang -= 2.0 * math.Pi
	}
	if ang < lo || ang > hi {
		return ang, false
	}
	return ang, true
}

// ThetaPhiToXY returns the fiber tip position for the given joint
// angles: the forward kinematics of the two-arm chain.
func (p *Positioner) ThetaPhiToXY(theta, phi float64) geom.Point {
	return geom.Point{
		X: p.Center.X + p.ThetaArm*math.Cos(theta) + p.PhiArm*math.Cos(theta+phi),
		Y: p.Center.Y + p.ThetaArm*math.Sin(theta) + p.PhiArm*math.Sin(theta+phi),
	}
}

// PlaceThetaPhi places working copies of the theta and phi exclusion
// polygons for the given joint angles. The templates are never mutated.
// The angles are assumed to be within range.
func (p *Positioner) PlaceThetaPhi(theta, phi float64) (thetaShape, phiShape geom.Shape) {
	thetaShape = p.ThetaExcl.Clone()
	phiShape = p.PhiExcl.Clone()

	// Extend the phi assembly to the fully open configuration.
	phiShape.Translate(p.ThetaArm, 0.0)

	cosT := math.Cos(theta)
	sinT := math.Sin(theta)
	thetaShape.RotateOrigin(cosT, sinT)
	phiShape.RotateOrigin(cosT, sinT)

	cosP := math.Cos(phi)
	sinP := math.Sin(phi)
	phiShape.RotatePivot(cosP, sinP)

	thetaShape.Translate(p.Center.X, p.Center.Y)
	phiShape.Translate(p.Center.X, p.Center.Y)
	return thetaShape, phiShape
}

// PositionThetaPhi validates the joint angles and, when valid, places
// both exclusion polygons. fail is true when the device is out of
// service or an angle violates its range.
func (p *Positioner) PositionThetaPhi(theta, phi float64) (thetaShape, phiShape geom.Shape, fail bool) {
	if !p.Operational() || !p.ThetaPhiRange(theta, phi) {
		return geom.Shape{}, geom.Shape{}, true
	}
	thetaShape, phiShape = p.PlaceThetaPhi(theta, phi)
	return thetaShape, phiShape, false
}

// PositionXY solves the target and, when reachable, places both
// exclusion polygons.
func (p *Positioner) PositionXY(xy geom.Point) (thetaShape, phiShape geom.Shape, fail bool) {
	theta, phi, ok := p.XYToThetaPhi(xy)
	if !ok {
		return geom.Shape{}, geom.Shape{}, true
	}
	return p.PositionThetaPhi(theta, phi)
}

// XYBad reports whether the target is kinematically infeasible: out of
// the patrol annulus, outside the joint limits, or the device is out of
// service.
func (p *Positioner) XYBad(xy geom.Point) bool {
	theta, phi, ok := p.XYToThetaPhi(xy)
	if !ok {
		return true
	}
	return !p.Operational() || !p.ThetaPhiRange(theta, phi)
}
