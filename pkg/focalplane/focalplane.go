// Package focalplane holds the static model of the instrument focal
// plane: every positioner's mechanical description, the per-petal
// layout, the neighbor adjacency used to restrict pairwise collision
// tests, and the radial angle-to-distance mapping of the optics.
//
// The model is built once from a mechanical snapshot record and is
// read-only afterwards, so it is freely shareable across workers.
package focalplane

import (
	"fmt"
	"math"
	"sort"

	"github.com/bxrne/focalplan/pkg/geom"
	"github.com/bxrne/focalplan/pkg/positioner"
)

// Record is the ingest format of one mechanical snapshot. All slices are
// per-location and index-aligned. Angles arrive in degrees and are
// converted to radians on ingest; arm lengths are millimetres.
type Record struct {
	Timestamp string

	Loc        []int32
	Petal      []int32
	Device     []int32
	DeviceType []string
	Slitblock  []int32
	Blockfiber []int32
	Fiber      []int32

	XMM   []float64
	YMM   []float64
	State []int32

	ThetaOffsetDeg []float64
	ThetaMinDeg    []float64
	ThetaMaxDeg    []float64
	ThetaArmMM     []float64

	PhiOffsetDeg []float64
	PhiMinDeg    []float64
	PhiMaxDeg    []float64
	PhiArmMM     []float64

	// Polygon scan data kept for downstream diagnostics; not used by the
	// collision engine.
	ScanRadius [][]float64
	ScanAngle  [][]float64

	// Exclusion templates per location. ThetaExcl and PhiExcl are in the
	// arm frame; GFAExcl and PetalExcl are canonical petal-zero templates
	// rotated into place at ingest.
	ThetaExcl []geom.Shape
	PhiExcl   []geom.Shape
	GFAExcl   []geom.Shape
	PetalExcl []geom.Shape
}

// FocalPlane is the immutable focal-plane model.
type FocalPlane struct {
	timestamp   string
	locs        []int32
	petalLocs   map[int32][]int32
	positioners map[int32]*positioner.Positioner
	neighbors   map[int32][]int32
}

// New validates the record and builds the model. The model is never
// partially initialised: any validation failure returns a nil plane.
func New(rec Record) (*FocalPlane, error) {
	n := len(rec.Loc)
	if err := rec.checkLengths(n); err != nil {
		return nil, err
	}

	fp := &FocalPlane{
		timestamp:   rec.Timestamp,
		locs:        make([]int32, 0, n),
		petalLocs:   make(map[int32][]int32),
		positioners: make(map[int32]*positioner.Positioner, n),
		neighbors:   make(map[int32][]int32),
	}

	degToRad := math.Pi / 180.0
	for i := 0; i < n; i++ {
		loc := rec.Loc[i]
		if _, dup := fp.positioners[loc]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateLoc, loc)
		}
		if rec.State[i]&^positioner.ValidStateMask != 0 {
			return nil, fmt.Errorf("%w: loc %d state %#x", ErrUnknownState, loc, rec.State[i])
		}

		p := &positioner.Positioner{
			Loc:        loc,
			Petal:      rec.Petal[i],
			Device:     rec.Device[i],
			DeviceType: rec.DeviceType[i],
			Slitblock:  rec.Slitblock[i],
			Blockfiber: rec.Blockfiber[i],
			Fiber:      rec.Fiber[i],
			Center:     geom.Point{X: rec.XMM[i], Y: rec.YMM[i]},
			State:      rec.State[i],

			ThetaArm:    rec.ThetaArmMM[i],
			ThetaOffset: rec.ThetaOffsetDeg[i] * degToRad,
			ThetaMin:    rec.ThetaMinDeg[i] * degToRad,
			ThetaMax:    rec.ThetaMaxDeg[i] * degToRad,

			PhiArm:    rec.PhiArmMM[i],
			PhiOffset: rec.PhiOffsetDeg[i] * degToRad,
			PhiMin:    rec.PhiMinDeg[i] * degToRad,
			PhiMax:    rec.PhiMaxDeg[i] * degToRad,

			ThetaExcl: rec.ThetaExcl[i].Clone(),
			PhiExcl:   rec.PhiExcl[i].Clone(),
			GFAExcl:   petalRotated(rec.GFAExcl[i], rec.Petal[i]),
			PetalExcl: petalRotated(rec.PetalExcl[i], rec.Petal[i]),
		}
		p.InitState()

		fp.positioners[loc] = p
		fp.locs = append(fp.locs, loc)
		fp.petalLocs[p.Petal] = append(fp.petalLocs[p.Petal], loc)
	}

	sort.Slice(fp.locs, func(i, j int) bool { return fp.locs[i] < fp.locs[j] })
	for petal := range fp.petalLocs {
		pl := fp.petalLocs[petal]
		sort.Slice(pl, func(i, j int) bool { return pl[i] < pl[j] })
	}

	fp.buildNeighbors()
	return fp, nil
}

func (rec *Record) checkLengths(n int) error {
	lens := []int{
		len(rec.Petal), len(rec.Device), len(rec.DeviceType),
		len(rec.Slitblock), len(rec.Blockfiber), len(rec.Fiber),
		len(rec.XMM), len(rec.YMM), len(rec.State),
		len(rec.ThetaOffsetDeg), len(rec.ThetaMinDeg), len(rec.ThetaMaxDeg), len(rec.ThetaArmMM),
		len(rec.PhiOffsetDeg), len(rec.PhiMinDeg), len(rec.PhiMaxDeg), len(rec.PhiArmMM),
		len(rec.ThetaExcl), len(rec.PhiExcl), len(rec.GFAExcl), len(rec.PetalExcl),
	}
	for _, l := range lens {
		if l != n {
			return fmt.Errorf("%w: expected %d", ErrLengthMismatch, n)
		}
	}
	return nil
}

// petalRotated clones a canonical petal-zero template and rotates it
// about the focal-plane origin into its petal sector.
func petalRotated(tmpl geom.Shape, petal int32) geom.Shape {
	s := tmpl.Clone()
	rotDeg := float64(((7 + petal) * 36) % 360)
	rot := rotDeg * math.Pi / 180.0
	s.RotateOrigin(math.Cos(rot), math.Sin(rot))
	return s
}

// buildNeighbors scans all pairs once and keeps those whose centres lie
// within NeighborRadiusMM. The adjacency is symmetric. O(N²), run once
// per snapshot; trivial next to the collision checks it restricts.
func (fp *FocalPlane) buildNeighbors() {
	limit := NeighborRadiusMM * NeighborRadiusMM
	for i, li := range fp.locs {
		pi := fp.positioners[li]
		for _, lj := range fp.locs[i+1:] {
			pj := fp.positioners[lj]
			if pi.Center.SqDist(pj.Center) <= limit {
				fp.neighbors[li] = append(fp.neighbors[li], lj)
				fp.neighbors[lj] = append(fp.neighbors[lj], li)
			}
		}
	}
}

// Timestamp identifies the mechanical snapshot the model was built from.
func (fp *FocalPlane) Timestamp() string {
	return fp.timestamp
}

// Locs returns all location ids in ascending order. The slice is owned
// by the model and must not be modified.
func (fp *FocalPlane) Locs() []int32 {
	return fp.locs
}

// PetalLocs returns the sorted location ids hosted by one petal.
func (fp *FocalPlane) PetalLocs(petal int32) []int32 {
	return fp.petalLocs[petal]
}

// Positioner returns the record for a location id.
func (fp *FocalPlane) Positioner(loc int32) (*positioner.Positioner, bool) {
	p, ok := fp.positioners[loc]
	return p, ok
}

// Neighbors returns the location ids whose positioners can physically
// interfere with loc.
func (fp *FocalPlane) Neighbors(loc int32) []int32 {
	return fp.neighbors[loc]
}

// WithinPatrol reports whether a target lies inside the patrol annulus
// of a location, shrunk by PatrolBufferMM on the outer edge and, for
// unequal arms, on the inner edge.
func (fp *FocalPlane) WithinPatrol(loc int32, xy geom.Point) bool {
	p, ok := fp.positioners[loc]
	if !ok {
		return false
	}
	d := p.Center.Dist(xy)
	outer := p.ThetaArm + p.PhiArm - PatrolBufferMM
	inner := math.Abs(p.ThetaArm - p.PhiArm)
	if inner > 0 {
		// The retracted hole only exists for unequal arms.
		inner += PatrolBufferMM
	}
	return d >= inner && d <= outer
}
