package focalplane_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bxrne/focalplan/pkg/focalplane"
	"github.com/bxrne/focalplan/pkg/geom"
	"github.com/bxrne/focalplan/pkg/positioner"
)

// testRecord builds a record of equal-arm positioners at the given
// centres, one per entry, with simple rectangular exclusions.
func testRecord(centers []geom.Point) focalplane.Record {
	n := len(centers)
	rec := focalplane.Record{
		Timestamp:      "2026-02-11T00:00:00",
		Loc:            make([]int32, n),
		Petal:          make([]int32, n),
		Device:         make([]int32, n),
		DeviceType:     make([]string, n),
		Slitblock:      make([]int32, n),
		Blockfiber:     make([]int32, n),
		Fiber:          make([]int32, n),
		XMM:            make([]float64, n),
		YMM:            make([]float64, n),
		State:          make([]int32, n),
		ThetaOffsetDeg: make([]float64, n),
		ThetaMinDeg:    make([]float64, n),
		ThetaMaxDeg:    make([]float64, n),
		ThetaArmMM:     make([]float64, n),
		PhiOffsetDeg:   make([]float64, n),
		PhiMinDeg:      make([]float64, n),
		PhiMaxDeg:      make([]float64, n),
		PhiArmMM:       make([]float64, n),
		ThetaExcl:      make([]geom.Shape, n),
		PhiExcl:        make([]geom.Shape, n),
		GFAExcl:        make([]geom.Shape, n),
		PetalExcl:      make([]geom.Shape, n),
	}
	for i, c := range centers {
		rec.Loc[i] = int32(i)
		rec.DeviceType[i] = "POS"
		rec.Fiber[i] = int32(i)
		rec.XMM[i] = c.X
		rec.YMM[i] = c.Y
		rec.ThetaMinDeg[i] = -180
		rec.ThetaMaxDeg[i] = 180
		rec.ThetaArmMM[i] = 3.0
		rec.PhiMinDeg[i] = -180
		rec.PhiMaxDeg[i] = 180
		rec.PhiArmMM[i] = 3.0
		rec.ThetaExcl[i] = geom.NewShape(geom.Point{}, []geom.Point{
			{X: -0.4, Y: -0.4}, {X: 0.4, Y: -0.4}, {X: 0.4, Y: 0.4}, {X: -0.4, Y: 0.4},
		})
		rec.PhiExcl[i] = geom.NewShape(geom.Point{}, []geom.Point{
			{X: 0, Y: -1}, {X: 3.3, Y: -1}, {X: 3.3, Y: 1}, {X: 0, Y: 1},
		})
	}
	return rec
}

// TEST: GIVEN a valid record WHEN New is called THEN the model is built with sorted locations
func TestNewFocalPlane(t *testing.T) {
	rec := testRecord([]geom.Point{{X: 0, Y: 0}, {X: 7, Y: 0}, {X: 30, Y: 0}})
	rec.Loc = []int32{5, 2, 9}

	fp, err := focalplane.New(rec)
	require.NoError(t, err)
	require.NotNil(t, fp)

	assert.Equal(t, []int32{2, 5, 9}, fp.Locs())
	assert.Equal(t, "2026-02-11T00:00:00", fp.Timestamp())

	p, ok := fp.Positioner(5)
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 0, Y: 0}, p.Center)
	assert.InDelta(t, math.Pi, p.ThetaMax, 1e-12)
}

// TEST: GIVEN mismatched array lengths WHEN New is called THEN construction aborts
func TestNewLengthMismatch(t *testing.T) {
	rec := testRecord([]geom.Point{{X: 0, Y: 0}, {X: 7, Y: 0}})
	rec.Fiber = rec.Fiber[:1]

	fp, err := focalplane.New(rec)
	assert.ErrorIs(t, err, focalplane.ErrLengthMismatch)
	assert.Nil(t, fp)
}

// TEST: GIVEN a duplicate location id WHEN New is called THEN construction aborts
func TestNewDuplicateLoc(t *testing.T) {
	rec := testRecord([]geom.Point{{X: 0, Y: 0}, {X: 7, Y: 0}})
	rec.Loc[1] = rec.Loc[0]

	fp, err := focalplane.New(rec)
	assert.ErrorIs(t, err, focalplane.ErrDuplicateLoc)
	assert.Nil(t, fp)
}

// TEST: GIVEN unknown state bits WHEN New is called THEN construction aborts
func TestNewUnknownState(t *testing.T) {
	rec := testRecord([]geom.Point{{X: 0, Y: 0}})
	rec.State[0] = 1 << 6

	fp, err := focalplane.New(rec)
	assert.ErrorIs(t, err, focalplane.ErrUnknownState)
	assert.Nil(t, fp)
}

// TEST: GIVEN a known nonzero state WHEN New is called THEN the device is out of service
func TestNewStuckDevice(t *testing.T) {
	rec := testRecord([]geom.Point{{X: 0, Y: 0}})
	rec.State[0] = positioner.StateStuck

	fp, err := focalplane.New(rec)
	require.NoError(t, err)

	p, ok := fp.Positioner(0)
	require.True(t, ok)
	assert.False(t, p.Operational())
}

// TEST: GIVEN centres inside and outside the neighbor radius WHEN New is called THEN the adjacency is symmetric and bounded
func TestNeighborGraph(t *testing.T) {
	fp, err := focalplane.New(testRecord([]geom.Point{
		{X: 0, Y: 0},   // loc 0
		{X: 7, Y: 0},   // loc 1: neighbor of 0 and 2
		{X: 14, Y: 0},  // loc 2: 14.0 from 0, inside 14.05
		{X: 40, Y: 40}, // loc 3: isolated
	}))
	require.NoError(t, err)

	assert.ElementsMatch(t, []int32{1, 2}, fp.Neighbors(0))
	assert.ElementsMatch(t, []int32{0, 2}, fp.Neighbors(1))
	assert.Empty(t, fp.Neighbors(3))

	// Symmetry and the radius bound hold for every listed pair.
	for _, loc := range fp.Locs() {
		p, _ := fp.Positioner(loc)
		for _, nb := range fp.Neighbors(loc) {
			q, ok := fp.Positioner(nb)
			require.True(t, ok)
			assert.LessOrEqual(t, p.Center.Dist(q.Center), focalplane.NeighborRadiusMM)
			assert.Contains(t, fp.Neighbors(nb), loc)
		}
	}
}

// TEST: GIVEN positioners on several petals WHEN New is called THEN PetalLocs partitions the plane
func TestPetalLocs(t *testing.T) {
	rec := testRecord([]geom.Point{{X: 0, Y: 0}, {X: 7, Y: 0}, {X: 30, Y: 0}})
	rec.Petal = []int32{0, 0, 4}

	fp, err := focalplane.New(rec)
	require.NoError(t, err)

	assert.Equal(t, []int32{0, 1}, fp.PetalLocs(0))
	assert.Equal(t, []int32{2}, fp.PetalLocs(4))
	assert.Empty(t, fp.PetalLocs(7))
}

// TEST: GIVEN a petal-zero template WHEN New ingests petal 3 THEN the keep-out rotation is the identity
func TestPetalRotation(t *testing.T) {
	rec := testRecord([]geom.Point{{X: 0, Y: 0}, {X: 7, Y: 0}})
	rec.Petal = []int32{3, 1}
	tmpl := geom.NewShape(geom.Point{}, []geom.Point{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}})
	rec.GFAExcl[0] = tmpl.Clone()
	rec.GFAExcl[1] = tmpl.Clone()
	rec.PetalExcl[0] = tmpl.Clone()
	rec.PetalExcl[1] = tmpl.Clone()

	fp, err := focalplane.New(rec)
	require.NoError(t, err)

	// Petal 3: ((7+3)*36) mod 360 = 0 degrees.
	p3, _ := fp.Positioner(0)
	assert.InDelta(t, 1.0, p3.GFAExcl.Points[0].X, 1e-9)
	assert.InDelta(t, 0.0, p3.GFAExcl.Points[0].Y, 1e-9)

	// Petal 1: ((7+1)*36) mod 360 = 288 degrees.
	rot := 288.0 * math.Pi / 180.0
	p1, _ := fp.Positioner(1)
	assert.InDelta(t, math.Cos(rot), p1.GFAExcl.Points[0].X, 1e-9)
	assert.InDelta(t, math.Sin(rot), p1.GFAExcl.Points[0].Y, 1e-9)
	assert.InDelta(t, math.Cos(rot), p1.PetalExcl.Points[0].X, 1e-9)
	assert.InDelta(t, math.Sin(rot), p1.PetalExcl.Points[0].Y, 1e-9)
}

// TEST: GIVEN the patrol buffer WHEN WithinPatrol is called THEN the annulus is shrunk on the outer edge
func TestWithinPatrol(t *testing.T) {
	fp, err := focalplane.New(testRecord([]geom.Point{{X: 0, Y: 0}}))
	require.NoError(t, err)

	assert.True(t, fp.WithinPatrol(0, geom.Point{X: 0, Y: 0}))
	assert.True(t, fp.WithinPatrol(0, geom.Point{X: 5.7, Y: 0}))
	assert.False(t, fp.WithinPatrol(0, geom.Point{X: 5.9, Y: 0}), "inside the buffer band")
	assert.False(t, fp.WithinPatrol(0, geom.Point{X: 6.5, Y: 0}))
	assert.False(t, fp.WithinPatrol(99, geom.Point{}), "unknown location")
}
