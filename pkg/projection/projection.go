// Package projection maps celestial coordinates onto focal-plane
// millimetres for a given tile and back. It is the only surface of the
// engine that knows about the sky; everything downstream works in the
// plane.
//
// The forward transform rotates the target's unit vector into a
// tile-centred frame, converts the angular separation from the field
// centre to a plate radius through the optics' radial polynomial, and
// applies the tile's field rotation in the plane.
package projection

import (
	"math"
	"sync"

	"github.com/bxrne/focalplan/pkg/focalplane"
	"github.com/bxrne/focalplan/pkg/geom"
)

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Tile is one telescope pointing: field centre, plus the in-plane field
// rotation with the hour-angle correction baked in. All angles in
// degrees.
type Tile struct {
	RA    float64
	Dec   float64
	Theta float64
}

// RadecToXY projects a sky position onto the focal plane of a tile.
func RadecToXY(tile Tile, ra, dec float64) geom.Point {
	raRad := ra * degToRad
	decRad := dec * degToRad
	tileRA := tile.RA * degToRad
	tileDec := tile.Dec * degToRad

	// Unit vector of the target.
	cosDec := math.Cos(decRad)
	x := cosDec * math.Cos(raRad)
	y := cosDec * math.Sin(raRad)
	z := math.Sin(decRad)

	// Rotate about Z by -RA_t, then about Y by -Dec_t; the field centre
	// lands on the +X axis.
	cosRA := math.Cos(tileRA)
	sinRA := math.Sin(tileRA)
	x1 := x*cosRA + y*sinRA
	y1 := -x*sinRA + y*cosRA

	cosD := math.Cos(tileDec)
	sinD := math.Sin(tileDec)
	x2 := x1*cosD + z*sinD
	z2 := -x1*sinD + z*cosD

	// Separation from field centre and position angle.
	rho := math.Acos(math.Max(-1.0, math.Min(1.0, x2)))
	q := math.Atan2(z2, -y1)

	r := focalplane.AngToDist(rho)
	ang := q + tile.Theta*degToRad
	return geom.Point{X: r * math.Cos(ang), Y: r * math.Sin(ang)}
}

// XYToRadec inverts RadecToXY. The radial polynomial is calibrated over
// the supported plate only; points beyond it are not rejected. An error
// (ErrRadialConverge) is returned only when the radial inverse exhausts
// its iteration budget.
func XYToRadec(tile Tile, xy geom.Point) (ra, dec float64, err error) {
	r := math.Sqrt(xy.X*xy.X + xy.Y*xy.Y)
	rho, err := focalplane.DistToAng(r)
	if err != nil {
		return 0, 0, err
	}
	q := math.Atan2(xy.Y, xy.X) - tile.Theta*degToRad

	// Rebuild the tile-frame unit vector from (rho, q).
	sinRho := math.Sin(rho)
	x2 := math.Cos(rho)
	z2 := sinRho * math.Sin(q)
	y1 := -sinRho * math.Cos(q)

	// Undo the Y then Z rotations.
	tileDec := tile.Dec * degToRad
	cosD := math.Cos(tileDec)
	sinD := math.Sin(tileDec)
	x1 := x2*cosD - z2*sinD
	z := x2*sinD + z2*cosD

	tileRA := tile.RA * degToRad
	cosRA := math.Cos(tileRA)
	sinRA := math.Sin(tileRA)
	x := x1*cosRA - y1*sinRA
	y := x1*sinRA + y1*cosRA

	dec = math.Asin(math.Max(-1.0, math.Min(1.0, z))) * radToDeg
	ra = math.Atan2(y, x) * radToDeg
	ra = math.Mod(ra+360.0, 360.0)
	return ra, dec, nil
}

// RadecToXYBatch projects parallel RA/Dec arrays concurrently. Output
// index matches input index; workers <= 0 uses one worker per CPU.
func RadecToXYBatch(tile Tile, ra, dec []float64, workers int) ([]geom.Point, error) {
	if len(ra) != len(dec) {
		return nil, ErrLengthMismatch
	}
	out := make([]geom.Point, len(ra))
	runChunks(len(ra), workers, func(i int) {
		out[i] = RadecToXY(tile, ra[i], dec[i])
	})
	return out, nil
}

// XYToRadecBatch deprojects focal-plane points concurrently. A point
// whose radial inverse fails fails the whole batch with that error.
func XYToRadecBatch(tile Tile, xys []geom.Point, workers int) (ra, dec []float64, err error) {
	ra = make([]float64, len(xys))
	dec = make([]float64, len(xys))
	var mu sync.Mutex
	var firstErr error
	runChunks(len(xys), workers, func(i int) {
		r, d, e := XYToRadec(tile, xys[i])
		if e != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = e
			}
			mu.Unlock()
			return
		}
		ra[i] = r
		dec[i] = d
	})
	if firstErr != nil {
		return nil, nil, firstErr
	}
	return ra, dec, nil
}
