// Package geom provides the 2D primitives used on the focal plane: points,
// segments, and closed polygons with a movable pivot. Polygons are the
// collision proxies for positioner arms and fixed structures, so the
// intersection test treats any contact, including an edge touch, as a hit.
package geom

import (
	"fmt"
	"math"
)

// orientEps bounds the cross products treated as collinear, so that a
// vertex lying on (or within rounding of) another edge is decided by the
// collinear contact test rather than by the sign of rounding noise.
const orientEps = 1e-12

// Point represents a 2D point on the focal plane in millimetres.
type Point struct {
	X, Y float64
}

// Add returns the sum of two points
// INFO: Adding the two points component-wise.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points
// INFO: Subtracting other point from this point component-wise.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// SqDist returns the squared Euclidean distance to other
// INFO: Squared form avoids the square root in hot comparisons.
func (p Point) SqDist(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Dist returns the Euclidean distance to other
func (p Point) Dist(other Point) float64 {
	return math.Sqrt(p.SqDist(other))
}

// String returns a string representation of the point
func (p Point) String() string {
	return fmt.Sprintf("Point{X: %.4f, Y: %.4f}", p.X, p.Y)
}

// Segment represents a directed edge between two points.
type Segment struct {
	A, B Point
}

// Shape is a closed polygon with a mutable pivot. The vertex list is
// ordered; consecutive vertices are joined by edges and the last vertex
// closes back to the first. An empty vertex list is a valid shape that
// intersects nothing.
type Shape struct {
	Pivot  Point
	Points []Point
}

// NewShape creates a shape from a pivot and a vertex list. The vertices
// are copied so the caller's slice stays independent.
func NewShape(pivot Point, points []Point) Shape {
	pts := make([]Point, len(points))
	copy(pts, points)
	return Shape{Pivot: pivot, Points: pts}
}

// Clone returns a deep copy of the shape
// INFO: Placements mutate their working copy; the template must stay intact.
func (s *Shape) Clone() Shape {
	return NewShape(s.Pivot, s.Points)
}

// Translate shifts every vertex and the pivot by (dx, dy).
func (s *Shape) Translate(dx, dy float64) {
	s.Pivot.X += dx
	s.Pivot.Y += dy
	for i := range s.Points {
		s.Points[i].X += dx
		s.Points[i].Y += dy
	}
}

// RotateOrigin rotates every vertex and the pivot about (0, 0). The
// rotation is supplied as a precomputed (cos, sin) pair so callers can
// amortise the trig across many shapes sharing one angle.
func (s *Shape) RotateOrigin(cosA, sinA float64) {
	s.Pivot = rotate(s.Pivot, cosA, sinA)
	for i := range s.Points {
		s.Points[i] = rotate(s.Points[i], cosA, sinA)
	}
}

// RotatePivot rotates every vertex about the current pivot. The pivot
// itself is unchanged.
func (s *Shape) RotatePivot(cosA, sinA float64) {
	for i := range s.Points {
		d := s.Points[i].Sub(s.Pivot)
		s.Points[i] = rotate(d, cosA, sinA).Add(s.Pivot)
	}
}

// Segments returns the edge list of the polygon, including the closing
// edge. A shape with fewer than two vertices has no edges.
func (s *Shape) Segments() []Segment {
	n := len(s.Points)
	if n < 2 {
		return nil
	}
	if n == 2 {
		return []Segment{{A: s.Points[0], B: s.Points[1]}}
	}
	segs := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		segs = append(segs, Segment{A: s.Points[i], B: s.Points[(i+1)%n]})
	}
	return segs
}

func rotate(p Point, cosA, sinA float64) Point {
	return Point{
		X: p.X*cosA - p.Y*sinA,
		Y: p.X*sinA + p.Y*cosA,
	}
}

// orient returns the signed area sign of the triangle (a, b, c):
// +1 counter-clockwise, -1 clockwise, 0 collinear within orientEps.
func orient(a, b, c Point) int {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if cross > orientEps {
		return 1
	}
	if cross < -orientEps {
		return -1
	}
	return 0
}

// onSegment reports whether the collinear point p lies within the
// bounding box of segment (a, b).
func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X)-orientEps <= p.X && p.X <= math.Max(a.X, b.X)+orientEps &&
		math.Min(a.Y, b.Y)-orientEps <= p.Y && p.Y <= math.Max(a.Y, b.Y)+orientEps
}

// SegmentsCross reports whether two segments share any point. Touching
// endpoints count as a crossing.
func SegmentsCross(s1, s2 Segment) bool {
	o1 := orient(s1.A, s1.B, s2.A)
	o2 := orient(s1.A, s1.B, s2.B)
	o3 := orient(s2.A, s2.B, s1.A)
	o4 := orient(s2.A, s2.B, s1.B)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear contact cases.
	if o1 == 0 && onSegment(s1.A, s1.B, s2.A) {
		return true
	}
	if o2 == 0 && onSegment(s1.A, s1.B, s2.B) {
		return true
	}
	if o3 == 0 && onSegment(s2.A, s2.B, s1.A) {
		return true
	}
	if o4 == 0 && onSegment(s2.A, s2.B, s1.B) {
		return true
	}
	return false
}

// Contains reports whether point p lies inside the polygon, using an
// even-odd ray cast. A point exactly on an edge may be reported either
// way. Shapes with fewer than three vertices contain nothing.
func (s *Shape) Contains(p Point) bool {
	n := len(s.Points)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		pi := s.Points[i]
		pj := s.Points[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xCross := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Intersects reports whether two polygons overlap: any pair of edges
// crosses, or either polygon contains a vertex of the other. Zero-area
// edge touches count as overlap.
func Intersects(a, b *Shape) bool {
	if len(a.Points) == 0 || len(b.Points) == 0 {
		return false
	}
	segsA := a.Segments()
	segsB := b.Segments()
	for _, sa := range segsA {
		for _, sb := range segsB {
			if SegmentsCross(sa, sb) {
				return true
			}
		}
	}
	for _, p := range b.Points {
		if a.Contains(p) {
			return true
		}
	}
	for _, p := range a.Points {
		if b.Contains(p) {
			return true
		}
	}
	return false
}
