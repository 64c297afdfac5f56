package shadows

import "math"

// Point represents a 2D point in space
type Point struct {
	X, Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of p x q. It is positive when q lies
// counter-clockwise (towards larger angles) from p.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Len returns the length of p as a vector.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Coord represents a tile coordinate
type Coord struct {
	X, Y int
}

// degenerateLength is the length below which a segment is treated as a point.
const degenerateLength = 1e-9

// Segment represents an opaque wall segment that can cast shadows.
// It is stored as an origin plus a direction vector; the far endpoint is
// Origin + Dir. Segments are values and never change once built.
type Segment struct {
	Origin Point
	Dir    Point
}

// NewSegment creates a segment running from a to b.
func NewSegment(a, b Point) Segment {
	return Segment{Origin: a, Dir: b.Sub(a)}
}

// SegmentFrom creates a segment from an origin and a direction vector.
func SegmentFrom(origin Point, dx, dy float64) Segment {
	return Segment{Origin: origin, Dir: Point{dx, dy}}
}

// End returns the far endpoint of the segment.
func (s Segment) End() Point { return s.Origin.Add(s.Dir) }

// At returns the point at parameter t along the segment (0 = origin, 1 = end).
func (s Segment) At(t float64) Point { return s.Origin.Add(s.Dir.Scale(t)) }

// Length returns the segment length.
func (s Segment) Length() float64 { return s.Dir.Len() }

// IsDegenerate reports whether the segment has (numerically) zero length.
func (s Segment) IsDegenerate() bool {
	return !(s.Length() >= degenerateLength)
}
