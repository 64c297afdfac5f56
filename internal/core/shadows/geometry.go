package shadows

import "math"

// PointInPolygon tests if a point is inside a polygon using ray casting algorithm
func PointInPolygon(point Point, polygon []Point) bool {
	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if ((yi > point.Y) != (yj > point.Y)) &&
			(point.X < (xj-xi)*(point.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return b.Sub(a).Len()
}

// DistanceToSegment returns the shortest distance from p to any point of seg.
func DistanceToSegment(p Point, seg Segment) float64 {
	lenSq := seg.Dir.Dot(seg.Dir)
	if lenSq == 0 {
		return Distance(p, seg.Origin)
	}
	t := p.Sub(seg.Origin).Dot(seg.Dir) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Distance(p, seg.At(t))
}

// NormalizeAngle maps an angle in radians into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// segmentIntersection returns the point where two segments cross.
// Parallel and non-touching segments report false.
func segmentIntersection(a, b Segment) (Point, bool) {
	denom := a.Dir.Cross(b.Dir)
	if math.Abs(denom) < parallelEpsilon*a.Length()*b.Length() {
		return Point{}, false
	}
	diff := b.Origin.Sub(a.Origin)
	t := diff.Cross(b.Dir) / denom
	u := diff.Cross(a.Dir) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return a.At(t), true
}

// circleIntersections appends the points where seg crosses the circle of
// radius r around c.
func circleIntersections(dst []Point, c Point, r float64, seg Segment) []Point {
	// |O + tD - c|² = r²  ->  at² + bt + k = 0
	f := seg.Origin.Sub(c)
	a := seg.Dir.Dot(seg.Dir)
	b := 2 * f.Dot(seg.Dir)
	k := f.Dot(f) - r*r
	disc := b*b - 4*a*k
	if a == 0 || disc < 0 {
		return dst
	}
	sq := math.Sqrt(disc)
	for _, t := range [2]float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
		if t >= 0 && t <= 1 {
			dst = append(dst, seg.At(t))
		}
	}
	return dst
}
