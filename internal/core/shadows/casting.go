package shadows

import (
	"math"
	"slices"
)

const (
	// ArcSteps is the number of uniform samples taken around a full turn so
	// that an unobstructed range boundary approximates a circle.
	ArcSteps = 96

	// AngleEpsilon is the tolerance under which two event angles coincide.
	AngleEpsilon = 1e-9

	// endpointEpsilon is the segment-parameter tolerance for "the ray passes
	// through an endpoint".
	endpointEpsilon = 1e-9

	// parallelEpsilon is the relative cross-product threshold under which a
	// ray and a segment are treated as parallel.
	parallelEpsilon = 1e-12
)

// Arc is the angular domain of a cast, in radians. Width is clamped to a full
// turn; a full turn starts and ends on the same ray.
type Arc struct {
	Start float64
	Width float64
}

// FullCircle returns the full-turn arc beginning at start.
func FullCircle(start float64) Arc {
	return Arc{Start: start, Width: 2 * math.Pi}
}

// Cone returns the arc of the given width centred on facing.
func Cone(facing, width float64) Arc {
	return Arc{Start: facing - width/2, Width: width}
}

// IsFull reports whether the arc covers a full turn.
func (a Arc) IsFull() bool {
	return a.Width >= 2*math.Pi-AngleEpsilon
}

// Contains reports whether angle lies inside the arc (inclusive, with a small
// tolerance).
func (a Arc) Contains(angle float64) bool {
	if a.IsFull() {
		return true
	}
	rel := NormalizeAngle(angle - a.Start)
	return rel <= a.Width+AngleEpsilon || rel >= 2*math.Pi-AngleEpsilon
}

// Hit is one rim point of a visibility polygon.
type Hit struct {
	Point Point
	// Dist is the distance from the cast origin.
	Dist float64
	// Angle is the absolute ray angle in radians.
	Angle float64
}

// Cast computes the visible region around origin out to radius, restricted to
// arc, given the occluders. The result is the rim of a triangle fan rooted at
// origin, in ascending angular order starting at arc.Start. An empty result
// means nothing is lit (radius or width not positive).
//
// Each event angle is probed on both of its infinitesimal sides. When a ray
// grazes a corner the two sides see different distances and both points are
// emitted, which yields the near and far edges of the shadow wedge. A ray
// through a shared endpoint is blocked on both sides, so corners do not leak.
func Cast(origin Point, radius float64, arc Arc, occ Occluders) []Hit {
	if !(radius > 0) || !(arc.Width > 0) {
		return nil
	}
	width := math.Min(arc.Width, 2*math.Pi)

	candidates := gatherCandidates(origin, radius, occ)
	events := collectEvents(origin, radius, arc.Start, width, candidates)

	hits := make([]Hit, 0, len(events)*2+2)

	// The start boundary only contributes its inner (counter-clockwise) side.
	_, ccw := probe(origin, arc.Start, radius, candidates)
	hits = append(hits, ccw)

	for _, rel := range events {
		cw, ccw := probe(origin, arc.Start+rel, radius, candidates)
		hits = append(hits, cw)
		if !sameDistance(cw.Dist, ccw.Dist, radius) {
			hits = append(hits, ccw)
		}
	}

	// The end boundary only contributes its inner (clockwise) side.
	cw, _ := probe(origin, arc.Start+width, radius, candidates)
	hits = append(hits, cw)

	return hits
}

// ComputeVisibilityPolygon calculates what the viewer can see from their position
// Returns a polygon representing the visible area (everything outside is in shadow)
func ComputeVisibilityPolygon(viewerPos Point, segments []Segment, maxDistance float64) []Point {
	hits := Cast(viewerPos, maxDistance, FullCircle(0), Segments(segments))
	points := make([]Point, len(hits))
	for i, h := range hits {
		points[i] = h.Point
	}
	return points
}

// gatherCandidates keeps only the segments that can affect a cast of the
// given radius.
func gatherCandidates(origin Point, radius float64, occ Occluders) []Segment {
	if occ == nil {
		return nil
	}
	candidates := make([]Segment, 0, occ.Len())
	for seg := range occ.All() {
		// Fast path: segments entirely outside the range cannot cast shadows
		if DistanceToSegment(origin, seg) > radius {
			continue
		}
		candidates = append(candidates, seg)
	}
	return candidates
}

// collectEvents returns the sorted, de-duplicated event angles of a cast,
// relative to start and strictly inside (0, width).
func collectEvents(origin Point, radius, start, width float64, candidates []Segment) []float64 {
	events := make([]float64, 0, ArcSteps+len(candidates)*4)

	add := func(p Point) {
		rel := NormalizeAngle(math.Atan2(p.Y-origin.Y, p.X-origin.X) - start)
		if rel > AngleEpsilon && rel < width-AngleEpsilon {
			events = append(events, rel)
		}
	}

	// Uniform samples of the range boundary
	step := 2 * math.Pi / ArcSteps
	for k := 1; float64(k)*step < width-AngleEpsilon; k++ {
		events = append(events, float64(k)*step)
	}

	var crossings []Point
	for i, seg := range candidates {
		// Endpoints within range
		for _, p := range [2]Point{seg.Origin, seg.End()} {
			if Distance(origin, p) <= radius {
				add(p)
			}
		}

		// Where the segment leaves the range circle
		crossings = circleIntersections(crossings[:0], origin, radius, seg)
		for _, p := range crossings {
			add(p)
		}

		// Where the segment crosses another wall
		for _, other := range candidates[i+1:] {
			if p, ok := segmentIntersection(seg, other); ok && Distance(origin, p) <= radius {
				add(p)
			}
		}
	}

	slices.Sort(events)
	return slices.CompactFunc(events, func(a, b float64) bool {
		return math.Abs(a-b) < AngleEpsilon
	})
}

// probe casts a ray at angle and returns the nearest hit on its clockwise
// and counter-clockwise sides, both clamped to radius.
func probe(origin Point, angle, radius float64, candidates []Segment) (cw, ccw Hit) {
	dir := Point{math.Cos(angle), math.Sin(angle)}
	cwDist, ccwDist := radius, radius

	for _, seg := range candidates {
		t, u, ok := raySegmentIntersection(origin, dir, seg)
		if !ok {
			continue
		}

		blocksCW, blocksCCW := true, true
		if u <= endpointEpsilon || u >= 1-endpointEpsilon {
			// The ray passes through an endpoint: the segment only blocks
			// the side it extends to.
			other := seg.End()
			if u >= 1-endpointEpsilon {
				other = seg.Origin
			}
			side := dir.Cross(other.Sub(origin))
			blocksCW = side < 0
			blocksCCW = side > 0
		}

		if blocksCW && t < cwDist {
			cwDist = t
		}
		if blocksCCW && t < ccwDist {
			ccwDist = t
		}
	}

	cw = Hit{Point: origin.Add(dir.Scale(cwDist)), Dist: cwDist, Angle: angle}
	ccw = Hit{Point: origin.Add(dir.Scale(ccwDist)), Dist: ccwDist, Angle: angle}
	return cw, ccw
}

// raySegmentIntersection checks if a ray intersects a line segment
// Returns the ray distance t, the segment parameter u and whether they meet
func raySegmentIntersection(origin, dir Point, seg Segment) (t, u float64, ok bool) {
	// Ray: P = origin + t * dir for t >= 0
	// Segment: Q = seg.Origin + u * seg.Dir for 0 <= u <= 1
	denominator := dir.Cross(seg.Dir)
	if math.Abs(denominator) < parallelEpsilon*seg.Length() {
		// Ray and segment are parallel
		return 0, 0, false
	}

	diff := seg.Origin.Sub(origin)
	u = diff.Cross(dir) / denominator
	t = diff.Cross(seg.Dir) / denominator

	if u < -endpointEpsilon || u > 1+endpointEpsilon || t < 0 {
		return 0, 0, false
	}
	return t, u, true
}

// sameDistance reports whether two probe distances describe the same point.
func sameDistance(a, b, radius float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, radius)
}
