package shadows

import (
	"math"
	"testing"
)

const tolerance = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func nearPoint(a, b Point) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

func containsPoint(hits []Hit, p Point) bool {
	for _, h := range hits {
		if nearPoint(h.Point, p) {
			return true
		}
	}
	return false
}

// rayDistance returns the distance at which the rim crosses the ray at angle,
// found by intersecting the ray with each rim edge.
func rayDistance(t *testing.T, origin Point, hits []Hit, angle float64) float64 {
	t.Helper()
	dir := Point{math.Cos(angle), math.Sin(angle)}
	best := math.Inf(1)
	for i := 0; i+1 < len(hits); i++ {
		seg := NewSegment(hits[i].Point, hits[i+1].Point)
		if seg.IsDegenerate() {
			continue
		}
		if d, _, ok := raySegmentIntersection(origin, dir, seg); ok && d < best {
			best = d
		}
	}
	if math.IsInf(best, 1) {
		t.Fatalf("Ray at angle %v does not cross the rim", angle)
	}
	return best
}

func TestCastEmptyPoolIsRegularPolygon(t *testing.T) {
	origin := Point{40, -20}

	for _, radius := range []float64{1, 50, 333.5} {
		hits := Cast(origin, radius, FullCircle(0), Segments(nil))

		if len(hits) != ArcSteps+1 {
			t.Fatalf("Expected %d rim points for radius %v, got %d", ArcSteps+1, radius, len(hits))
		}

		step := 2 * math.Pi / ArcSteps
		for i, h := range hits {
			if !near(Distance(origin, h.Point), radius) {
				t.Errorf("Expected rim point %d at distance %v, got %v", i, radius, Distance(origin, h.Point))
			}
			if !near(h.Angle, float64(i)*step) {
				t.Errorf("Expected rim point %d at angle %v, got %v", i, float64(i)*step, h.Angle)
			}
		}

		if !nearPoint(hits[0].Point, hits[len(hits)-1].Point) {
			t.Errorf("Expected a full circle to close on its first point, got %v and %v",
				hits[0].Point, hits[len(hits)-1].Point)
		}
	}
}

func TestCastNonPositiveRadiusIsEmpty(t *testing.T) {
	pool := NewEdgePool(NewSegment(Point{10, -10}, Point{10, 10}))

	for _, radius := range []float64{0, -5, math.NaN()} {
		if hits := Cast(Point{}, radius, FullCircle(0), pool); len(hits) != 0 {
			t.Errorf("Expected no rim for radius %v, got %d points", radius, len(hits))
		}
	}

	if hits := Cast(Point{}, 10, Arc{Start: 0, Width: 0}, pool); len(hits) != 0 {
		t.Errorf("Expected no rim for a zero-width arc, got %d points", len(hits))
	}
}

func TestCastSingleSegmentScenario(t *testing.T) {
	// Wall from (100,0) to (100,200), light at (0,100) with range 150
	origin := Point{0, 100}
	pool := NewEdgePool(NewSegment(Point{100, 0}, Point{100, 200}))

	hits := Cast(origin, 150, FullCircle(0), pool)

	if !containsPoint(hits, Point{100, 0}) {
		t.Error("Expected rim to contain the wall endpoint (100,0)")
	}
	if !containsPoint(hits, Point{100, 200}) {
		t.Error("Expected rim to contain the wall endpoint (100,200)")
	}

	// Facing the wall the light stops on it (the wall casts a shadow, see
	// the segment decision in DESIGN.md)
	if d := rayDistance(t, origin, hits, 0); !near(d, 100) {
		t.Errorf("Expected ray toward (150,100) to stop on the wall at 100, got %v", d)
	}

	// Away from the wall it reaches full range
	if d := rayDistance(t, origin, hits, math.Pi); math.Abs(d-150) > 0.5 {
		t.Errorf("Expected ray away from the wall to reach about 150, got %v", d)
	}
}

func TestCastSingleSegmentHasOneShadowWedge(t *testing.T) {
	origin := Point{0, 0}
	// Wall above the light, clear of the start ray
	a, b := Point{30, 50}, Point{-20, 50}
	radius := 120.0
	pool := NewEdgePool(NewSegment(a, b))

	hits := Cast(origin, radius, FullCircle(0), pool)

	// Count transitions between reaching full range and stopping on the wall
	blocked := make([]bool, len(hits))
	for i, h := range hits {
		blocked[i] = h.Dist < radius-tolerance
	}
	transitions := 0
	for i := 0; i+1 < len(hits); i++ {
		if blocked[i] != blocked[i+1] {
			transitions++
		}
	}
	if transitions != 2 {
		t.Fatalf("Expected exactly one shadow wedge (2 transitions), got %d transitions", transitions)
	}

	// The first and last blocked points are the wall endpoints
	first, last := -1, -1
	for i, isBlocked := range blocked {
		if isBlocked {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if !nearPoint(hits[first].Point, a) {
		t.Errorf("Expected shadow to start at %v, got %v", a, hits[first].Point)
	}
	if !nearPoint(hits[last].Point, b) {
		t.Errorf("Expected shadow to end at %v, got %v", b, hits[last].Point)
	}

	// Each boundary ray carries both the near corner and the far range point
	if !nearPoint(hits[first-1].Point, a.Scale(radius/a.Len())) {
		t.Errorf("Expected far point before the shadow at range, got %v", hits[first-1].Point)
	}
	if !nearPoint(hits[last+1].Point, b.Scale(radius/b.Len())) {
		t.Errorf("Expected far point after the shadow at range, got %v", hits[last+1].Point)
	}
}

func TestCastSharedCornerDoesNotLeak(t *testing.T) {
	// Two walls meeting at (50,50), seen head-on from the origin
	origin := Point{0, 0}
	pool := NewEdgePool(
		NewSegment(Point{50, 50}, Point{100, 0}),
		NewSegment(Point{50, 50}, Point{0, 100}),
	)

	hits := Cast(origin, 200, FullCircle(0), pool)

	corner := math.Hypot(50, 50)
	if d := rayDistance(t, origin, hits, math.Pi/4); d > corner+tolerance {
		t.Errorf("Expected the corner ray to stop at %v, got %v (light leak)", corner, d)
	}

	for _, h := range hits {
		if h.Angle > 0.01 && h.Angle < math.Pi/2-0.01 && h.Dist > 100+tolerance {
			t.Errorf("Expected no rim point beyond the walls at angle %v, got distance %v", h.Angle, h.Dist)
		}
	}

	// The corner itself is emitted exactly once
	count := 0
	for _, h := range hits {
		if nearPoint(h.Point, Point{50, 50}) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected the shared corner once on the rim, got %d", count)
	}
}

func TestCastOverlappingWallsShareEndpoint(t *testing.T) {
	// Colinear-ish overlapping walls joined at (50,50)
	origin := Point{0, 100}
	pool := NewEdgePool(
		NewSegment(Point{0, 50}, Point{50, 50}),
		NewSegment(Point{50, 50}, Point{100, 50}),
		NewSegment(Point{30, 50}, Point{50, 50}),
	)

	hits := Cast(origin, 300, FullCircle(0), pool)
	angle := math.Atan2(50-100, 50-0)
	if d := rayDistance(t, origin, hits, NormalizeAngle(angle)); d > Distance(origin, Point{50, 50})+tolerance {
		t.Errorf("Expected no leak through the joint at (50,50), got distance %v", d)
	}
}

func TestCastConeStaysInsideBeam(t *testing.T) {
	origin := Point{10, 10}
	facing := Radians(30)
	width := Radians(70)
	pool := NewEdgePool(
		NewSegment(Point{60, -40}, Point{60, 80}),
		NewSegment(Point{-50, 20}, Point{-20, 60}),
	)

	hits := Cast(origin, 150, Cone(facing, width), pool)
	if len(hits) < 2 {
		t.Fatalf("Expected a non-empty cone, got %d points", len(hits))
	}

	for _, h := range hits {
		rel := math.Remainder(h.Angle-facing, 2*math.Pi)
		if math.Abs(rel) > width/2+1e-9 {
			t.Errorf("Expected every rim point within ±%v of facing, got %v", width/2, rel)
		}
	}

	if !near(hits[0].Angle, facing-width/2) {
		t.Errorf("Expected first rim point on the start boundary, got angle %v", hits[0].Angle)
	}
	if !near(hits[len(hits)-1].Angle, facing+width/2) {
		t.Errorf("Expected last rim point on the end boundary, got angle %v", hits[len(hits)-1].Angle)
	}
}

func TestCastSkipsSegmentsOutOfRange(t *testing.T) {
	origin := Point{0, 0}
	far := NewEdgePool(NewSegment(Point{500, -10}, Point{500, 10}))

	withFar := Cast(origin, 100, FullCircle(0), far)
	empty := Cast(origin, 100, FullCircle(0), Segments(nil))

	if len(withFar) != len(empty) {
		t.Fatalf("Expected an out-of-range wall to leave the rim untouched, got %d vs %d points", len(withFar), len(empty))
	}
	for i := range withFar {
		if !nearPoint(withFar[i].Point, empty[i].Point) {
			t.Errorf("Expected rim point %d unchanged, got %v vs %v", i, withFar[i].Point, empty[i].Point)
		}
	}
}

func TestCastWallCrossingRangeBoundary(t *testing.T) {
	origin := Point{0, 0}
	// Wall starts inside the range and leaves it
	pool := NewEdgePool(NewSegment(Point{50, 0}, Point{50, 200}))

	hits := Cast(origin, 100, FullCircle(0), pool)

	// The wall meets the circle at (50, 86.60...)
	exit := Point{50, math.Sqrt(100*100 - 50*50)}
	if !containsPoint(hits, exit) {
		t.Errorf("Expected rim to contain the range crossing %v", exit)
	}
}

func TestCastCrossingWalls(t *testing.T) {
	origin := Point{0, 0}
	pool := NewEdgePool(
		NewSegment(Point{40, -40}, Point{80, 40}),
		NewSegment(Point{40, 40}, Point{80, -40}),
	)

	hits := Cast(origin, 200, FullCircle(0), pool)
	if !containsPoint(hits, Point{60, 0}) {
		t.Error("Expected rim to contain the crossing point (60,0)")
	}
}

func TestComputeVisibilityPolygon(t *testing.T) {
	viewer := Point{0, 0}
	walls := []Segment{
		NewSegment(Point{-30, 30}, Point{30, 30}),
		NewSegment(Point{5, 5}, Point{5, 5}), // degenerate, ignored
	}

	poly := ComputeVisibilityPolygon(viewer, walls, 100)
	if len(poly) < 3 {
		t.Fatalf("Expected a polygon, got %d points", len(poly))
	}

	if !PointInPolygon(Point{0, 20}, poly) {
		t.Error("Expected point in front of the wall to be visible")
	}
	if PointInPolygon(Point{0, 60}, poly) {
		t.Error("Expected point behind the wall to be hidden")
	}
	if !PointInPolygon(Point{0, -60}, poly) {
		t.Error("Expected point away from the wall to be visible")
	}
}

func TestArcContains(t *testing.T) {
	cone := Cone(0, Radians(90))
	tests := []struct {
		angle float64
		want  bool
	}{
		{0, true},
		{Radians(44), true},
		{Radians(-44), true},
		{Radians(46), false},
		{Radians(180), false},
	}
	for _, tt := range tests {
		if got := cone.Contains(tt.angle); got != tt.want {
			t.Errorf("Contains(%v) = %v, expected %v", tt.angle, got, tt.want)
		}
	}

	if !FullCircle(1).Contains(Radians(200)) {
		t.Error("Expected a full circle to contain every angle")
	}
}

func TestCollectEventsKeepsDistinctAngles(t *testing.T) {
	events := collectEvents(Point{}, 100, 0, 2*math.Pi, nil)
	if len(events) != ArcSteps-1 {
		t.Fatalf("Expected %d arc events, got %d", ArcSteps-1, len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i]-events[i-1] < AngleEpsilon {
			t.Errorf("Expected strictly increasing events, got %v then %v", events[i-1], events[i])
		}
	}

	// Both wall endpoints and the range crossings survive deduplication
	wall := NewSegment(Point{100, 0}, Point{100, 200})
	events = collectEvents(Point{0, 100}, 150, 0, 2*math.Pi, []Segment{wall})
	for _, p := range []Point{{100, 0}, {100, 200}} {
		want := NormalizeAngle(math.Atan2(p.Y-100, p.X))
		found := false
		for _, e := range events {
			if near(e, want) {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected an event at angle %v for %v", want, p)
		}
	}

	// Coincident angles collapse to one
	twin := NewSegment(Point{100, 0}, Point{50, 50})
	events = collectEvents(Point{0, 100}, 150, 0, 2*math.Pi, []Segment{wall, twin})
	for i := 1; i < len(events); i++ {
		if math.Abs(events[i]-events[i-1]) < AngleEpsilon {
			t.Errorf("Expected duplicate angle %v to be merged", events[i])
		}
	}
}
