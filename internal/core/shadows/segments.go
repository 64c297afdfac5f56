package shadows

import "math"

// TileGrid is a grid of cells, some of which block sight.
type TileGrid interface {
	// Size returns the grid dimensions in cells.
	Size() (width, height int)
	// BlocksSight reports whether the cell at (x, y) is opaque.
	BlocksSight(x, y int) bool
}

// edgeSide identifies which side of a cell an edge belongs to
type edgeSide int

const (
	sideTop edgeSide = iota
	sideRight
	sideBottom
	sideLeft
)

// cellEdge is an exposed cell edge before merging
type cellEdge struct {
	a, b Point
	side edgeSide
}

// BlockEdges returns the four edges of an axis-aligned square of the given
// size centred on center. A non-positive size yields no edges.
func BlockEdges(center Point, size float64) []Segment {
	if !(size > 0) {
		return nil
	}
	h := size / 2
	return PolygonEdges([]Point{
		{center.X - h, center.Y - h},
		{center.X + h, center.Y - h},
		{center.X + h, center.Y + h},
		{center.X - h, center.Y + h},
	})
}

// PolygonEdges returns the closed outline of a polygon. Repeated consecutive
// points produce no edge.
func PolygonEdges(points []Point) []Segment {
	if len(points) < 2 {
		return nil
	}
	edges := make([]Segment, 0, len(points))
	for i, p := range points {
		next := points[(i+1)%len(points)]
		if len(points) == 2 && i == 1 {
			break
		}
		seg := NewSegment(p, next)
		if seg.IsDegenerate() {
			continue
		}
		edges = append(edges, seg)
	}
	return edges
}

// GridEdges generates wall segments from a tile grid using a contour-based approach
// Instead of creating per-tile segments, this extracts the perimeter of contiguous sight-blocking regions
// and merges colinear segments for cleaner, more efficient shadows
func GridEdges(grid TileGrid, tileSize float64) []Segment {
	if grid == nil || !(tileSize > 0) {
		return nil
	}
	width, height := grid.Size()

	// Step 1: Find all contiguous regions of sight-blocking tiles
	regions := findContiguousRegions(grid, width, height)

	// Step 2: Extract perimeter edges for each region
	var all []cellEdge
	for _, region := range regions {
		all = append(all, extractPerimeterEdges(region, tileSize)...)
	}

	// Step 3: Merge colinear edges to create longer wall segments
	merged := mergeColinearEdges(all)

	segments := make([]Segment, 0, len(merged))
	for _, e := range merged {
		segments = append(segments, NewSegment(e.a, e.b))
	}
	return segments
}

// findContiguousRegions identifies all connected regions of sight-blocking tiles
func findContiguousRegions(grid TileGrid, width, height int) [][]Coord {
	visited := make(map[Coord]bool)
	var regions [][]Coord

	// Scan the entire grid for unvisited sight-blocking tiles
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			coord := Coord{X: x, Y: y}
			if visited[coord] || !grid.BlocksSight(x, y) {
				continue
			}

			// Found an unvisited sight-blocking tile - flood fill to find the entire region
			region := floodFill(grid, coord, width, height, visited)
			if len(region) > 0 {
				regions = append(regions, region)
			}
		}
	}

	return regions
}

// floodFill performs BFS to find all connected sight-blocking tiles
func floodFill(grid TileGrid, start Coord, width, height int, visited map[Coord]bool) []Coord {
	var region []Coord
	queue := []Coord{start}
	visited[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		region = append(region, current)

		// Check all 4-connected neighbors (no diagonals)
		neighbors := [4]Coord{
			{X: current.X, Y: current.Y - 1}, // North
			{X: current.X + 1, Y: current.Y}, // East
			{X: current.X, Y: current.Y + 1}, // South
			{X: current.X - 1, Y: current.Y}, // West
		}

		for _, neighbor := range neighbors {
			if neighbor.X < 0 || neighbor.X >= width || neighbor.Y < 0 || neighbor.Y >= height {
				continue
			}
			if visited[neighbor] || !grid.BlocksSight(neighbor.X, neighbor.Y) {
				continue
			}

			visited[neighbor] = true
			queue = append(queue, neighbor)
		}
	}

	return region
}

// extractPerimeterEdges finds all exposed edges of a region
func extractPerimeterEdges(region []Coord, tileSize float64) []cellEdge {
	var edges []cellEdge

	// Convert region to a set for fast lookup
	regionSet := make(map[Coord]bool, len(region))
	for _, coord := range region {
		regionSet[coord] = true
	}

	for _, coord := range region {
		left := float64(coord.X) * tileSize
		top := float64(coord.Y) * tileSize
		right := left + tileSize
		bottom := top + tileSize

		if !regionSet[Coord{X: coord.X, Y: coord.Y - 1}] {
			edges = append(edges, cellEdge{Point{left, top}, Point{right, top}, sideTop})
		}
		if !regionSet[Coord{X: coord.X + 1, Y: coord.Y}] {
			edges = append(edges, cellEdge{Point{right, top}, Point{right, bottom}, sideRight})
		}
		if !regionSet[Coord{X: coord.X, Y: coord.Y + 1}] {
			edges = append(edges, cellEdge{Point{right, bottom}, Point{left, bottom}, sideBottom})
		}
		if !regionSet[Coord{X: coord.X - 1, Y: coord.Y}] {
			edges = append(edges, cellEdge{Point{left, bottom}, Point{left, top}, sideLeft})
		}
	}

	return edges
}

// mergeColinearEdges combines adjacent parallel edges into longer edges
func mergeColinearEdges(edges []cellEdge) []cellEdge {
	if len(edges) == 0 {
		return edges
	}

	merged := make([]bool, len(edges))
	var result []cellEdge

	for i := 0; i < len(edges); i++ {
		if merged[i] {
			continue
		}

		current := edges[i]
		merged[i] = true

		// Keep extending until nothing else joins
		extended := true
		for extended {
			extended = false

			for j := 0; j < len(edges); j++ {
				if merged[j] {
					continue
				}
				if canMergeEdges(current, edges[j]) {
					current = mergeEdges(current, edges[j])
					merged[j] = true
					extended = true
					break
				}
			}
		}

		result = append(result, current)
	}

	return result
}

// canMergeEdges checks if two edges are adjacent and colinear
func canMergeEdges(e1, e2 cellEdge) bool {
	// Must face the same way
	if e1.side != e2.side {
		return false
	}

	const epsilon = 0.001

	switch e1.side {
	case sideTop, sideBottom:
		if math.Abs(e1.a.Y-e2.a.Y) > epsilon {
			return false
		}
		return math.Abs(e1.b.X-e2.a.X) < epsilon || math.Abs(e1.a.X-e2.b.X) < epsilon
	default:
		if math.Abs(e1.a.X-e2.a.X) > epsilon {
			return false
		}
		return math.Abs(e1.b.Y-e2.a.Y) < epsilon || math.Abs(e1.a.Y-e2.b.Y) < epsilon
	}
}

// mergeEdges combines two adjacent colinear edges into one, keeping the
// winding of the first
func mergeEdges(e1, e2 cellEdge) cellEdge {
	result := e1

	switch e1.side {
	case sideTop:
		result.a.X = min(e1.a.X, e2.a.X)
		result.b.X = max(e1.b.X, e2.b.X)
	case sideBottom:
		result.a.X = max(e1.a.X, e2.a.X)
		result.b.X = min(e1.b.X, e2.b.X)
	case sideRight:
		result.a.Y = min(e1.a.Y, e2.a.Y)
		result.b.Y = max(e1.b.Y, e2.b.Y)
	case sideLeft:
		result.a.Y = max(e1.a.Y, e2.a.Y)
		result.b.Y = min(e1.b.Y, e2.b.Y)
	}

	return result
}
