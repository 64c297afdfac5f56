package lighting

import (
	"image/color"
	"math"
	"sync"

	"chosenoffset.com/candle/internal/core/shadows"
	"chosenoffset.com/candle/internal/render"
)

// maxBatchRim keeps the centre plus the rim of one batch addressable with
// uint16 indices.
const maxBatchRim = math.MaxUint16 - 1

// Vertex is a coloured polygon vertex. Colour channels are straight alpha
// in [0, 1].
type Vertex struct {
	X, Y       float64
	R, G, B, A float32
}

// Polygon is a lit region: a triangle fan rooted at the light position.
// Consecutive rim vertices form a triangle with the centre.
type Polygon struct {
	Center Vertex
	Rim    []Vertex
}

// Batch is one draw call worth of a polygon.
type Batch struct {
	Vertices []render.Vertex
	Indices  []uint16
}

func newPolygon(s *Source, hits []shadows.Hit) Polygon {
	r := float32(s.color.R) / 255
	g := float32(s.color.G) / 255
	b := float32(s.color.B) / 255
	alpha := float64(s.color.A) / 255 * s.intensity

	p := Polygon{
		Center: Vertex{X: s.position.X, Y: s.position.Y, R: r, G: g, B: b, A: float32(alpha)},
		Rim:    make([]Vertex, len(hits)),
	}
	for i, h := range hits {
		a := alpha
		if s.fade {
			a *= math.Max(0, 1-h.Dist/s.rng)
		}
		p.Rim[i] = Vertex{X: h.Point.X, Y: h.Point.Y, R: r, G: g, B: b, A: float32(a)}
	}
	return p
}

// Empty reports whether the polygon has no area to draw.
func (p Polygon) Empty() bool {
	return len(p.Rim) < 2
}

// Triangles converts the fan into indexed triangle batches, applying geo
// to every position when it is not nil. Long rims are split so each batch
// stays within uint16 indices; consecutive batches share one rim vertex.
func (p Polygon) Triangles(geo *render.GeoM) []Batch {
	if p.Empty() {
		return nil
	}
	var batches []Batch
	for start := 0; start < len(p.Rim)-1; start += maxBatchRim - 1 {
		end := min(start+maxBatchRim, len(p.Rim))
		rim := p.Rim[start:end]

		b := Batch{
			Vertices: make([]render.Vertex, 0, len(rim)+1),
			Indices:  make([]uint16, 0, (len(rim)-1)*3),
		}
		b.Vertices = append(b.Vertices, toRenderVertex(p.Center, geo))
		for _, v := range rim {
			b.Vertices = append(b.Vertices, toRenderVertex(v, geo))
		}
		for k := 1; k < len(rim); k++ {
			b.Indices = append(b.Indices, 0, uint16(k), uint16(k+1))
		}
		batches = append(batches, b)
	}
	return batches
}

// Draw renders the fan into dst. tex should be an opaque white image so the
// vertex colours come through unchanged.
func (p Polygon) Draw(dst render.Image, tex render.Image, geo *render.GeoM, blend render.Blend) {
	opts := &render.DrawTrianglesOptions{Blend: blend}
	for _, b := range p.Triangles(geo) {
		dst.DrawTriangles(b.Vertices, b.Indices, tex, opts)
	}
}

// Contains reports whether (x, y) lies inside the fan.
func (p Polygon) Contains(x, y float64) bool {
	if p.Empty() {
		return false
	}
	ring := make([]shadows.Point, 0, len(p.Rim)+1)
	ring = append(ring, shadows.Point{X: p.Center.X, Y: p.Center.Y})
	for _, v := range p.Rim {
		ring = append(ring, shadows.Point{X: v.X, Y: v.Y})
	}
	return shadows.PointInPolygon(shadows.Point{X: x, Y: y}, ring)
}

// Area returns the lit area of the fan in square units.
func (p Polygon) Area() float64 {
	var sum float64
	for k := 1; k < len(p.Rim); k++ {
		a, b := p.Rim[k-1], p.Rim[k]
		sum += math.Abs((a.X-p.Center.X)*(b.Y-p.Center.Y)-(a.Y-p.Center.Y)*(b.X-p.Center.X)) / 2
	}
	return sum
}

func toRenderVertex(v Vertex, geo *render.GeoM) render.Vertex {
	x, y := v.X, v.Y
	if geo != nil {
		x, y = geo.Apply(x, y)
	}
	return render.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: v.R,
		ColorG: v.G,
		ColorB: v.B,
		ColorA: v.A,
	}
}

var whiteTextures sync.Map // render.Renderer -> render.Image

// whiteTexture returns a 1x1 opaque white image owned by r.
func whiteTexture(r render.Renderer) render.Image {
	if img, ok := whiteTextures.Load(r); ok {
		return img.(render.Image)
	}
	img := r.NewImage(1, 1)
	img.Fill(color.White)
	actual, _ := whiteTextures.LoadOrStore(r, img)
	return actual.(render.Image)
}
