package soft

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"chosenoffset.com/candle/internal/render"
)

// circleKappa places cubic control points so four curves approximate a circle.
const circleKappa = 0.5522847498

// DrawTriangles rasterises an indexed triangle list. Vertex colours are
// straight alpha and scale the texel sampled from img at the interpolated
// source coordinate; a nil img samples opaque white.
//
// Without anti-aliasing a pixel is covered when its centre lies inside the
// triangle, with a top-left rule on shared edges so a fan covers every
// pixel exactly once. With anti-aliasing coverage comes from
// golang.org/x/image/vector.
func (i *Image) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	if opts == nil {
		opts = &render.DrawTrianglesOptions{}
	}
	var tex *Image
	if img != nil {
		tex = asImage(img)
	}

	for k := 0; k+2 < len(indices); k += 3 {
		a, b, c := int(indices[k]), int(indices[k+1]), int(indices[k+2])
		if a >= len(vertices) || b >= len(vertices) || c >= len(vertices) {
			continue
		}
		t := triangle{vertices[a], vertices[b], vertices[c]}
		if opts.AntiAlias {
			i.fillTriangleAA(t, tex, opts.Blend)
		} else {
			i.fillTriangle(t, tex, opts.Blend)
		}
	}
}

type triangle [3]render.Vertex

// edgeFn is twice the signed area of (a, b, p).
func edgeFn(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// ownsEdge decides which of two triangles sharing an edge covers pixel
// centres lying exactly on it.
func ownsEdge(ax, ay, bx, by float64) bool {
	dy := by - ay
	return dy > 0 || (dy == 0 && bx-ax < 0)
}

func (t *triangle) positions() (x0, y0, x1, y1, x2, y2 float64) {
	return float64(t[0].DstX), float64(t[0].DstY),
		float64(t[1].DstX), float64(t[1].DstY),
		float64(t[2].DstX), float64(t[2].DstY)
}

// bounds returns the pixel box touched by the triangle.
func (t *triangle) bounds() image.Rectangle {
	x0, y0, x1, y1, x2, y2 := t.positions()
	return image.Rect(
		int(math.Floor(min(x0, x1, x2))), int(math.Floor(min(y0, y1, y2))),
		int(math.Ceil(max(x0, x1, x2))), int(math.Ceil(max(y0, y1, y2))),
	)
}

// shade returns the premultiplied source colour for the barycentric
// weights w1 and w2 of the second and third vertex. Attributes are
// interpolated relative to the first vertex so constant ones stay exact.
func (t *triangle) shade(w1, w2 float64, tex *Image) pixel {
	lerp := func(f func(v *render.Vertex) float32) float32 {
		v0 := float64(f(&t[0]))
		return float32(v0 + w1*(float64(f(&t[1]))-v0) + w2*(float64(f(&t[2]))-v0))
	}
	vc := straight(
		lerp(func(v *render.Vertex) float32 { return v.ColorR }),
		lerp(func(v *render.Vertex) float32 { return v.ColorG }),
		lerp(func(v *render.Vertex) float32 { return v.ColorB }),
		lerp(func(v *render.Vertex) float32 { return v.ColorA }),
	)
	if tex == nil {
		return vc
	}
	sx := lerp(func(v *render.Vertex) float32 { return v.SrcX })
	sy := lerp(func(v *render.Vertex) float32 { return v.SrcY })
	return tex.texel(float64(sx), float64(sy)).mul(vc)
}

// texel samples at absolute image coordinates, clamped to the image.
func (i *Image) texel(x, y float64) pixel {
	if i.rect.Empty() {
		return pixel{}
	}
	ix := clampInt(int(math.Floor(x)), i.rect.Min.X, i.rect.Max.X-1)
	iy := clampInt(int(math.Floor(y)), i.rect.Min.Y, i.rect.Max.Y-1)
	return loadPixel(i.pix(ix, iy))
}

func (i *Image) fillTriangle(t triangle, tex *Image, mode render.Blend) {
	x0, y0, x1, y1, x2, y2 := t.positions()
	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area == 0 || math.IsNaN(area) {
		return
	}
	// Normalise winding so the inside is where all edge functions are positive
	if area < 0 {
		t[1], t[2] = t[2], t[1]
		x0, y0, x1, y1, x2, y2 = t.positions()
		area = -area
	}

	own12 := ownsEdge(x1, y1, x2, y2)
	own20 := ownsEdge(x2, y2, x0, y0)
	own01 := ownsEdge(x0, y0, x1, y1)
	inside := func(w float64, owned bool) bool {
		return w > 0 || (w == 0 && owned)
	}

	box := t.bounds().Intersect(i.rect)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		py := float64(y) + 0.5
		for x := box.Min.X; x < box.Max.X; x++ {
			px := float64(x) + 0.5
			w0 := edgeFn(x1, y1, x2, y2, px, py)
			w1 := edgeFn(x2, y2, x0, y0, px, py)
			w2 := edgeFn(x0, y0, x1, y1, px, py)
			if !inside(w0, own12) || !inside(w1, own20) || !inside(w2, own01) {
				continue
			}
			src := t.shade(w1/area, w2/area, tex)
			i.blendAt(x, y, src, mode)
		}
	}
}

func (i *Image) fillTriangleAA(t triangle, tex *Image, mode render.Blend) {
	x0, y0, x1, y1, x2, y2 := t.positions()
	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area == 0 || math.IsNaN(area) {
		return
	}

	box := t.bounds().Intersect(i.rect)
	if box.Empty() {
		return
	}
	ox, oy := float32(box.Min.X), float32(box.Min.Y)
	mask := coverage(box, func(z *vector.Rasterizer) {
		z.MoveTo(t[0].DstX-ox, t[0].DstY-oy)
		z.LineTo(t[1].DstX-ox, t[1].DstY-oy)
		z.LineTo(t[2].DstX-ox, t[2].DstY-oy)
		z.ClosePath()
	})

	for y := box.Min.Y; y < box.Max.Y; y++ {
		py := float64(y) + 0.5
		for x := box.Min.X; x < box.Max.X; x++ {
			cov := mask.AlphaAt(x-box.Min.X, y-box.Min.Y).A
			if cov == 0 {
				continue
			}
			px := float64(x) + 0.5
			// Edge pixels may have their centre outside: clamp the weights
			w0 := max(edgeFn(x1, y1, x2, y2, px, py)/area, 0)
			w1 := max(edgeFn(x2, y2, x0, y0, px, py)/area, 0)
			w2 := max(edgeFn(x0, y0, x1, y1, px, py)/area, 0)
			sum := w0 + w1 + w2
			if sum == 0 {
				continue
			}
			src := t.shade(w1/sum, w2/sum, tex)
			i.blendAt(x, y, src.scale(float32(cov)/255), mode)
		}
	}
}

// coverage rasterises the path built by fn into an alpha mask the size of
// box. Path coordinates are relative to box.Min.
func coverage(box image.Rectangle, fn func(z *vector.Rasterizer)) *image.Alpha {
	w, h := box.Dx(), box.Dy()
	z := vector.NewRasterizer(w, h)
	fn(z)
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// fillMask composites clr onto the image through a coverage mask whose
// origin sits at box.Min.
func (i *Image) fillMask(box image.Rectangle, mask *image.Alpha, clr color.Color) {
	src := pixelFromColor(clr)
	area := box.Intersect(i.rect)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			cov := mask.AlphaAt(x-box.Min.X, y-box.Min.Y).A
			if cov == 0 {
				continue
			}
			i.blendAt(x, y, src.scale(float32(cov)/255), render.BlendSourceOver)
		}
	}
}

// circlePath appends a closed circle. Reversed circles subtract from
// forward ones, which is how rings are made.
func circlePath(z *vector.Rasterizer, cx, cy, r float32, reverse bool) {
	dir := float32(1)
	if reverse {
		dir = -1
	}
	z.MoveTo(cx+r, cy)
	for q := range 4 {
		a0 := dir * float32(q) * math.Pi / 2
		a1 := dir * float32(q+1) * math.Pi / 2
		s0, c0 := sincos32(a0)
		s1, c1 := sincos32(a1)
		k := circleKappa * r * dir
		z.CubeTo(
			cx+r*c0-k*s0, cy+r*s0+k*c0,
			cx+r*c1+k*s1, cy+r*s1-k*c1,
			cx+r*c1, cy+r*s1,
		)
	}
	z.ClosePath()
}

func sincos32(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}

// shapeBox returns the pixel box around a centre with the given reach,
// clipped to the image.
func (i *Image) shapeBox(minX, minY, maxX, maxY float32) image.Rectangle {
	return image.Rect(
		int(math.Floor(float64(minX)))-1, int(math.Floor(float64(minY)))-1,
		int(math.Ceil(float64(maxX)))+1, int(math.Ceil(float64(maxY)))+1,
	).Intersect(i.rect)
}

// FillCircle draws an anti-aliased disc.
func (i *Image) FillCircle(cx, cy, r float32, clr color.Color) {
	if !(r > 0) {
		return
	}
	box := i.shapeBox(cx-r, cy-r, cx+r, cy+r)
	if box.Empty() {
		return
	}
	ox, oy := float32(box.Min.X), float32(box.Min.Y)
	mask := coverage(box, func(z *vector.Rasterizer) {
		circlePath(z, cx-ox, cy-oy, r, false)
	})
	i.fillMask(box, mask, clr)
}

// StrokeCircle draws an anti-aliased ring centred on the radius.
func (i *Image) StrokeCircle(cx, cy, r, width float32, clr color.Color) {
	if !(r > 0) || !(width > 0) {
		return
	}
	outer := r + width/2
	inner := r - width/2
	box := i.shapeBox(cx-outer, cy-outer, cx+outer, cy+outer)
	if box.Empty() {
		return
	}
	ox, oy := float32(box.Min.X), float32(box.Min.Y)
	mask := coverage(box, func(z *vector.Rasterizer) {
		circlePath(z, cx-ox, cy-oy, outer, false)
		if inner > 0 {
			circlePath(z, cx-ox, cy-oy, inner, true)
		}
	})
	i.fillMask(box, mask, clr)
}

// StrokeLine draws an anti-aliased line with butt caps.
func (i *Image) StrokeLine(x0, y0, x1, y1, width float32, clr color.Color) {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 || !(width > 0) {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2

	box := i.shapeBox(min(x0, x1)-width, min(y0, y1)-width, max(x0, x1)+width, max(y0, y1)+width)
	if box.Empty() {
		return
	}
	ox, oy := float32(box.Min.X), float32(box.Min.Y)
	mask := coverage(box, func(z *vector.Rasterizer) {
		z.MoveTo(x0+nx-ox, y0+ny-oy)
		z.LineTo(x1+nx-ox, y1+ny-oy)
		z.LineTo(x1-nx-ox, y1-ny-oy)
		z.LineTo(x0-nx-ox, y0-ny-oy)
		z.ClosePath()
	})
	i.fillMask(box, mask, clr)
}
